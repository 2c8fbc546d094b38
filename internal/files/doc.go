// Package files loads the raw diamonds table from wherever it lives.
//
// A source is either a local path or an http(s) URL. Files ending in .xlsx
// are read with excelize from the first sheet; everything else is parsed as
// CSV. Remote sources are fetched with retries paced by a token-bucket
// limiter and can be kept in a cache directory for later runs.
//
// Example usage:
//
//	loader := files.NewLoader(cfg.Dataset.Source, files.Options{
//	    Timeout:   cfg.Dataset.FetchTimeout,
//	    Retries:   cfg.Dataset.FetchRetries,
//	    RetryRate: cfg.Dataset.RetryRate,
//	    CacheDir:  paths.CacheDir,
//	})
//	seq, err := diamonds.Generate(ctx, diamonds.ModeCut, loader)
package files
