package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"diamondprep/internal/diamonds"
	apperrors "diamondprep/internal/errors"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultRetryRate = 1.0
	maxSourceBytes   = 256 << 20
)

// Options tunes how a Loader reaches its source. The zero value is usable.
type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Retries    int     // extra attempts after the first, remote sources only
	RetryRate  float64 // attempts per second
	CacheDir   string  // when set, downloads are written here and reused
	Logger     *slog.Logger

	// OnBytes is told how many bytes were read from the source
	OnBytes func(ctx context.Context, n int64)
}

// Loader reads the raw diamonds table from a local file or URL. It
// implements diamonds.TableLoader.
type Loader struct {
	source  string
	opts    Options
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

var _ diamonds.TableLoader = (*Loader)(nil)

// NewLoader creates a loader for source
func NewLoader(source string, opts Options) *Loader {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RetryRate <= 0 {
		opts.RetryRate = defaultRetryRate
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{
		source:  source,
		opts:    opts,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(opts.RetryRate), 1),
		logger:  logger.With(slog.String("component", "loader")),
	}
}

// Source returns the configured location
func (l *Loader) Source() string {
	return l.source
}

// IsRemote reports whether source is an http(s) URL
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load implements diamonds.TableLoader
func (l *Loader) Load(ctx context.Context) (*diamonds.RawTable, error) {
	if l.source == "" {
		return nil, apperrors.NewAppValidationError("dataset source is empty")
	}

	start := time.Now()
	data, err := l.read(ctx)
	if err != nil {
		return nil, err
	}
	if l.opts.OnBytes != nil {
		l.opts.OnBytes(ctx, int64(len(data)))
	}

	table, err := Parse(l.name(), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "Source loaded",
		slog.String("source", l.source),
		slog.Int("bytes", len(data)),
		slog.Int("rows", len(table.Rows)),
		slog.Duration("elapsed", time.Since(start)))

	return table, nil
}

// Parse picks the reader by file extension: .xlsx goes through excelize,
// anything else is CSV.
func Parse(name string, r io.Reader) (*diamonds.RawTable, error) {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return ReadXLSX(r)
	}
	return diamonds.ReadCSV(r)
}

// name is the file name used for format detection and caching
func (l *Loader) name() string {
	if IsRemote(l.source) {
		if u, err := url.Parse(l.source); err == nil {
			if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
				return base
			}
		}
		return "source.csv"
	}
	return filepath.Base(l.source)
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if !IsRemote(l.source) {
		return readLocal(l.source)
	}

	cached := l.cachePath()
	if cached != "" {
		if data, err := os.ReadFile(cached); err == nil {
			l.logger.InfoContext(ctx, "Using cached source", slog.String("path", cached))
			return data, nil
		}
	}

	data, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if cached != "" {
		if err := writeCache(cached, data); err != nil {
			// The run can continue without a cache
			l.logger.WarnContext(ctx, "Failed to cache source",
				slog.String("path", cached),
				slog.String("error", err.Error()))
		}
	}
	return data, nil
}

func (l *Loader) cachePath() string {
	if l.opts.CacheDir == "" {
		return ""
	}
	return filepath.Join(l.opts.CacheDir, l.name())
}

func readLocal(p string) ([]byte, error) {
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("source file %s", p))
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read source file", err).
			WithContext("path", p)
	}
	return data, nil
}

func writeCache(p string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// fetch downloads the source, retrying transport failures, 429 and 5xx
func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	var lastErr error
	attempts := l.opts.Retries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := l.limiter.Wait(ctx); err != nil {
			if lastErr != nil {
				return nil, apperrors.NewNetworkError("download aborted", errors.Join(err, lastErr))
			}
			return nil, err
		}

		data, retry, err := l.get(ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if !retry || ctx.Err() != nil {
			break
		}

		l.logger.WarnContext(ctx, "Download attempt failed",
			slog.String("url", l.source),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.String("error", err.Error()))
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, apperrors.NewNetworkError("failed to download dataset", lastErr).
		WithContext("url", l.source)
}

// get performs one request and reports whether a failure is worth retrying
func (l *Loader) get(ctx context.Context) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes+1))
	if err != nil {
		return nil, true, err
	}
	if len(data) > maxSourceBytes {
		return nil, false, fmt.Errorf("source exceeds %d bytes", maxSourceBytes)
	}
	return data, false, nil
}
