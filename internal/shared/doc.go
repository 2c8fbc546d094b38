// Package shared holds helpers used by more than one package.
//
// testutil carries the sample diamonds CSV used across package tests and a
// slog handler that captures records for assertions:
//
//	logger, logs := testutil.NewTestLogger(t)
//	svc := services.NewDatasetService(loader, nil, logger)
//	...
//	testutil.AssertLogContains(t, logs, slog.LevelInfo, "Dataset run finished")
//
// Nothing here may import a domain package.
package shared
