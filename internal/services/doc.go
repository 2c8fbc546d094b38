// Package services implements the business logic layer shared by the CLIs
// and the HTTP API. It keeps handlers and commands thin: they parse their
// input, call a service, and render the result.
//
// DatasetService ties the pieces together:
//
//	loader (files) -> diamonds.Generate -> exporter
//
// with a run ID, structured logs, a span and run metrics around each call.
// HealthService reports liveness and readiness.
package services
