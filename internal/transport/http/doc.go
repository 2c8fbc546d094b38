// Package http implements the HTTP handlers of the dataset server. Handlers
// stay thin: they parse and validate the request, call the dataset or health
// service, and map service errors onto RFC 7807 problem documents.
//
// # Endpoints
//
//	GET  /api/health              liveness summary
//	GET  /api/health/ready        source and reports directory checks
//	GET  /api/health/live         runtime details
//	GET  /api/version             build and runtime information
//	GET  /api/v1/encodings        the cut and clarity encoding table
//	GET  /api/v1/info?mode=       dataset metadata for a mode
//	GET  /api/v1/report           summary statistics of the configured source
//	POST /api/v1/normalize?mode=&format=json|csv|jsonl|xlsx
//	GET  /api/v1/stream?mode=     WebSocket, one message per record
//
// # Error Mapping
//
//	UnknownConfigError            400 /errors/dataset/unknown-config
//	UnknownLabelError             422 /errors/dataset/unprocessable
//	UnknownFeatureError           422 /errors/dataset/unprocessable
//	parsing errors                422 /errors/dataset/unprocessable
//	network errors                502 /errors/dataset/upstream
//	oversized bodies              413 /errors/validation
//
// # Testing
//
// Handlers are tested with httptest against a fake DatasetServiceInterface
// or the real services over in-memory tables.
package http
