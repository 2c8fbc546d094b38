// Package config provides centralized configuration management for diamondprep.
// It loads configuration from multiple sources, validates it, and resolves the
// directories the tools write into.
//
// # Configuration Sources
//
// Configuration is layered in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML file (DIAMONDS_CONFIG, config.yaml or configs/config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern DIAMONDS_<SECTION>_<FIELD>:
//
//	DIAMONDS_DATASET_MODE=cut_binary
//	DIAMONDS_DATASET_SOURCE=./diamonds.csv
//	DIAMONDS_SERVER_PORT=8080
//	DIAMONDS_LOGGING_LEVEL=debug
//	DIAMONDS_TELEMETRY_TRACING=stdout
//
// # Validation
//
// Every section carries go-playground validator tags; Load fails on the
// first violation.
//
// # Path Management
//
//	paths, err := config.GetPaths(cfg.Paths)
//	plot := paths.GetReportPath("price_hist.png")
package config
