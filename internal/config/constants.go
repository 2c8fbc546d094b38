package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "diamondprep"
	AppVersion = "1.0.0"

	// Dataset defaults
	DefaultMode      = "cut"
	DefaultFormat    = "csv"
	DefaultSourceURL = "https://huggingface.co/datasets/mstz/diamonds/raw/main/diamonds.csv"

	// Network Timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultFetchRetries = 3
	DefaultRetryRate    = 1.0 // attempts per second

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// File Paths (relative to the base directory)
	DefaultDataDir    = "data"
	DefaultReportsDir = "data/reports"
	DefaultCacheDir   = "data/cache"
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "logs/app.log"

	// Upload limits
	MaxUploadBytes = 64 << 20
)
