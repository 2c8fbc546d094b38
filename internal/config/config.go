package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"diamondprep/internal/diamonds"
)

// EnvPrefix namespaces every environment variable, e.g. DIAMONDS_DATASET_MODE.
const EnvPrefix = "DIAMONDS"

// Config represents the complete application configuration
type Config struct {
	Dataset   DatasetConfig   `yaml:"dataset" envconfig:"DATASET"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
}

// DatasetConfig selects what the pipeline reads and produces
type DatasetConfig struct {
	Mode         string        `yaml:"mode" envconfig:"MODE"`
	Source       string        `yaml:"source" envconfig:"SOURCE" validate:"required"`
	Output       string        `yaml:"output" envconfig:"OUTPUT"`
	Format       string        `yaml:"format" envconfig:"FORMAT" validate:"oneof=csv jsonl xlsx"`
	WithBOM      bool          `yaml:"with_bom" envconfig:"WITH_BOM"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT" validate:"gt=0"`
	FetchRetries int           `yaml:"fetch_retries" envconfig:"FETCH_RETRIES" validate:"gte=0,lte=10"`
	RetryRate    float64       `yaml:"retry_rate" envconfig:"RETRY_RATE" validate:"gt=0"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	MaxUploadBytes  int64           `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" validate:"gt=0"`
	AllowedOrigins  []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig selects the OpenTelemetry exporters
type TelemetryConfig struct {
	ServiceName string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Tracing     string  `yaml:"tracing" envconfig:"TRACING" validate:"oneof=stdout none"`
	Metrics     string  `yaml:"metrics" envconfig:"METRICS" validate:"oneof=prometheus none"`
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	CacheDir   string `yaml:"cache_dir" envconfig:"CACHE_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// Load loads configuration from the first config file found and the environment
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom starts from Default, overlays the YAML file at path (if any) and
// then environment variables, and validates the result.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Env vars without a value leave the field untouched
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks every section against its validate tags. The dataset mode
// is checked by diamonds.ParseMode, so an unknown mode comes back as a
// *diamonds.UnknownConfigError and the empty mode selects cut.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("%s failed on '%s' (value %v)", first.Namespace(), first.Tag(), first.Value())
		}
		return err
	}
	if _, err := diamonds.ParseMode(c.Dataset.Mode); err != nil {
		return err
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Mode:         DefaultMode,
			Source:       DefaultSourceURL,
			Format:       DefaultFormat,
			FetchTimeout: DefaultHTTPTimeout,
			FetchRetries: DefaultFetchRetries,
			RetryRate:    DefaultRetryRate,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxUploadBytes:  MaxUploadBytes,
			AllowedOrigins:  []string{"http://localhost:8080"},
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			ServiceName: AppName,
			Tracing:     "none",
			Metrics:     "prometheus",
			SampleRatio: 1.0,
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			ReportsDir: DefaultReportsDir,
			CacheDir:   DefaultCacheDir,
			LogsDir:    DefaultLogsDir,
		},
	}
}
