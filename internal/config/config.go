package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"salesheatmap/internal/dataprocessing"
)

// EnvPrefix namespaces every environment variable, e.g. SALES_SERVER_PORT
const EnvPrefix = "SALES"

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" envconfig:"SERVER"`
	Security   SecurityConfig   `yaml:"security" envconfig:"SECURITY"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8000" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8000" validate:"min=1"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	WebDir     string `yaml:"web_dir" envconfig:"WEB_DIR" default:"."`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
	ResultFile string `yaml:"result_file" envconfig:"RESULT_FILE" default:"processed_sales_data.json" validate:"required"`
}

// ProcessingConfig holds the defaults for a processor run
type ProcessingConfig struct {
	Measure    string                 `yaml:"measure" envconfig:"MEASURE" default:"total" validate:"oneof=total quantity"`
	WindowDays int                    `yaml:"window_days" envconfig:"WINDOW_DAYS" default:"0" validate:"gte=0"`
	Encoding   string                 `yaml:"encoding" envconfig:"ENCODING" default:"utf-8" validate:"oneof=utf-8 windows-874 tis-620"`
	Sheet      string                 `yaml:"sheet" envconfig:"SHEET"`
	Columns    dataprocessing.Columns `yaml:"columns" envconfig:"COLUMNS"`
}

// Options converts the processing defaults into engine options
func (p ProcessingConfig) Options() (dataprocessing.Options, error) {
	measure, err := dataprocessing.ParseMeasure(p.Measure)
	if err != nil {
		return dataprocessing.Options{}, err
	}
	return dataprocessing.Options{
		Measure:      measure,
		RecentWindow: time.Duration(p.WindowDays) * 24 * time.Hour,
	}, nil
}

// LoadOptions converts the processing defaults into loader options
func (p ProcessingConfig) LoadOptions() dataprocessing.LoadOptions {
	opts := dataprocessing.DefaultLoadOptions()
	opts.Columns = p.Columns.WithDefaults()
	opts.Encoding = p.Encoding
	opts.Sheet = p.Sheet
	return opts
}

var validate = validator.New()

// Load loads configuration from environment variables and the first config
// file found in the usual locations.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration from environment variables merged over the
// given YAML file. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config. A value set explicitly
// in the environment wins; otherwise the file value replaces the default.
func mergeConfigs(fileConfig, envConfig Config) Config {
	pick := func(name string, env, file string) string {
		if _, ok := os.LookupEnv(EnvPrefix + "_" + name); ok || file == "" {
			return env
		}
		return file
	}
	pickInt := func(name string, env, file int) int {
		if _, ok := os.LookupEnv(EnvPrefix + "_" + name); ok || file == 0 {
			return env
		}
		return file
	}
	pickDuration := func(name string, env, file time.Duration) time.Duration {
		if _, ok := os.LookupEnv(EnvPrefix + "_" + name); ok || file == 0 {
			return env
		}
		return file
	}

	cfg := envConfig

	// Server
	cfg.Server.Port = pickInt("SERVER_PORT", envConfig.Server.Port, fileConfig.Server.Port)
	cfg.Server.ReadTimeout = pickDuration("SERVER_READ_TIMEOUT", envConfig.Server.ReadTimeout, fileConfig.Server.ReadTimeout)
	cfg.Server.WriteTimeout = pickDuration("SERVER_WRITE_TIMEOUT", envConfig.Server.WriteTimeout, fileConfig.Server.WriteTimeout)
	cfg.Server.IdleTimeout = pickDuration("SERVER_IDLE_TIMEOUT", envConfig.Server.IdleTimeout, fileConfig.Server.IdleTimeout)
	cfg.Server.ShutdownTimeout = pickDuration("SERVER_SHUTDOWN_TIMEOUT", envConfig.Server.ShutdownTimeout, fileConfig.Server.ShutdownTimeout)
	cfg.Server.RequestTimeout = pickDuration("SERVER_REQUEST_TIMEOUT", envConfig.Server.RequestTimeout, fileConfig.Server.RequestTimeout)

	// Security
	if _, ok := os.LookupEnv(EnvPrefix + "_SECURITY_ALLOWED_ORIGINS"); !ok && len(fileConfig.Security.AllowedOrigins) > 0 {
		cfg.Security.AllowedOrigins = fileConfig.Security.AllowedOrigins
	}
	if fileConfig.Security.RateLimit.RPS != 0 {
		if _, ok := os.LookupEnv(EnvPrefix + "_SECURITY_RATE_LIMIT_RPS"); !ok {
			cfg.Security.RateLimit.RPS = fileConfig.Security.RateLimit.RPS
		}
	}
	cfg.Security.RateLimit.Burst = pickInt("SECURITY_RATE_LIMIT_BURST", envConfig.Security.RateLimit.Burst, fileConfig.Security.RateLimit.Burst)

	// Logging
	cfg.Logging.Level = pick("LOGGING_LEVEL", envConfig.Logging.Level, fileConfig.Logging.Level)
	cfg.Logging.Output = pick("LOGGING_OUTPUT", envConfig.Logging.Output, fileConfig.Logging.Output)
	cfg.Logging.FilePath = pick("LOGGING_FILE_PATH", envConfig.Logging.FilePath, fileConfig.Logging.FilePath)

	// Paths
	cfg.Paths.BaseDir = pick("PATHS_BASE_DIR", envConfig.Paths.BaseDir, fileConfig.Paths.BaseDir)
	cfg.Paths.DataDir = pick("PATHS_DATA_DIR", envConfig.Paths.DataDir, fileConfig.Paths.DataDir)
	cfg.Paths.WebDir = pick("PATHS_WEB_DIR", envConfig.Paths.WebDir, fileConfig.Paths.WebDir)
	cfg.Paths.LogsDir = pick("PATHS_LOGS_DIR", envConfig.Paths.LogsDir, fileConfig.Paths.LogsDir)
	cfg.Paths.ResultFile = pick("PATHS_RESULT_FILE", envConfig.Paths.ResultFile, fileConfig.Paths.ResultFile)

	// Processing
	cfg.Processing.Measure = pick("PROCESSING_MEASURE", envConfig.Processing.Measure, fileConfig.Processing.Measure)
	cfg.Processing.WindowDays = pickInt("PROCESSING_WINDOW_DAYS", envConfig.Processing.WindowDays, fileConfig.Processing.WindowDays)
	cfg.Processing.Encoding = pick("PROCESSING_ENCODING", envConfig.Processing.Encoding, fileConfig.Processing.Encoding)
	cfg.Processing.Sheet = pick("PROCESSING_SHEET", envConfig.Processing.Sheet, fileConfig.Processing.Sheet)
	cfg.Processing.Columns.BillOpen = pick("PROCESSING_COLUMNS_BILL_OPEN", envConfig.Processing.Columns.BillOpen, fileConfig.Processing.Columns.BillOpen)
	cfg.Processing.Columns.OrderTime = pick("PROCESSING_COLUMNS_ORDER_TIME", envConfig.Processing.Columns.OrderTime, fileConfig.Processing.Columns.OrderTime)
	cfg.Processing.Columns.Total = pick("PROCESSING_COLUMNS_TOTAL", envConfig.Processing.Columns.Total, fileConfig.Processing.Columns.Total)
	cfg.Processing.Columns.Quantity = pick("PROCESSING_COLUMNS_QUANTITY", envConfig.Processing.Columns.Quantity, fileConfig.Processing.Columns.Quantity)

	return cfg
}

// Validate checks the struct tags on every section
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// ResolvePaths resolves the configured paths against the base directory
func (c *Config) ResolvePaths() (*Paths, error) {
	return ResolvePaths(c.Paths)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_FILE"); p != "" {
		return p
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
		Server: ServerConfig{
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8000"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			WebDir:     ".",
			LogsDir:    "logs",
			ResultFile: "processed_sales_data.json",
		},
		Processing: ProcessingConfig{
			Measure:  string(dataprocessing.MeasureTotal),
			Encoding: dataprocessing.EncodingUTF8,
			Columns:  dataprocessing.Columns{}.WithDefaults(),
		},
	}
}
