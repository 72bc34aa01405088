package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// ServerConfig contains HTTP server configuration for the report server
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout bounds handler execution; zero disables the limit
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PipelineConfig contains data cleaning and aggregation configuration
type PipelineConfig struct {
	// Outlier bounds applied during cleaning
	MaxQuantity  int     `yaml:"max_quantity" envconfig:"MAX_QUANTITY" default:"100" validate:"gt=0"`
	MaxUnitPrice float64 `yaml:"max_unit_price" envconfig:"MAX_UNIT_PRICE" default:"1000" validate:"gt=0"`

	// Column-aware fill values for missing cells. Kept explicit instead of a
	// blanket zero-fill so each column's policy can be tuned independently.
	FillQuantity    int     `yaml:"fill_quantity" envconfig:"FILL_QUANTITY" default:"0" validate:"min=0"`
	FillUnitPrice   float64 `yaml:"fill_unit_price" envconfig:"FILL_UNIT_PRICE" default:"0" validate:"min=0"`
	FillCustomerAge int     `yaml:"fill_customer_age" envconfig:"FILL_CUSTOMER_AGE" default:"0" validate:"min=0"`

	// Histogram rendering
	HistogramBins int `yaml:"histogram_bins" envconfig:"HISTOGRAM_BINS" default:"20" validate:"gt=0"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("SALES", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file. Keys absent from the
// document keep their default values, so the result is always complete.
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg := *Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config. Only variables actually
// present in the environment take precedence; envconfig fills unset variables
// from its default tags, so zero-value checks cannot tell the two apart.
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := fileConfig

	if envSet("SALES_SERVER_PORT") {
		merged.Server.Port = envConfig.Server.Port
	}
	if envSet("SALES_SERVER_READ_TIMEOUT") {
		merged.Server.ReadTimeout = envConfig.Server.ReadTimeout
	}
	if envSet("SALES_SERVER_WRITE_TIMEOUT") {
		merged.Server.WriteTimeout = envConfig.Server.WriteTimeout
	}
	if envSet("SALES_SERVER_IDLE_TIMEOUT") {
		merged.Server.IdleTimeout = envConfig.Server.IdleTimeout
	}
	if envSet("SALES_SERVER_SHUTDOWN_TIMEOUT") {
		merged.Server.ShutdownTimeout = envConfig.Server.ShutdownTimeout
	}
	if envSet("SALES_SERVER_REQUEST_TIMEOUT") {
		merged.Server.RequestTimeout = envConfig.Server.RequestTimeout
	}
	if envSet("SALES_SECURITY_RATE_LIMIT_ENABLED") {
		merged.Security.RateLimit.Enabled = envConfig.Security.RateLimit.Enabled
	}
	if envSet("SALES_SECURITY_RATE_LIMIT_RPS") {
		merged.Security.RateLimit.RPS = envConfig.Security.RateLimit.RPS
	}
	if envSet("SALES_SECURITY_RATE_LIMIT_BURST") {
		merged.Security.RateLimit.Burst = envConfig.Security.RateLimit.Burst
	}
	if envSet("SALES_LOGGING_LEVEL") {
		merged.Logging.Level = envConfig.Logging.Level
	}
	if envSet("SALES_LOGGING_FORMAT") {
		merged.Logging.Format = envConfig.Logging.Format
	}
	if envSet("SALES_LOGGING_OUTPUT") {
		merged.Logging.Output = envConfig.Logging.Output
	}
	if envSet("SALES_LOGGING_FILE_PATH") {
		merged.Logging.FilePath = envConfig.Logging.FilePath
	}
	if envSet("SALES_PIPELINE_MAX_QUANTITY") {
		merged.Pipeline.MaxQuantity = envConfig.Pipeline.MaxQuantity
	}
	if envSet("SALES_PIPELINE_MAX_UNIT_PRICE") {
		merged.Pipeline.MaxUnitPrice = envConfig.Pipeline.MaxUnitPrice
	}
	if envSet("SALES_PIPELINE_FILL_QUANTITY") {
		merged.Pipeline.FillQuantity = envConfig.Pipeline.FillQuantity
	}
	if envSet("SALES_PIPELINE_FILL_UNIT_PRICE") {
		merged.Pipeline.FillUnitPrice = envConfig.Pipeline.FillUnitPrice
	}
	if envSet("SALES_PIPELINE_FILL_CUSTOMER_AGE") {
		merged.Pipeline.FillCustomerAge = envConfig.Pipeline.FillCustomerAge
	}
	if envSet("SALES_PIPELINE_HISTOGRAM_BINS") {
		merged.Pipeline.HistogramBins = envConfig.Pipeline.HistogramBins
	}

	return merged
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Logging.Format != "json" {
		// JSON is the only supported structured format
		c.Logging.Format = "json"
	}

	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "stdout" {
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
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
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Pipeline: PipelineConfig{
			MaxQuantity:   100,
			MaxUnitPrice:  1000,
			HistogramBins: 20,
		},
	}
}
