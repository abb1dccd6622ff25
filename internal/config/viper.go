// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "TXNCAT"

// LogConfig selects the log level and formatter.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ServerConfig configures the HTTP upload endpoint.
type ServerConfig struct {
	Address             string `mapstructure:"address" yaml:"address"`
	BodyLimitMB         int    `mapstructure:"body_limit_mb" yaml:"body_limit_mb"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds" yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" yaml:"write_timeout_seconds"`
}

// CORSConfig lists the cross-origin policy of the HTTP endpoint.
type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins" yaml:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods" yaml:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers" yaml:"allow_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
}

// RulesConfig points at an optional rule table replacing the built-in one.
type RulesConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// StatementConfig lists the boilerplate lines of a statement.
type StatementConfig struct {
	SkipPrefixes  []string `mapstructure:"skip_prefixes" yaml:"skip_prefixes"`
	SkipPhrases   []string `mapstructure:"skip_phrases" yaml:"skip_phrases"`
	FooterMarkers []string `mapstructure:"footer_markers" yaml:"footer_markers"`
}

// PDFConfig selects the page text extractor.
type PDFConfig struct {
	Extractor      string `mapstructure:"extractor" yaml:"extractor"`
	PdftotextPath  string `mapstructure:"pdftotext_path" yaml:"pdftotext_path"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// OutputConfig controls how the CLI writes records.
type OutputConfig struct {
	Format       string `mapstructure:"format" yaml:"format"`
	CSVDelimiter string `mapstructure:"csv_delimiter" yaml:"csv_delimiter"`
}

// BatchConfig bounds parallel file parsing.
type BatchConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// Config represents the complete application configuration
type Config struct {
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	CORS      CORSConfig      `mapstructure:"cors" yaml:"cors"`
	Rules     RulesConfig     `mapstructure:"rules" yaml:"rules"`
	Statement StatementConfig `mapstructure:"statement" yaml:"statement"`
	PDF       PDFConfig       `mapstructure:"pdf" yaml:"pdf"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output"`
	Batch     BatchConfig     `mapstructure:"batch" yaml:"batch"`
}

// BodyLimitBytes returns the upload size limit in bytes.
func (c *Config) BodyLimitBytes() int {
	return c.Server.BodyLimitMB * 1024 * 1024
}

// ReadTimeout returns the server read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeoutSeconds) * time.Second
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	return []rune(c.Output.CSVDelimiter)[0]
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return Load("")
}

// Load reads the configuration. An explicit configFile must exist; otherwise
// config.yaml is looked up in the standard locations and is optional.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.txncat")
		v.AddConfigPath(".txncat")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case configFile != "":
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		case errors.As(err, &notFound):
			// defaults and environment only
		default:
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Server defaults
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.body_limit_mb", 20)
	v.SetDefault("server.read_timeout_seconds", 30)
	v.SetDefault("server.write_timeout_seconds", 60)

	// CORS defaults: fully open, without credentials
	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("cors.allow_methods", []string{"*"})
	v.SetDefault("cors.allow_headers", []string{"*"})
	v.SetDefault("cors.allow_credentials", false)

	// Rules defaults
	v.SetDefault("rules.file", "")

	// Statement defaults
	v.SetDefault("statement.skip_prefixes", []string{"Page", "Transaction Statement for", "Date Transaction"})
	v.SetDefault("statement.skip_phrases", []string{"system generated statement"})
	v.SetDefault("statement.footer_markers", []string{"disclaimer"})

	// PDF defaults
	v.SetDefault("pdf.extractor", "library")
	v.SetDefault("pdf.pdftotext_path", "pdftotext")
	v.SetDefault("pdf.timeout_seconds", 60)

	// Output defaults
	v.SetDefault("output.format", "json")
	v.SetDefault("output.csv_delimiter", ",")

	// Batch defaults
	v.SetDefault("batch.workers", 4)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if config.Server.BodyLimitMB < 1 || config.Server.BodyLimitMB > 1024 {
		return fmt.Errorf("server.body_limit_mb must be between 1 and 1024, got: %d", config.Server.BodyLimitMB)
	}
	if config.Server.ReadTimeoutSeconds < 0 || config.Server.WriteTimeoutSeconds < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}

	// Browsers reject credentialed responses for a wildcard origin
	if config.CORS.AllowCredentials {
		for _, o := range config.CORS.AllowOrigins {
			if strings.TrimSpace(o) == "*" {
				return fmt.Errorf("cors.allow_credentials cannot be used with a wildcard origin")
			}
		}
	}

	switch strings.ToLower(strings.TrimSpace(config.PDF.Extractor)) {
	case "library", "pdftotext":
	default:
		return fmt.Errorf("invalid pdf extractor: %s (must be 'library' or 'pdftotext')", config.PDF.Extractor)
	}
	if config.PDF.TimeoutSeconds < 1 {
		return fmt.Errorf("pdf.timeout_seconds must be positive, got: %d", config.PDF.TimeoutSeconds)
	}

	switch strings.ToLower(config.Output.Format) {
	case "json", "csv":
	default:
		return fmt.Errorf("invalid output format: %s (must be 'json' or 'csv')", config.Output.Format)
	}

	// Validate CSV delimiter
	if len([]rune(config.Output.CSVDelimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.Output.CSVDelimiter)
	}

	if config.Batch.Workers < 1 || config.Batch.Workers > 64 {
		return fmt.Errorf("batch.workers must be between 1 and 64, got: %d", config.Batch.Workers)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	// Parse and set log level
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Configure log format
	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
