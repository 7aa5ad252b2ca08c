// Package config defines the data structures related to configuration and
// includes functions for loading, validating and exporting it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/iwvelando/investment-tracker/pkg/constants"
	"github.com/iwvelando/investment-tracker/pkg/validation"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Redacted replaces secrets in exported configuration.
const Redacted = "********"

// Configuration holds all configuration for investment-tracker.
type Configuration struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging,omitempty"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output,omitempty"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Market   MarketConfig   `mapstructure:"market" yaml:"market"`
	News     NewsConfig     `mapstructure:"news" yaml:"news"`
	AI       AIConfig       `mapstructure:"ai" yaml:"ai"`
}

// ServerConfig defines runtime parameters for the HTTP server.
type ServerConfig struct {
	Address         string `mapstructure:"address" yaml:"address"`
	MaxUploadSize   string `mapstructure:"maxUploadSize" yaml:"maxUploadSize"`
	uploadSizeBytes int64
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, json
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// CacheConfig selects the price cache backend and freshness windows.
type CacheConfig struct {
	Backend       string        `mapstructure:"backend" yaml:"backend"` // memory, redis
	PriceTTL      time.Duration `mapstructure:"priceTTL" yaml:"priceTTL"`
	DividendTTL   time.Duration `mapstructure:"dividendTTL" yaml:"dividendTTL"`
	RedisAddress  string        `mapstructure:"redisAddress" yaml:"redisAddress,omitempty"`
	RedisPassword string        `mapstructure:"redisPassword" yaml:"redisPassword,omitempty"`
	RedisDB       int           `mapstructure:"redisDB" yaml:"redisDB"`
	RedisPrefix   string        `mapstructure:"redisPrefix" yaml:"redisPrefix,omitempty"`
}

// MarketConfig configures the quote and history provider.
type MarketConfig struct {
	BaseURL   string        `mapstructure:"baseURL" yaml:"baseURL"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent string        `mapstructure:"userAgent" yaml:"userAgent"`
}

// NewsConfig configures the free-text news search provider.
type NewsConfig struct {
	APIKey  string `mapstructure:"apiKey" yaml:"apiKey,omitempty"`
	BaseURL string `mapstructure:"baseURL" yaml:"baseURL"`
}

// AIConfig configures the portfolio review generator.
type AIConfig struct {
	APIKey string `mapstructure:"apiKey" yaml:"apiKey,omitempty"`
	Model  string `mapstructure:"model" yaml:"model"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxUploadSize", fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes))
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("database.path", constants.DefaultDatabasePath)
	v.SetDefault("cache.backend", constants.CacheBackendMemory)
	v.SetDefault("cache.priceTTL", constants.DefaultPriceTTL)
	v.SetDefault("cache.dividendTTL", constants.DefaultDividendTTL)
	v.SetDefault("cache.redisAddress", "")
	v.SetDefault("cache.redisPassword", "")
	v.SetDefault("cache.redisDB", 0)
	v.SetDefault("cache.redisPrefix", "")
	v.SetDefault("market.baseURL", constants.DefaultMarketBaseURL)
	v.SetDefault("market.timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("market.userAgent", constants.DefaultUserAgent)
	v.SetDefault("news.apiKey", "")
	v.SetDefault("news.baseURL", constants.DefaultNewsBaseURL)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.model", constants.DefaultAIModel)
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with
// INVESTMENT_TRACKER_ override file values, and GEMINI_API_KEY and
// NEWS_API_KEY are honoured for the provider keys. A missing file or an empty
// path yields the defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("ai.apiKey", constants.EnvPrefix+"_AI_APIKEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding ai.apiKey: %w", err)
	}
	if err := v.BindEnv("news.apiKey", constants.EnvPrefix+"_NEWS_APIKEY", "NEWS_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding news.apiKey: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := configuration.Server.normalize(); err != nil {
		return nil, err
	}

	return &configuration, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *ServerConfig) UploadSizeBytes() int64 {
	if c.uploadSizeBytes <= 0 {
		return constants.DefaultMaxUploadSizeBytes
	}
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the configured upload size.
func (c *ServerConfig) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = fmt.Sprintf("%d", size)
	}
}

func (c *ServerConfig) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	sizeStr := strings.TrimSpace(c.MaxUploadSize)
	if sizeStr == "" {
		c.uploadSizeBytes = constants.DefaultMaxUploadSizeBytes
		c.MaxUploadSize = fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = bytes
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		warnings = append(warnings, fmt.Sprintf("output: %v", err))
	}
	if err := validation.ValidateLogLevel(c.Logging.Level); err != nil {
		warnings = append(warnings, fmt.Sprintf("logging: %v", err))
	}
	if err := validation.ValidateCacheBackend(c.Cache.Backend); err != nil {
		warnings = append(warnings, fmt.Sprintf("cache: %v", err))
	}
	if c.Cache.Backend == constants.CacheBackendRedis && c.Cache.RedisAddress == "" {
		warnings = append(warnings, "cache: redis backend selected without redisAddress")
	}
	if c.Cache.PriceTTL <= 0 {
		warnings = append(warnings, "cache: priceTTL is not positive, prices are refetched on every request")
	}
	if c.Database.Path == "" {
		warnings = append(warnings, "database: path is empty")
	}
	if c.News.APIKey == "" {
		warnings = append(warnings, "news: apiKey not set, news search falls back to market headlines")
	}
	if c.AI.APIKey == "" {
		warnings = append(warnings, "ai: apiKey not set, portfolio review is disabled")
	}

	return warnings
}

// Export renders the effective configuration as YAML with secrets redacted.
func (c *Configuration) Export() ([]byte, error) {
	redacted := *c
	if redacted.News.APIKey != "" {
		redacted.News.APIKey = Redacted
	}
	if redacted.AI.APIKey != "" {
		redacted.AI.APIKey = Redacted
	}
	if redacted.Cache.RedisPassword != "" {
		redacted.Cache.RedisPassword = Redacted
	}

	out, err := yaml.Marshal(redacted)
	if err != nil {
		return nil, fmt.Errorf("failed to export configuration: %w", err)
	}
	return out, nil
}
