package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Target  TargetConfig
	Scraper ScraperConfig
	Notify  NotifyConfig
	Auth    AuthConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

// TargetConfig identifies the product listing to watch
type TargetConfig struct {
	URL      string `mapstructure:"url"`
	UseProxy bool   `mapstructure:"use_proxy"`
}

// ScraperConfig holds fetch-strategy configuration
type ScraperConfig struct {
	ProxyEndpoint string        `mapstructure:"proxy_endpoint"`
	ProxyAPIKey   string        `mapstructure:"proxy_api_key"`
	VendorBaseURL string        `mapstructure:"vendor_base_url"`
	VendorEnabled bool          `mapstructure:"vendor_enabled"`
	UserAgent     string        `mapstructure:"user_agent"`
	DirectTimeout time.Duration `mapstructure:"direct_timeout"`
	ProxyTimeout  time.Duration `mapstructure:"proxy_timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

// NotifyConfig holds email notification configuration
type NotifyConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
	Password string `mapstructure:"password"`
}

// AuthConfig holds the shared secret gating the API
type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/kaspiwatch/")

	// Environment variable settings
	v.SetEnvPrefix("KASPIWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")

	// Target defaults
	v.SetDefault("target.url", "https://kaspi.kz/shop/p/ehrmann-puding-vanil-bezlaktoznyi-1-5-200-g-102110634/?c=750000000")
	v.SetDefault("target.use_proxy", false)

	// Scraper defaults
	v.SetDefault("scraper.proxy_endpoint", "https://api.scraperapi.com")
	v.SetDefault("scraper.proxy_api_key", "")
	v.SetDefault("scraper.vendor_base_url", "https://kaspi.kz/yml/offer-view/offers")
	v.SetDefault("scraper.vendor_enabled", false)
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("scraper.direct_timeout", "15s")
	v.SetDefault("scraper.proxy_timeout", "60s")
	v.SetDefault("scraper.max_retries", 2)
	v.SetDefault("scraper.retry_delay", "5s")

	// Notify defaults
	v.SetDefault("notify.enabled", true)
	v.SetDefault("notify.smtp_host", "smtp.gmail.com")
	v.SetDefault("notify.smtp_port", 465)
	v.SetDefault("notify.from", "")
	v.SetDefault("notify.to", "")
	v.SetDefault("notify.password", "")

	// Auth defaults (empty so the env binding is registered; the HTTP layer
	// refuses requests until a real key is configured)
	v.SetDefault("auth.api_key", "")
}

// validate validates the configuration
func validate(config *Config) error {
	u, err := url.Parse(config.Target.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("target URL must be a valid http(s) URL, got: %s", config.Target.URL)
	}

	if config.Target.UseProxy && config.Scraper.ProxyAPIKey == "" {
		return fmt.Errorf("proxy API key is required when target.use_proxy is set (set KASPIWATCH_SCRAPER_PROXY_API_KEY)")
	}

	if config.Scraper.MaxRetries < 0 {
		return fmt.Errorf("scraper.max_retries must not be negative, got: %d", config.Scraper.MaxRetries)
	}

	return nil
}
