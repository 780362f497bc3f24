package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("KASPIWATCH_SERVER_PORT")
		os.Unsetenv("KASPIWATCH_SERVER_ENVIRONMENT")
		os.Unsetenv("KASPIWATCH_TARGET_URL")
		os.Unsetenv("KASPIWATCH_TARGET_USE_PROXY")
		os.Unsetenv("KASPIWATCH_SCRAPER_PROXY_ENDPOINT")
		os.Unsetenv("KASPIWATCH_SCRAPER_PROXY_API_KEY")
		os.Unsetenv("KASPIWATCH_SCRAPER_VENDOR_ENABLED")
		os.Unsetenv("KASPIWATCH_SCRAPER_MAX_RETRIES")
		os.Unsetenv("KASPIWATCH_SCRAPER_RETRY_DELAY")
		os.Unsetenv("KASPIWATCH_NOTIFY_ENABLED")
		os.Unsetenv("KASPIWATCH_NOTIFY_FROM")
		os.Unsetenv("KASPIWATCH_NOTIFY_TO")
		os.Unsetenv("KASPIWATCH_NOTIFY_PASSWORD")
		os.Unsetenv("KASPIWATCH_AUTH_API_KEY")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Target.UseProxy {
			t.Error("Target.UseProxy = true, want false")
		}
		if cfg.Scraper.ProxyEndpoint != "https://api.scraperapi.com" {
			t.Errorf("Scraper.ProxyEndpoint = %s, want https://api.scraperapi.com", cfg.Scraper.ProxyEndpoint)
		}
		if cfg.Scraper.MaxRetries != 2 {
			t.Errorf("Scraper.MaxRetries = %d, want 2", cfg.Scraper.MaxRetries)
		}
		if cfg.Scraper.RetryDelay != 5*time.Second {
			t.Errorf("Scraper.RetryDelay = %v, want 5s", cfg.Scraper.RetryDelay)
		}
		if cfg.Scraper.DirectTimeout != 15*time.Second {
			t.Errorf("Scraper.DirectTimeout = %v, want 15s", cfg.Scraper.DirectTimeout)
		}
		if cfg.Scraper.ProxyTimeout != 60*time.Second {
			t.Errorf("Scraper.ProxyTimeout = %v, want 60s", cfg.Scraper.ProxyTimeout)
		}
		if !cfg.Notify.Enabled {
			t.Error("Notify.Enabled = false, want true")
		}
		if cfg.Notify.SMTPHost != "smtp.gmail.com" {
			t.Errorf("Notify.SMTPHost = %s, want smtp.gmail.com", cfg.Notify.SMTPHost)
		}
		if cfg.Notify.SMTPPort != 465 {
			t.Errorf("Notify.SMTPPort = %d, want 465", cfg.Notify.SMTPPort)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("KASPIWATCH_SERVER_PORT", "9090")
		os.Setenv("KASPIWATCH_SERVER_ENVIRONMENT", "production")
		os.Setenv("KASPIWATCH_TARGET_URL", "https://kaspi.kz/shop/p/custom-item-555/")
		os.Setenv("KASPIWATCH_TARGET_USE_PROXY", "true")
		os.Setenv("KASPIWATCH_SCRAPER_PROXY_API_KEY", "scraper-key")
		os.Setenv("KASPIWATCH_SCRAPER_MAX_RETRIES", "4")
		os.Setenv("KASPIWATCH_SCRAPER_RETRY_DELAY", "2s")
		os.Setenv("KASPIWATCH_NOTIFY_ENABLED", "false")
		os.Setenv("KASPIWATCH_AUTH_API_KEY", "shared-secret")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Target.URL != "https://kaspi.kz/shop/p/custom-item-555/" {
			t.Errorf("Target.URL = %s, want custom URL", cfg.Target.URL)
		}
		if !cfg.Target.UseProxy {
			t.Error("Target.UseProxy = false, want true")
		}
		if cfg.Scraper.ProxyAPIKey != "scraper-key" {
			t.Errorf("Scraper.ProxyAPIKey = %s, want scraper-key", cfg.Scraper.ProxyAPIKey)
		}
		if cfg.Scraper.MaxRetries != 4 {
			t.Errorf("Scraper.MaxRetries = %d, want 4", cfg.Scraper.MaxRetries)
		}
		if cfg.Scraper.RetryDelay != 2*time.Second {
			t.Errorf("Scraper.RetryDelay = %v, want 2s", cfg.Scraper.RetryDelay)
		}
		if cfg.Notify.Enabled {
			t.Error("Notify.Enabled = true, want false")
		}
		if cfg.Auth.APIKey != "shared-secret" {
			t.Errorf("Auth.APIKey = %s, want shared-secret", cfg.Auth.APIKey)
		}
	})

	t.Run("fails validation for invalid target URL", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("KASPIWATCH_TARGET_URL", "not-a-url")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid target URL")
		}
	})

	t.Run("fails validation when proxy enabled without API key", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("KASPIWATCH_TARGET_USE_PROXY", "true")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing proxy API key")
		}
	})

	t.Run("fails validation for negative retry count", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("KASPIWATCH_SCRAPER_MAX_RETRIES", "-1")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for negative max_retries")
		}
	})
}
