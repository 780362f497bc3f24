package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kaspiwatch/backend/config"
	httpDelivery "github.com/kaspiwatch/backend/internal/delivery/http"
	"github.com/kaspiwatch/backend/internal/domain"
	"github.com/kaspiwatch/backend/internal/infrastructure/fetch"
	"github.com/kaspiwatch/backend/internal/infrastructure/mail"
	"github.com/kaspiwatch/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting KaspiWatch Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Target: %s", cfg.Target.URL)

	// Initialize infrastructure dependencies
	fetchClient := fetch.NewClient(fetch.Config{
		ProxyEndpoint: cfg.Scraper.ProxyEndpoint,
		VendorBaseURL: cfg.Scraper.VendorBaseURL,
		UserAgent:     cfg.Scraper.UserAgent,
		DirectTimeout: cfg.Scraper.DirectTimeout,
		ProxyTimeout:  cfg.Scraper.ProxyTimeout,
	})

	mailer := mail.NewMailer(mail.Config{
		Host:     cfg.Notify.SMTPHost,
		Port:     cfg.Notify.SMTPPort,
		From:     cfg.Notify.From,
		To:       cfg.Notify.To,
		Password: cfg.Notify.Password,
	})

	if cfg.Target.UseProxy && cfg.Scraper.ProxyAPIKey != "" {
		log.Printf("Proxy strategy enabled: %s", cfg.Scraper.ProxyEndpoint)
	}
	if cfg.Scraper.VendorEnabled {
		log.Printf("Vendor API strategy enabled: %s", cfg.Scraper.VendorBaseURL)
	}
	log.Printf("Notifications enabled: %v (to: %s)", cfg.Notify.Enabled, cfg.Notify.To)

	// Initialize usecase layer
	resolver := usecase.NewResolver(
		fetchClient,
		usecase.NewExtractor(),
		mailer,
		usecase.ResolverConfig{
			MaxRetries:    cfg.Scraper.MaxRetries,
			RetryDelay:    cfg.Scraper.RetryDelay,
			VendorEnabled: cfg.Scraper.VendorEnabled,
			NotifyEnabled: cfg.Notify.Enabled,
		},
	)

	target := domain.NewTargetSpec(cfg.Target.URL, cfg.Target.UseProxy, cfg.Scraper.ProxyAPIKey)
	if target.ProductID != "" {
		log.Printf("Product ID: %s", target.ProductID)
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(resolver, fetchClient, target)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
