package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kaspiwatch/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Config holds the fetch strategy endpoints and timeouts
type Config struct {
	ProxyEndpoint string
	VendorBaseURL string
	UserAgent     string
	DirectTimeout time.Duration
	ProxyTimeout  time.Duration
}

const (
	defaultProxyEndpoint = "https://api.scraperapi.com"
	defaultVendorBaseURL = "https://kaspi.kz/yml/offer-view/offers"
	defaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	defaultDirectTimeout = 15 * time.Second
	defaultProxyTimeout  = 60 * time.Second
)

// Client fetches product data using one of the configured strategies.
// It holds no state between calls beyond the shared pacing limiter.
type Client struct {
	directClient *http.Client
	proxyClient  *http.Client
	limiter      *rate.Limiter
	cfg          Config
}

// NewClient creates a fetch client. Zero-valued config fields fall back to defaults.
func NewClient(cfg Config) *Client {
	if cfg.ProxyEndpoint == "" {
		cfg.ProxyEndpoint = defaultProxyEndpoint
	}
	if cfg.VendorBaseURL == "" {
		cfg.VendorBaseURL = defaultVendorBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.DirectTimeout == 0 {
		cfg.DirectTimeout = defaultDirectTimeout
	}
	if cfg.ProxyTimeout == 0 {
		cfg.ProxyTimeout = defaultProxyTimeout
	}

	// Pace direct requests to at most one per 10s to reduce rate-limiting risk.
	// The burst of 1 lets the first request through immediately.
	limiter := rate.NewLimiter(rate.Every(10*time.Second), 1)

	return &Client{
		directClient: &http.Client{Timeout: cfg.DirectTimeout},
		proxyClient:  &http.Client{Timeout: cfg.ProxyTimeout},
		limiter:      limiter,
		cfg:          cfg,
	}
}

// Fetch obtains raw page markup using the given strategy.
func (c *Client) Fetch(ctx context.Context, target domain.TargetSpec, strategy domain.StrategyKind) (*domain.PageContent, error) {
	switch strategy {
	case domain.StrategyDirect:
		return c.fetchDirect(ctx, target)
	case domain.StrategyProxyService:
		return c.fetchProxy(ctx, target)
	default:
		return nil, fmt.Errorf("strategy %s does not produce page content", strategy)
	}
}

// fetchDirect issues a GET against the product page with browser-like headers.
func (c *Client) fetchDirect(ctx context.Context, target domain.TargetSpec) (*domain.PageContent, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := c.directClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("direct fetch failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.ErrRateLimited
	case resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrBlocked
	case resp.StatusCode != http.StatusOK:
		return nil, &domain.BadStatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &domain.PageContent{
		Strategy:   domain.StrategyDirect,
		StatusCode: resp.StatusCode,
		Body:       string(body),
		FetchedAt:  time.Now(),
	}, nil
}

// fetchProxy submits the target URL to the fetch-through proxy service.
// The proxy performs rendering and its own retries, hence the longer timeout.
func (c *Client) fetchProxy(ctx context.Context, target domain.TargetSpec) (*domain.PageContent, error) {
	params := url.Values{}
	params.Set("api_key", target.ProxyAPIKey)
	params.Set("url", target.URL)
	reqURL := fmt.Sprintf("%s?%s", c.cfg.ProxyEndpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.proxyClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, domain.ErrProxyTimeout
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrProxyTimeout
		}
		return nil, fmt.Errorf("proxy fetch failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrProxyUnauthorized
	case resp.StatusCode != http.StatusOK:
		return nil, &domain.ProxyRejectedError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &domain.PageContent{
		Strategy:   domain.StrategyProxyService,
		StatusCode: resp.StatusCode,
		Body:       string(body),
		FetchedAt:  time.Now(),
	}, nil
}

// vendorOffer mirrors one entry of the vendor offers payload
type vendorOffer struct {
	Name      string      `json:"name"`
	Price     json.Number `json:"price"`
	Available bool        `json:"available"`
}

type vendorOffersResponse struct {
	Offers []vendorOffer `json:"offers"`
}

// FetchVendorOffer queries the vendor JSON endpoint by product ID and builds
// a snapshot directly, without markup extraction. Availability is recorded as
// a schema.org token so stock state stays derived from the raw string.
func (c *Client) FetchVendorOffer(ctx context.Context, target domain.TargetSpec) (*domain.ProductSnapshot, error) {
	if target.ProductID == "" {
		return nil, domain.ErrNoProductID
	}

	reqURL := fmt.Sprintf("%s/%s", c.cfg.VendorBaseURL, target.ProductID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.directClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vendor fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.BadStatusError{Code: resp.StatusCode}
	}

	var payload vendorOffersResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode vendor response: %w", err)
	}
	if len(payload.Offers) == 0 {
		return nil, domain.ErrNoProductData
	}

	offer := payload.Offers[0]

	name := offer.Name
	if name == "" {
		name = domain.UnknownProductName
	}
	price := offer.Price.String()
	if price == "" {
		price = domain.UnspecifiedPrice
	}
	availability := "https://schema.org/OutOfStock"
	if offer.Available {
		availability = "https://schema.org/InStock"
	}

	return &domain.ProductSnapshot{
		Name:         name,
		Price:        price,
		Availability: availability,
	}, nil
}
