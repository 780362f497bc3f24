package domain

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// InStockMarker is the token whose presence in the raw availability string
// marks a product as in stock. The match is a case-sensitive substring test.
const InStockMarker = "InStock"

// Field defaults used when extraction cannot produce a value
const (
	UnknownProductName = "unknown product"
	UnspecifiedPrice   = "unspecified"
)

// TargetSpec describes one product listing to check. It is built once per
// resolution from configuration and never mutated.
type TargetSpec struct {
	URL         string
	ProductID   string
	UseProxy    bool
	ProxyAPIKey string
}

// NewTargetSpec builds a TargetSpec, deriving the product ID from the URL path.
func NewTargetSpec(rawURL string, useProxy bool, proxyAPIKey string) TargetSpec {
	return TargetSpec{
		URL:         rawURL,
		ProductID:   ProductIDFromURL(rawURL),
		UseProxy:    useProxy,
		ProxyAPIKey: proxyAPIKey,
	}
}

// productIDPattern matches the numeric ID at the end of a listing path,
// e.g. /shop/p/ehrmann-puding-vanil-102110634/
var productIDPattern = regexp.MustCompile(`-(\d+)/?$`)

// ProductIDFromURL extracts the trailing numeric product ID from a listing
// URL path. Returns "" when the URL has no recognizable ID.
func ProductIDFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	m := productIDPattern.FindStringSubmatch(u.Path)
	if m == nil {
		return ""
	}
	return m[1]
}

// PageContent is the raw markup obtained by one fetch strategy. It is
// consumed by extraction and discarded with the resolution.
type PageContent struct {
	Strategy   StrategyKind
	StatusCode int
	Body       string
	FetchedAt  time.Time
}

// ProductSnapshot is the normalized point-in-time description of a product.
type ProductSnapshot struct {
	Name         string `json:"name"`
	Price        string `json:"price"`
	Currency     string `json:"currency,omitempty"`
	Availability string `json:"availability"`
}

// InStock reports whether the raw availability string contains the in-stock
// marker. Stock state is always derived from Availability, never stored.
func (s *ProductSnapshot) InStock() bool {
	return strings.Contains(s.Availability, InStockMarker)
}

// PriceLabel renders the price with its currency, e.g. "1999 KZT".
func (s *ProductSnapshot) PriceLabel() string {
	return strings.TrimSpace(s.Price + " " + s.Currency)
}
