package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kaspiwatch/backend/internal/domain"
)

// ldBlock mirrors the top level of an embedded JSON-LD payload
type ldBlock struct {
	Type   string          `json:"@type"`
	Name   string          `json:"name"`
	Offers json.RawMessage `json:"offers"`
}

// ldOffer mirrors a schema.org Offer. Price is kept raw because pages encode
// it as either a string or a number.
type ldOffer struct {
	Type          string          `json:"@type"`
	Price         json.RawMessage `json:"price"`
	PriceCurrency string          `json:"priceCurrency"`
	Availability  string          `json:"availability"`
}

// Extractor turns raw page markup into a normalized product snapshot.
// It prefers JSON-LD structured data and degrades to meta tags and DOM
// heuristics when no qualifying block is present.
type Extractor struct{}

// NewExtractor creates an extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses the page and returns a snapshot. Individual missing fields
// degrade to defaults; only the absence of a product name is a failure.
func (e *Extractor) Extract(content *domain.PageContent, trace *domain.Trace) (*domain.ProductSnapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoProductData, err)
	}

	snapshot, sawMalformed := e.fromStructuredData(doc, trace)
	if snapshot != nil {
		return snapshot, nil
	}

	trace.Warnf("no Product structured-data block found, falling back to meta tags")
	if snapshot := e.fromMetaTags(doc, trace); snapshot != nil {
		return snapshot, nil
	}

	if sawMalformed {
		return nil, domain.ErrMalformedStructuredData
	}
	return nil, domain.ErrNoProductData
}

// fromStructuredData scans every JSON-LD script block and selects the first
// one whose declared type is "Product". Pages routinely embed unrelated
// blocks (breadcrumbs, organization), so the first block is not enough.
func (e *Extractor) fromStructuredData(doc *goquery.Document, trace *domain.Trace) (*domain.ProductSnapshot, bool) {
	var product *ldBlock
	sawMalformed := false

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var block ldBlock
		if err := json.Unmarshal([]byte(s.Text()), &block); err != nil {
			sawMalformed = true
			trace.Warnf("skipping malformed structured-data block: %v", err)
			return true
		}
		if block.Type != "Product" {
			return true
		}
		product = &block
		return false
	})

	if product == nil {
		return nil, sawMalformed
	}

	trace.Infof("found Product structured-data block")

	offer := pickOffer(product.Offers)

	name := product.Name
	if name == "" {
		name = domain.UnknownProductName
	}
	price := jsonScalarString(offer.Price)
	if price == "" {
		price = domain.UnspecifiedPrice
	}

	return &domain.ProductSnapshot{
		Name:         name,
		Price:        price,
		Currency:     offer.PriceCurrency,
		Availability: offer.Availability,
	}, sawMalformed
}

// pickOffer resolves the offers field, which is either a single object or a
// list. For a list, the first entry declared as an "Offer" wins; entries of
// other types are skipped regardless of position.
func pickOffer(raw json.RawMessage) ldOffer {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return ldOffer{}
	}

	if strings.HasPrefix(trimmed, "{") {
		var offer ldOffer
		if err := json.Unmarshal(raw, &offer); err != nil {
			return ldOffer{}
		}
		return offer
	}

	if strings.HasPrefix(trimmed, "[") {
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return ldOffer{}
		}
		for _, entry := range entries {
			var offer ldOffer
			if err := json.Unmarshal(entry, &offer); err != nil {
				continue
			}
			if offer.Type == "Offer" {
				return offer
			}
		}
	}

	return ldOffer{}
}

// jsonScalarString renders a raw JSON scalar (string or number) as plain text.
func jsonScalarString(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	return trimmed
}

// fromMetaTags reads page metadata and infers stock from the presence of the
// add-to-cart control. Crude and intentionally approximate.
func (e *Extractor) fromMetaTags(doc *goquery.Document, trace *domain.Trace) *domain.ProductSnapshot {
	name, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
	if name == "" {
		return nil
	}

	price, _ := doc.Find(`meta[property="product:price:amount"]`).Attr("content")
	if price == "" {
		price = domain.UnspecifiedPrice
	}
	currency, _ := doc.Find(`meta[property="product:price:currency"]`).Attr("content")

	availability, _ := doc.Find(`meta[property="product:availability"]`).Attr("content")
	if availability == "" && doc.Find(`button[data-role="add-to-cart"]`).Length() > 0 {
		availability = domain.InStockMarker
	}

	trace.Warnf("extracted product from meta tags (lower confidence)")

	return &domain.ProductSnapshot{
		Name:         name,
		Price:        price,
		Currency:     currency,
		Availability: availability,
	}
}
