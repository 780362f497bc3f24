package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductSnapshot_InStock(t *testing.T) {
	tests := []struct {
		name         string
		availability string
		want         bool
	}{
		{"schema.org in stock URL", "https://schema.org/InStock", true},
		{"schema.org out of stock URL", "https://schema.org/OutOfStock", false},
		{"empty string", "", false},
		{"bare marker", "InStock", true},
		{"lowercase marker does not match", "instock", false},
		{"marker embedded in longer value", "http://schema.org/InStockOnline", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &ProductSnapshot{Availability: tt.availability}
			assert.Equal(t, tt.want, s.InStock())
		})
	}
}

func TestProductSnapshot_PriceLabel(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		currency string
		want     string
	}{
		{"price with currency", "1999", "KZT", "1999 KZT"},
		{"price without currency", "1999", "", "1999"},
		{"unspecified price", UnspecifiedPrice, "", "unspecified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &ProductSnapshot{Price: tt.price, Currency: tt.currency}
			assert.Equal(t, tt.want, s.PriceLabel())
		})
	}
}

func TestProductIDFromURL(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
		want   string
	}{
		{
			"kaspi listing with trailing slash and query",
			"https://kaspi.kz/shop/p/ehrmann-puding-vanil-bezlaktoznyi-1-5-200-g-102110634/?c=750000000",
			"102110634",
		},
		{
			"listing without trailing slash",
			"https://kaspi.kz/shop/p/some-item-4242",
			"4242",
		},
		{"no numeric suffix", "https://kaspi.kz/shop/p/some-item/", ""},
		{"empty url", "", ""},
		{"unparseable url", "://not-a-url", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProductIDFromURL(tt.rawURL))
		})
	}
}

func TestNewTargetSpec(t *testing.T) {
	target := NewTargetSpec("https://kaspi.kz/shop/p/widget-123/", true, "proxy-key")

	assert.Equal(t, "https://kaspi.kz/shop/p/widget-123/", target.URL)
	assert.Equal(t, "123", target.ProductID)
	assert.True(t, target.UseProxy)
	assert.Equal(t, "proxy-key", target.ProxyAPIKey)
}

func TestStrategyKind_String(t *testing.T) {
	assert.Equal(t, "direct", StrategyDirect.String())
	assert.Equal(t, "proxy", StrategyProxyService.String())
	assert.Equal(t, "vendor-api", StrategyVendorAPI.String())
}

func TestTrace_OrderPreserved(t *testing.T) {
	trace := &Trace{}
	trace.Infof("first")
	trace.Warnf("second %d", 2)
	trace.Errorf("third")
	trace.Successf("fourth")

	entries := trace.Entries()
	assert.Len(t, entries, 4)
	assert.Equal(t, "first", entries[0].Text)
	assert.Equal(t, LevelInfo, entries[0].Level)
	assert.Equal(t, "second 2", entries[1].Text)
	assert.Equal(t, LevelWarning, entries[1].Level)
	assert.Equal(t, LevelError, entries[2].Level)
	assert.Equal(t, LevelSuccess, entries[3].Level)

	lines := trace.Lines()
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "[INFO] first")
	assert.Contains(t, trace.Text(), "[WARNING] second 2")
}

func TestCheckResult_InStock(t *testing.T) {
	t.Run("nil snapshot", func(t *testing.T) {
		r := &CheckResult{}
		assert.False(t, r.InStock())
	})

	t.Run("in-stock snapshot", func(t *testing.T) {
		r := &CheckResult{Snapshot: &ProductSnapshot{Availability: "https://schema.org/InStock"}}
		assert.True(t, r.InStock())
	})
}
