package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/kaspiwatch/backend/internal/domain"
)

const htmlPreviewLength = 500

// debugInfo reports what the extractor would see on the fetched page
type debugInfo struct {
	URL         string            `json:"url"`
	StatusCode  int               `json:"status_code"`
	HTMLLength  int               `json:"html_length"`
	JSONLD      debugJSONLD       `json:"json_ld"`
	MetaTags    map[string]string `json:"meta_tags"`
	BuyButton   bool              `json:"buy_button_found"`
	PageTitle   string            `json:"page_title,omitempty"`
	ScriptCount int               `json:"script_count"`
	HTMLPreview string            `json:"html_preview"`
}

type debugJSONLD struct {
	Found      bool            `json:"found"`
	ParseError bool            `json:"parse_error,omitempty"`
	Name       string          `json:"name,omitempty"`
	Offers     json.RawMessage `json:"offers,omitempty"`
}

// Debug fetches the target through the proxy strategy and returns extraction
// diagnostics for the raw page.
func (h *Handler) Debug(c *gin.Context) {
	content, err := h.fetcher.Fetch(c.Request.Context(), h.target, domain.StrategyProxyService)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      err.Error(),
			"error_kind": domain.ErrorKind(err),
		})
		return
	}

	info, err := buildDebugInfo(content, h.target)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, info)
}

func buildDebugInfo(content *domain.PageContent, target domain.TargetSpec) (*debugInfo, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content.Body))
	if err != nil {
		return nil, err
	}

	info := &debugInfo{
		URL:         target.URL,
		StatusCode:  content.StatusCode,
		HTMLLength:  len(content.Body),
		MetaTags:    map[string]string{},
		ScriptCount: doc.Find("script").Length(),
		HTMLPreview: previewOf(content.Body),
	}

	if block := doc.Find(`script[type="application/ld+json"]`).First(); block.Length() > 0 {
		info.JSONLD.Found = true
		var payload struct {
			Name   string          `json:"name"`
			Offers json.RawMessage `json:"offers"`
		}
		if err := json.Unmarshal([]byte(block.Text()), &payload); err != nil {
			info.JSONLD.ParseError = true
		} else {
			info.JSONLD.Name = payload.Name
			info.JSONLD.Offers = payload.Offers
		}
	}

	for _, property := range []string{"og:title", "og:description", "product:price:amount", "product:availability"} {
		if value, ok := doc.Find(`meta[property="` + property + `"]`).Attr("content"); ok {
			info.MetaTags[property] = value
		}
	}

	info.BuyButton = doc.Find(`button[data-role="add-to-cart"]`).Length() > 0
	info.PageTitle = doc.Find("title").First().Text()

	return info, nil
}

// previewOf returns the first chunk of the page without splitting a rune.
func previewOf(body string) string {
	if len(body) <= htmlPreviewLength {
		return body
	}
	preview := []rune(body)
	if len(preview) > htmlPreviewLength {
		preview = preview[:htmlPreviewLength]
	}
	return string(preview)
}
