package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaspiwatch/backend/internal/domain"
)

// AvailabilityChecker runs one availability resolution
type AvailabilityChecker interface {
	Resolve(ctx context.Context, target domain.TargetSpec) *domain.CheckResult
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	checker AvailabilityChecker
	fetcher domain.PageFetcher
	target  domain.TargetSpec
}

// NewHandler creates a new HTTP handler
func NewHandler(checker AvailabilityChecker, fetcher domain.PageFetcher, target domain.TargetSpec) *Handler {
	return &Handler{
		checker: checker,
		fetcher: fetcher,
		target:  target,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "kaspiwatch-backend",
		"version": "1.0.0",
	})
}

// checkResponse is the serialized form of a CheckResult
type checkResponse struct {
	Success      bool     `json:"success"`
	InStock      bool     `json:"in_stock"`
	ProductName  string   `json:"product_name,omitempty"`
	Price        string   `json:"price,omitempty"`
	Availability string   `json:"availability,omitempty"`
	URL          string   `json:"url"`
	Method       string   `json:"method,omitempty"`
	Logs         []string `json:"logs"`
	LogsText     string   `json:"logs_text"`
	Timestamp    string   `json:"timestamp"`
	Error        string   `json:"error,omitempty"`
	ErrorKind    string   `json:"error_kind,omitempty"`
}

// Check runs one availability resolution and returns the result with its
// full trace. Failed checks still respond 200; the body carries the outcome.
func (h *Handler) Check(c *gin.Context) {
	result := h.checker.Resolve(c.Request.Context(), h.target)
	c.JSON(http.StatusOK, buildCheckResponse(result, h.target))
}

func buildCheckResponse(result *domain.CheckResult, target domain.TargetSpec) checkResponse {
	resp := checkResponse{
		Success:   result.Success,
		InStock:   result.InStock(),
		URL:       target.URL,
		Method:    result.Method,
		Logs:      result.Trace.Lines(),
		LogsText:  result.Trace.Text(),
		Timestamp: result.CheckedAt.Format(time.RFC3339),
	}

	if result.Snapshot != nil {
		resp.ProductName = result.Snapshot.Name
		resp.Price = result.Snapshot.PriceLabel()
		resp.Availability = result.Snapshot.Availability
	}

	if result.Err != nil {
		resp.Error = result.Err.Error()
		resp.ErrorKind = domain.ErrorKind(result.Err)
	}

	return resp
}
