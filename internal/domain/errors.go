package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBlocked is returned when the target site rejects the request outright (HTTP 403)
	ErrBlocked = errors.New("request blocked by target site")

	// ErrRateLimited is returned when the target site rate-limits the request (HTTP 429)
	ErrRateLimited = errors.New("rate limited by target site")

	// ErrProxyUnauthorized is returned when the proxy service rejects the API key
	ErrProxyUnauthorized = errors.New("proxy service rejected credentials")

	// ErrProxyTimeout is returned when the proxy service exceeds its time bound
	ErrProxyTimeout = errors.New("proxy service timed out")

	// ErrNoProductID is returned when the vendor strategy is attempted without a product ID
	ErrNoProductID = errors.New("no product id in target url")

	// ErrNoProductData is returned when no extraction step yields a product
	ErrNoProductData = errors.New("no product data found in page")

	// ErrMalformedStructuredData is returned when structured-data blocks exist but none parse
	ErrMalformedStructuredData = errors.New("structured data block is malformed")
)

// BadStatusError is returned for unexpected HTTP status codes from the target site
type BadStatusError struct {
	Code int
}

func (e *BadStatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// ProxyRejectedError is returned when the proxy service refuses the fetch request
type ProxyRejectedError struct {
	Code int
}

func (e *ProxyRejectedError) Error() string {
	return fmt.Sprintf("proxy service rejected request: status %d", e.Code)
}

// ErrorKind maps an error to a stable descriptor string for the API response.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var badStatus *BadStatusError
	var proxyRejected *ProxyRejectedError

	switch {
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrBlocked):
		return "blocked"
	case errors.Is(err, ErrProxyUnauthorized):
		return "proxy_unauthorized"
	case errors.Is(err, ErrProxyTimeout):
		return "proxy_timeout"
	case errors.Is(err, ErrNoProductID):
		return "no_product_id"
	case errors.Is(err, ErrNoProductData), errors.Is(err, ErrMalformedStructuredData):
		return "extraction_failed"
	case errors.As(err, &proxyRejected):
		return "proxy_rejected"
	case errors.As(err, &badStatus):
		return "bad_status"
	default:
		return "fetch_failed"
	}
}
