package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func keyGatedRouter(apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/check", APIKeyMiddleware(apiKey), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		query      string
		wantStatus int
	}{
		{"valid key passes", "secret", "?key=secret", http.StatusOK},
		{"wrong key rejected", "secret", "?key=wrong", http.StatusForbidden},
		{"missing key rejected", "secret", "", http.StatusForbidden},
		{"unconfigured key is a server error", "", "?key=anything", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := keyGatedRouter(tt.configured)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/check"+tt.query, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "Forbidden")
			}
		})
	}
}
