package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRequestIDRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRequestIDEchoed(t *testing.T) {
	router := newRequestIDRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "caller-supplied-id")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "caller-supplied-id" {
		t.Fatalf("request id = %q, want the inbound value", got)
	}
}

func TestRequestIDMintedWhenAbsent(t *testing.T) {
	router := newRequestIDRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a generated request id")
	}
}

func TestRequestIDReplacedWhenOversized(t *testing.T) {
	router := newRequestIDRouter()

	oversized := strings.Repeat("x", 65)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", oversized)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	got := rec.Header().Get("X-Request-Id")
	if got == oversized || got == "" {
		t.Fatalf("oversized inbound id must be replaced, got %q", got)
	}
}
