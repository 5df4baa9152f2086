package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"chirper/pkg/logging"

	"github.com/gin-gonic/gin"
)

func TestGetContextLoggerFields(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())

	var fields logging.Fields
	r.GET("/ping", func(c *gin.Context) {
		fields = GetContextLogger(c, logging.NewTestLogger()).Data
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), "GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "req-456")
	req.Header.Set("X-User-ID", "alice")
	r.ServeHTTP(w, req)

	if fields["request_id"] != "req-456" {
		t.Fatalf("expected request_id to be propagated, got %v", fields["request_id"])
	}
	if fields["user_id"] != "alice" {
		t.Fatalf("expected user_id from X-User-ID header, got %v", fields["user_id"])
	}
	if fields["path"] != "/ping" {
		t.Fatalf("expected path field, got %v", fields["path"])
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := GetRequestID(c); got != "" {
		t.Fatalf("expected empty request ID outside middleware, got %q", got)
	}
}
