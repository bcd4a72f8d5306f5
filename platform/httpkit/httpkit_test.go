package httpkit

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"omnibox_backend/platform/apperr"
	"omnibox_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDGeneratesAndReuses(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestIDKey))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(HeaderRequestID)
	if generated == "" || generated != w.Body.String() {
		t.Fatalf("expected a generated request id, header %q body %q", generated, w.Body.String())
	}

	const incoming = "3f0c2b8e-7a51-4f6e-9d7c-2d7f0f3b9a11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(HeaderRequestID) != incoming {
		t.Fatalf("valid incoming id should be reused, got %q", w.Header().Get(HeaderRequestID))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(HeaderRequestID) == "not-a-uuid" {
		t.Fatalf("invalid incoming id should be replaced")
	}
}

func TestRateLimitRejectsAfterBurst(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.001), 2, logger.Discard())
	r := gin.New()
	r.Use(limiter.RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestClientIDPrefersHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"device-42", "device-42"},
		{"  device-42  ", "device-42"},
		{"has space", "192.0.2.1"},
		{"", "192.0.2.1"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.RemoteAddr = "192.0.2.1:1234"
		if tt.header != "" {
			c.Request.Header.Set(HeaderClientID, tt.header)
		}
		if got := ClientID(c); got != tt.want {
			t.Fatalf("ClientID with header %q = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestClientContextTagsRequestLogs(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("development", &buf)

	r := gin.New()
	r.Use(RequestID(), ClientContext())
	r.GET("/", func(c *gin.Context) {
		log.WithContext(c.Request.Context()).Info("handled")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderClientID, "device-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if !strings.Contains(out, "client_id=device-42") {
		t.Fatalf("expected client_id in log line, got %q", out)
	}
	if !strings.Contains(out, "request_id=") {
		t.Fatalf("expected request_id in log line, got %q", out)
	}
}

func TestHandleErrorMapsKinds(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{apperr.Validation("input cannot be empty"), http.StatusBadRequest, "input cannot be empty"},
		{apperr.Wrap(apperr.KindUnavailable, "history unavailable", errors.New("dial tcp")), http.StatusServiceUnavailable, "history unavailable"},
		{errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		if !HandleError(c, tt.err) {
			t.Fatalf("HandleError(%v) should report handled", tt.err)
		}
		if w.Code != tt.status {
			t.Fatalf("HandleError(%v) status = %d, want %d", tt.err, w.Code, tt.status)
		}
		var body ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Error != tt.message {
			t.Fatalf("HandleError(%v) message = %q, want %q", tt.err, body.Error, tt.message)
		}
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if HandleError(c, nil) {
		t.Fatalf("nil error should not be handled")
	}
}
