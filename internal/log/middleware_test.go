package log

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func bufferLogger(buf *bytes.Buffer) *Logger {
	return New(Config{Handler: slog.NewTextHandler(buf, nil)})
}

func TestMiddlewareInjectsContextLogger(t *testing.T) {
	logger := bufferLogger(&bytes.Buffer{})
	var got *Logger
	handler := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got != logger {
		t.Fatal("expected the injected logger in the request context")
	}
}

func TestRequestIDMiddlewareTagsLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).InfoContext(r.Context(), "handled")
	})
	handler := Middleware(logger)(RequestIDMiddleware(func(r *http.Request) string {
		return r.Header.Get("X-Request-ID")
	})(inner))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req_abc123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), "request_id=req_abc123") {
		t.Fatalf("log output missing request id: %q", buf.String())
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil {
		t.Fatal("expected a usable fallback logger")
	}
}

func TestStructuredLoggerHTTPEndLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusNotFound, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		sl := NewStructuredLogger(bufferLogger(&buf))
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)

		sl.LogHTTPEnd(context.Background(), req, tt.status, 12, "10.0.0.1")

		out := buf.String()
		if !strings.Contains(out, tt.level) {
			t.Errorf("status %d: expected %s in %q", tt.status, tt.level, out)
		}
		if !strings.Contains(out, fmt.Sprintf("status_code=%d", tt.status)) {
			t.Errorf("status %d: missing status_code field in %q", tt.status, out)
		}
		if !strings.Contains(out, "client_ip=10.0.0.1") {
			t.Errorf("status %d: missing client_ip field in %q", tt.status, out)
		}
	}
}

func TestStructuredLoggerHTTPStart(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(bufferLogger(&buf))
	req := httptest.NewRequest(http.MethodPost, "/api/expenses?dry=1", nil)

	sl.LogHTTPStart(context.Background(), req, "10.0.0.2")

	out := buf.String()
	for _, want := range []string{"method=POST", "path=/api/expenses", "query=dry=1", "client_ip=10.0.0.2"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestStructuredLoggerLogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(bufferLogger(&buf))

	sl.LogError(context.Background(), "Request failed", errors.New("boom"),
		ComponentHTTP, OpUpdate, NewFields().WithRecord("expenses", "e1"))

	out := buf.String()
	for _, want := range []string{"level=ERROR", "error=boom", "component=http", "operation=update", "record_id=e1"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}
