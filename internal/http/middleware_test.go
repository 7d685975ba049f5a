package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"

	"scanrag/internal/contextutil"
)

func TestLoggerMiddleware(t *testing.T) {
	var capturedCtx context.Context
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedCtx = r.Context()
		w.WriteHeader(http.StatusOK)
	})

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	chain := middleware.RequestID(LoggerMiddleware(handler))
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	chain.ServeHTTP(w, req)

	if capturedCtx == nil {
		t.Fatal("LoggerMiddleware() should capture context")
	}
	logger := contextutil.LoggerFromContext(capturedCtx)
	if logger == prev || logger == slog.Default() {
		t.Fatal("LoggerMiddleware() should add a request logger to context")
	}

	logger.Info("probe")
	out := buf.String()
	for _, want := range []string{"method=GET", "path=/test", "request_id="} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		statusCode int
		shouldLog  bool
	}{
		{
			name:       "regular request",
			method:     http.MethodPost,
			path:       "/chat",
			statusCode: http.StatusOK,
			shouldLog:  true,
		},
		{
			name:       "root skipped",
			method:     http.MethodGet,
			path:       "/",
			statusCode: http.StatusOK,
			shouldLog:  false,
		},
		{
			name:       "health check skipped",
			method:     http.MethodGet,
			path:       "/health",
			statusCode: http.StatusOK,
			shouldLog:  false,
		},
		{
			name:       "unhealthy health check logged",
			method:     http.MethodGet,
			path:       "/health",
			statusCode: http.StatusServiceUnavailable,
			shouldLog:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req = req.WithContext(contextutil.WithLogger(req.Context(), logger))
			w := httptest.NewRecorder()
			RequestLogger(handler).ServeHTTP(w, req)

			if w.Code != tt.statusCode {
				t.Errorf("status = %d, want %d", w.Code, tt.statusCode)
			}
			logged := strings.Contains(buf.String(), "request completed")
			if logged != tt.shouldLog {
				t.Errorf("logged = %v, want %v (output %q)", logged, tt.shouldLog, buf.String())
			}
		})
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{name: "no origin", method: http.MethodGet, wantStatus: http.StatusOK, wantOrigin: "*"},
		{name: "echo origin", method: http.MethodGet, origin: "http://ui.local", wantStatus: http.StatusOK, wantOrigin: "http://ui.local"},
		{name: "preflight", method: http.MethodOptions, origin: "http://ui.local", wantStatus: http.StatusNoContent, wantOrigin: "http://ui.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/chat", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			CORS(next).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete) {
				t.Error("DELETE should be allowed")
			}
		})
	}
}
