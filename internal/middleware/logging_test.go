package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		method        string
		path          string
		handlerStatus int
	}{
		{name: "GET health", method: http.MethodGet, path: "/health", handlerStatus: http.StatusOK},
		{name: "POST analyze", method: http.MethodPost, path: "/analyze", handlerStatus: http.StatusOK},
		{name: "404 request", method: http.MethodGet, path: "/notfound", handlerStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.InfoLevel)
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
			})

			middleware := RequestID(Logging(zap.New(core))(handler))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			middleware.ServeHTTP(w, req)

			if w.Code != tt.handlerStatus {
				t.Errorf("Expected status %d, got %d", tt.handlerStatus, w.Code)
			}

			entries := logs.FilterMessage("http_request").All()
			if len(entries) != 1 {
				t.Fatalf("Expected one http_request log entry, got %d", len(entries))
			}
			fields := entries[0].ContextMap()
			if got := fields["status_code"]; got != int64(tt.handlerStatus) {
				t.Errorf("Expected logged status %d, got %v", tt.handlerStatus, got)
			}
			if got := fields["path"]; got != tt.path {
				t.Errorf("Expected logged path %q, got %v", tt.path, got)
			}
			if got, _ := fields["request_id"].(string); got == "" {
				t.Error("Expected request_id to be logged")
			}
		})
	}
}

func TestLoggingResponseWriter(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("test"))
	})

	core, logs := observer.New(zapcore.InfoLevel)
	middleware := Logging(zap.New(core))(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	entries := logs.All()
	if len(entries) != 1 || entries[0].ContextMap()["status_code"] != int64(http.StatusCreated) {
		t.Errorf("Expected first status to be logged, got %+v", entries)
	}
}

func TestAudit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantEvent string
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, wantEvent: "rate_limit_violation"},
		{name: "too large", status: http.StatusRequestEntityTooLarge, wantEvent: "oversized_request"},
		{name: "bad media type", status: http.StatusUnsupportedMediaType, wantEvent: "unsupported_content_type"},
		{name: "ok is quiet", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.WarnLevel)
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
			req.Header.Set("Origin", "chrome-extension://abc")
			Audit(zap.New(core))(handler).ServeHTTP(httptest.NewRecorder(), req)

			if tt.wantEvent == "" {
				if logs.Len() != 0 {
					t.Errorf("Expected no audit log, got %d", logs.Len())
				}
				return
			}
			if logs.FilterMessage(tt.wantEvent).Len() != 1 {
				t.Errorf("Expected audit event %q, got %+v", tt.wantEvent, logs.All())
			}
		})
	}
}
