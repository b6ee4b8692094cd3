package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// logLine runs one request through withLogging with a logger attached the
// way withTraceID attaches it and returns the decoded access-log entry.
func logLine(t *testing.T, method, target string, next http.HandlerFunc) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	req := httptest.NewRequest(method, target, nil)
	req = req.WithContext(zerolog.New(&buf).WithContext(req.Context()))

	rr := httptest.NewRecorder()
	(&Handler{}).withLogging(next).ServeHTTP(rr, req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return rr, entry
}

func TestWithLogging(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		status     int
		body       string
		wantStatus float64
	}{
		{"get ok", http.MethodGet, "/api/v1/agents?limit=5", http.StatusOK, `[]`, 200},
		{"post created", http.MethodPost, "/api/v1/agents", http.StatusCreated, `{"id":"1"}`, 201},
		{"not found", http.MethodGet, "/missing", http.StatusNotFound, `{"detail":"Not Found"}`, 404},
		{"no content", http.MethodDelete, "/api/v1/files/1", http.StatusNoContent, ``, 204},
		{"server error", http.MethodGet, "/boom", http.StatusInternalServerError, `{"detail":"Internal Server Error"}`, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, entry := logLine(t, tt.method, tt.target, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.target, entry["uri"])
			assert.Equal(t, tt.method, entry["method"])
			assert.Equal(t, tt.wantStatus, entry["status"])
			assert.Equal(t, float64(len(tt.body)), entry["size"])
			assert.Contains(t, entry, "duration")
			assert.Contains(t, entry, "remote_addr")
		})
	}
}

func TestWithLogging_ImplicitStatus(t *testing.T) {
	t.Run("write without header", func(t *testing.T) {
		_, entry := logLine(t, http.MethodGet, "/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("a", 1024)))
		})
		assert.Equal(t, float64(200), entry["status"])
		assert.Equal(t, float64(1024), entry["size"])
	})

	t.Run("handler writes nothing", func(t *testing.T) {
		_, entry := logLine(t, http.MethodGet, "/", func(http.ResponseWriter, *http.Request) {})
		assert.Equal(t, float64(200), entry["status"])
		assert.Equal(t, float64(0), entry["size"])
	})
}

func TestWithLogging_PanicNotSuppressed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	handler := (&Handler{}).withLogging(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("test panic")
	}))

	assert.Panics(t, func() { handler.ServeHTTP(httptest.NewRecorder(), req) })
}
