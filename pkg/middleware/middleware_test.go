package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/pkg/logger"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(`{"data":"ok"}`))
}

// --- statusWriter ---

func TestStatusWriter_RecordsFirstStatusAndBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := wrapWriter(rec)

	sw.WriteHeader(http.StatusCreated)
	sw.WriteHeader(http.StatusInternalServerError)
	_, _ = sw.Write([]byte("hello"))

	assert.Equal(t, http.StatusCreated, sw.status)
	assert.Equal(t, 5, sw.bytes)
	assert.Same(t, sw, wrapWriter(sw))
	assert.Equal(t, rec, sw.Unwrap())
}

func TestStatusWriter_ImplicitOK(t *testing.T) {
	sw := wrapWriter(httptest.NewRecorder())
	_, _ = sw.Write([]byte("x"))
	assert.Equal(t, http.StatusOK, sw.status)
}

// --- Recovery ---

func TestRecovery_PanicBecomes500(t *testing.T) {
	var buf bytes.Buffer
	handler := Recovery(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("store: used outside of an open session"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "INTERNAL_ERROR", body["error"]["code"])
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "used outside of an open session")
}

func TestRecovery_NonErrorPanic(t *testing.T) {
	var buf bytes.Buffer
	handler := Recovery(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "boom")
}

func TestRecovery_RepanicsAbortHandler(t *testing.T) {
	handler := Recovery(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestRecovery_PassThrough(t *testing.T) {
	handler := Recovery(discardLogger())(http.HandlerFunc(okHandler))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// --- RequestLogging ---

func TestRequestLogging_GeneratesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	handler := RequestLogging(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.CorrelationIDFromContext(r.Context())
		okHandler(w, r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(CorrelationIDHeader))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "http request", line["msg"])
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, seen, line["correlation_id"])
	assert.Equal(t, float64(http.StatusOK), line["status"])
}

func TestRequestLogging_KeepsInboundCorrelationID(t *testing.T) {
	handler := RequestLogging(discardLogger())(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationIDHeader, "corr-abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "corr-abc", rec.Header().Get(CorrelationIDHeader))
}

func TestRequestLogging_LevelByStatus(t *testing.T) {
	tests := map[int]string{
		http.StatusOK:                  "INFO",
		http.StatusNotFound:            "WARN",
		http.StatusInternalServerError: "ERROR",
	}
	for status, level := range tests {
		var buf bytes.Buffer
		handler := RequestLogging(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/products/1", nil))

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, level, line["level"], "status %d", status)
	}
}

func TestRequestLogging_QuietPaths(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogging(bufferLogger(&buf))(http.HandlerFunc(okHandler))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Zero(t, buf.Len())
}

// --- RequestLogger ---

func TestRequestLogger_EnrichesFromContextAndHeader(t *testing.T) {
	var buf bytes.Buffer
	base := bufferLogger(&buf)

	handler := RequestLogging(discardLogger())(RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := logger.FromContext(r.Context())
		assert.NotSame(t, base, l)
		l.Info("inside handler")
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishlist", nil)
	req.Header.Set(CorrelationIDHeader, "corr-1")
	req.Header.Set(SessionIDHeader, "sess-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "corr-1", line["correlation_id"])
	assert.Equal(t, "sess-1", line["session_id"])
}

func TestRequestLogger_NoSession_OmitsField(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogger(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("anonymous")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	_, ok := line["session_id"]
	assert.False(t, ok)
}

// --- CacheControl / NoStore ---

func TestCacheControl(t *testing.T) {
	handler := CacheControl(300)(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/products", nil))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestNoStore(t *testing.T) {
	rec := httptest.NewRecorder()
	NoStore(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	assert.Equal(t, "private, no-store", rec.Header().Get("Cache-Control"))
}
