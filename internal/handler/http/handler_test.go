package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/storage/memory"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

// ============================================================================
// Fake catalog
// ============================================================================

type fakeCatalog struct {
	products []domain.Product
	err      error
}

func (f *fakeCatalog) List(_ context.Context, category string) ([]domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []domain.Product{}
	for _, p := range f.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Get(_ context.Context, id int64) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, apperrors.NotFound("product", strconv.FormatInt(id, 10))
}

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	backpack = domain.Product{ID: 1, Title: "Backpack", Price: 10, Category: "bags", Description: "fits a laptop"}
	tshirt   = domain.Product{ID: 2, Title: "T-Shirt", Price: 5, Category: "clothing", Description: "cotton"}
	ring     = domain.Product{ID: 3, Title: "Silver Ring", Price: 99.5, Category: "jewelery"}
)

type testEnv struct {
	handler http.Handler
	storage *memory.Storage
	catalog *fakeCatalog
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithEvents(t, nil)
}

func newTestEnvWithEvents(t *testing.T, events *event.Producer) *testEnv {
	t.Helper()
	env := &testEnv{
		storage: memory.New(),
		catalog: &fakeCatalog{products: []domain.Product{backpack, tshirt, ring}},
	}
	env.handler = NewRouter(RouterConfig{
		Catalog: env.catalog,
		Storage: env.storage,
		Events:  events,
		Health:  health.NewHandler("storefront"),
		CORS:    middleware.DefaultCORSConfig([]string{"http://localhost:3000"}, "test"),
		Logger:  testLogger(),
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, sessionID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(middleware.SessionIDHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	Data  T `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}
