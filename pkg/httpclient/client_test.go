package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastRetry keeps retry tests quick while still exercising the backoff path.
func fastRetry(maxRetries int) Config {
	return Config{
		Timeout:         5 * time.Second,
		MaxRetries:      maxRetries,
		RetryWaitMin:    time.Millisecond,
		RetryWaitMax:    5 * time.Millisecond,
		MaxConnsPerHost: 10,
	}
}

// countingServer answers each request with the next status in statuses and
// repeats the last one once they run out.
func countingServer(t *testing.T, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1))
		w.WriteHeader(statuses[min(n, len(statuses))-1])
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryWaitMin)
	assert.Equal(t, 5*time.Second, cfg.RetryWaitMax)
	assert.Equal(t, "storefront/1.0", cfg.UserAgent)
}

func TestGet_ReturnsBodyAndSetsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "storefront-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`[{"id":1,"title":"Backpack"}]`))
	}))
	defer srv.Close()

	cfg := fastRetry(0)
	cfg.UserAgent = "storefront-test"
	resp, err := New(cfg).Get(context.Background(), srv.URL+"/products")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"title":"Backpack"}]`, string(body))
}

func TestDo_KeepsCallerUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "catalog-sync/2", r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, http.NoBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "catalog-sync/2")

	resp, err := New(DefaultConfig()).Do(context.Background(), req)
	require.NoError(t, err)
	resp.Body.Close()
}

func TestDo_RetryPolicy(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries int
		statuses   []int
		wantStatus int
		wantCalls  int32
	}{
		{"recovers after 503s", 3, []int{503, 503, 200}, http.StatusOK, 3},
		{"gives up and returns last 5xx", 2, []int{502}, http.StatusBadGateway, 3},
		{"501 is not retried", 3, []int{501}, http.StatusNotImplemented, 1},
		{"404 is not retried", 3, []int{404}, http.StatusNotFound, 1},
		{"400 is not retried", 3, []int{400}, http.StatusBadRequest, 1},
		{"no retries configured", 0, []int{500, 200}, http.StatusInternalServerError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := countingServer(t, tt.statuses...)

			resp, err := New(fastRetry(tt.maxRetries)).Get(context.Background(), srv.URL)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(calls))
		})
	}
}

func TestDo_BackoffDoublesWithinJitterBounds(t *testing.T) {
	srv, calls := countingServer(t, 503)

	cfg := fastRetry(2)
	cfg.RetryWaitMin = 20 * time.Millisecond
	cfg.RetryWaitMax = time.Second

	start := time.Now()
	resp, err := New(cfg).Get(context.Background(), srv.URL)
	elapsed := time.Since(start)
	require.NoError(t, err)
	resp.Body.Close()

	// Waits are 20ms and 40ms, each jittered to at least 75%.
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.GreaterOrEqual(t, elapsed, 45*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestDo_BackoffCappedAtRetryWaitMax(t *testing.T) {
	srv, calls := countingServer(t, 503)

	cfg := fastRetry(4)
	cfg.RetryWaitMin = 10 * time.Millisecond
	cfg.RetryWaitMax = 10 * time.Millisecond

	start := time.Now()
	resp, err := New(cfg).Get(context.Background(), srv.URL)
	elapsed := time.Since(start)
	require.NoError(t, err)
	resp.Body.Close()

	// Uncapped the waits would be 10+20+40+80ms; capped they are four times 10ms.
	assert.Equal(t, int32(5), atomic.LoadInt32(calls))
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
	assert.Less(t, elapsed, 112*time.Millisecond)
}

func TestDo_RetriesConnectionErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(fastRetry(2)).Get(context.Background(), url)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestDo_CanceledContextIsNotRetried(t *testing.T) {
	srv, calls := countingServer(t, 200)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(fastRetry(3)).Get(ctx, srv.URL)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.Contains(t, err.Error(), "after 1 attempts")
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestDo_DeadlineDuringBackoff(t *testing.T) {
	srv, _ := countingServer(t, 503)

	cfg := fastRetry(10)
	cfg.RetryWaitMin = 100 * time.Millisecond
	cfg.RetryWaitMax = 500 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(cfg).Get(ctx, srv.URL)

	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGet_InvalidURL(t *testing.T) {
	_, err := New(fastRetry(0)).Get(context.Background(), "://invalid")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create GET request")
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"wrapped canceled", errors.Join(errors.New("get products"), context.Canceled), false},
		// DeadlineExceeded implements net.Error.
		{"deadline", context.DeadlineExceeded, true},
		{"plain error", errors.New("decode failed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestAddJitter_Bounds(t *testing.T) {
	for _, base := range []time.Duration{time.Millisecond, 250 * time.Millisecond, time.Second} {
		lo := time.Duration(float64(base) * 0.75)
		hi := time.Duration(float64(base) * 1.25)
		for i := 0; i < 100; i++ {
			d := addJitter(base)
			assert.GreaterOrEqual(t, d, lo, "base %v", base)
			assert.LessOrEqual(t, d, hi, "base %v", base)
		}
	}
	assert.Equal(t, time.Duration(0), addJitter(0))
	assert.Equal(t, time.Duration(0), addJitter(-time.Second))
}

func TestAddJitter_Spreads(t *testing.T) {
	const base = time.Second
	seen := make(map[time.Duration]struct{})
	for i := 0; i < 50; i++ {
		seen[addJitter(base)] = struct{}{}
	}
	assert.Greater(t, len(seen), 1, "jitter should not be constant")
}
