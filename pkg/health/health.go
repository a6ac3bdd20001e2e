package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Checker is a function that checks the health of a dependency.
type Checker func(ctx context.Context) error

// Status represents the health status of a component.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// DefaultTimeout bounds a readiness probe as a whole.
const DefaultTimeout = 5 * time.Second

// Response is the JSON response returned by the health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Service   string                 `json:"service,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the result of a single health check.
type CheckResult struct {
	Status  Status `json:"status"`
	Latency string `json:"latency"`
	Error   string `json:"error,omitempty"`
}

// Handler provides HTTP health check endpoints.
type Handler struct {
	service  string
	timeout  time.Duration
	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewHandler creates a health handler for the named service.
func NewHandler(service string) *Handler {
	return &Handler{
		service:  service,
		timeout:  DefaultTimeout,
		checkers: make(map[string]Checker),
	}
}

// Register adds a named health checker.
func (h *Handler) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// LivenessHandler returns 200 as long as the process can serve requests.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Response{
			Status:    StatusUp,
			Service:   h.service,
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadinessHandler runs every registered check concurrently and answers 200
// when all pass, 503 otherwise.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		checks := h.Check(ctx)
		overall := StatusUp
		for _, c := range checks {
			if c.Status == StatusDown {
				overall = StatusDown
				break
			}
		}

		status := http.StatusOK
		if overall == StatusDown {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, Response{
			Status:    overall,
			Service:   h.service,
			Timestamp: time.Now().UTC(),
			Checks:    checks,
		})
	}
}

// Check runs all registered checkers and returns their results by name.
func (h *Handler) Check(ctx context.Context) map[string]CheckResult {
	h.mu.RLock()
	checkers := make(map[string]Checker, len(h.checkers))
	for k, v := range h.checkers {
		checkers[k] = v
	}
	h.mu.RUnlock()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]CheckResult, len(checkers))
	)
	for name, checker := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := checker(ctx)
			res := CheckResult{Status: StatusUp, Latency: time.Since(start).String()}
			if err != nil {
				res.Status = StatusDown
				res.Error = err.Error()
			}
			mu.Lock()
			results[name] = res
			mu.Unlock()
		}()
	}
	wg.Wait()
	return results
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
