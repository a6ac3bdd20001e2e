package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/utafrali/storefront/pkg/logger"
)

// Recovery turns a handler panic into a 500 error envelope. Store misuse
// (a closed store, a missing session) surfaces here as a panic.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				attrs := []any{
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				}
				if err, ok := rec.(error); ok {
					attrs = append(attrs, slog.String("error", err.Error()))
				} else {
					attrs = append(attrs, slog.Any("panic", rec))
				}
				if id := logger.CorrelationIDFromContext(r.Context()); id != "" {
					attrs = append(attrs, slog.String("correlation_id", id))
				}
				l.ErrorContext(r.Context(), "panic recovered", attrs...)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{
						"code":    "INTERNAL_ERROR",
						"message": "an internal error occurred",
					},
				}); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
					l.Error("failed to encode response", slog.String("error", err.Error()))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
