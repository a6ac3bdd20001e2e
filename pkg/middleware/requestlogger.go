package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/pkg/logger"
)

// SessionIDHeader names the storefront session a request belongs to.
const SessionIDHeader = "X-Session-ID"

// RequestLogger stores a request-scoped logger in the context carrying
// correlation_id, session_id, trace_id and span_id. Mount it after
// RequestLogging and Tracing; handlers read it with logger.FromContext.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if logger.SessionIDFromContext(ctx) == "" {
				if id := r.Header.Get(SessionIDHeader); id != "" {
					ctx = logger.WithSessionID(ctx, id)
				}
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
