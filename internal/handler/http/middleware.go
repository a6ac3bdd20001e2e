package http

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/storage"
	"github.com/utafrali/storefront/internal/store"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/middleware"
)

// sessionIDPattern keeps client-chosen ids safe to embed in storage keys.
var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// SessionFromHeader opens the session named by the X-Session-ID header,
// generating a new id when the header is absent, and stores it in the
// request context. The id is echoed back so clients can keep it. Session
// stores are closed once the handler returns. Requests for the same id hold
// the session's lock from open to close and so run one at a time.
func SessionFromHeader(st storage.Storage, locks *store.Locks, events *event.Producer, base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(middleware.SessionIDHeader))
			if id == "" {
				id = uuid.New().String()
			} else if !sessionIDPattern.MatchString(id) {
				httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "INVALID_SESSION",
						Message: "X-Session-ID must be 1-128 letters, digits, '-' or '_'",
					},
				})
				return
			}
			w.Header().Set(middleware.SessionIDHeader, id)

			ctx := r.Context()
			if logger.SessionIDFromContext(ctx) != id {
				ctx = logger.WithSessionID(ctx, id)
				ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			}

			unlock, err := locks.Lock(ctx, id)
			if err != nil {
				httputil.WriteError(w, r, apperrors.ServiceUnavailable("session is busy, retry the request"), base)
				return
			}
			defer unlock()

			sess := store.OpenSession(ctx, id, st, logger.FromContext(ctx))
			defer sess.Close()
			if events != nil {
				events.Attach(sess)
			}

			next.ServeHTTP(w, r.WithContext(store.NewContext(ctx, sess)))
		})
	}
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
