package middleware

import (
	"net/http"

	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/google/uuid"

	"github.com/frahmantamala/roster-management/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags the request with an id taken from the X-Request-ID header,
// chi's request id, or a fresh uuid, in that order. The id is echoed back
// and attached to the context logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = chiMiddleware.GetReqID(r.Context())
		}
		if reqID == "" {
			reqID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "request_id", reqID)
		w.Header().Set(RequestIDHeader, reqID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
