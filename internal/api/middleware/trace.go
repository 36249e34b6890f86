package middleware

import (
	"log/slog"
	"net/http"

	"github.com/dhallem/taskgate-api/internal/api/shared"
)

// TraceMiddleware attaches a trace ID to every request context. Apply it
// first in the chain so all later middleware and handlers can correlate
// their logs.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		log := slog.With(slog.String("trace_id", shared.GetTraceID(ctx)))
		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
