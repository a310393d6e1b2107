package httpmiddleware

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// InjectLogger makes lg available through zctx.From in every request,
// annotated with the request and client IDs when those are known.
func InjectLogger(lg *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLg := lg
			if id := RequestIDFromContext(r.Context()); id != "" {
				reqLg = reqLg.With(zap.String("request_id", id))
			}
			if id := ClientIDFromContext(r.Context()); id != "" {
				reqLg = reqLg.With(zap.String("client_id", id))
			}
			next.ServeHTTP(w, r.WithContext(zctx.Base(r.Context(), reqLg)))
		})
	}
}

// LogRequests logs one line per request at debug level, or warn for 5xx.
func LogRequests(find RouteFinder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			lg := zctx.From(r.Context())
			level := zap.DebugLevel
			if rec.Status() >= http.StatusInternalServerError {
				level = zap.WarnLevel
			}
			lg.Log(level, "Request",
				zap.String("method", r.Method),
				zap.String("route", routeLabel(find, r)),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.Status()),
				zap.Int64("bytes", rec.written),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
