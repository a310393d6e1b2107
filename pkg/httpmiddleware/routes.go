package httpmiddleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouteFinder resolves the route pattern a request will be dispatched to.
type RouteFinder func(r *http.Request) (pattern string, ok bool)

// MakeRouteFinder returns a RouteFinder matching requests against routes
// without serving them, so middleware outside the router can label requests
// before dispatch.
func MakeRouteFinder(routes chi.Routes) RouteFinder {
	return func(r *http.Request) (string, bool) {
		rctx := chi.NewRouteContext()
		path := r.URL.RawPath
		if path == "" {
			path = r.URL.Path
		}
		if !routes.Match(rctx, r.Method, path) {
			return "", false
		}
		return rctx.RoutePattern(), true
	}
}

func routeLabel(find RouteFinder, r *http.Request) string {
	if find == nil {
		return "unknown"
	}
	if pattern, ok := find(r); ok {
		return pattern
	}
	return "not_found"
}
