package httpmiddleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// ClientIDHeader identifies the browser session owning a favorites set.
const ClientIDHeader = "X-Client-ID"

const maxClientIDLen = 64

type (
	clientIDKey       struct{}
	clientIDIssuedKey struct{}
)

// ClientIDFromContext returns the client ID, or "" if none is set.
func ClientIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey{}).(string)
	return id
}

// WithClientID stores id in ctx.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey{}, id)
}

// ClientIDIssued reports whether the client ID in ctx was minted for this
// request rather than sent by the client.
func ClientIDIssued(ctx context.Context) bool {
	issued, _ := ctx.Value(clientIDIssuedKey{}).(bool)
	return issued
}

// ClientID takes the client identity from the X-Client-ID header. Requests
// without a usable one get a fresh UUID, which is echoed back so the client
// can keep sending it.
func ClientID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			id := r.Header.Get(ClientIDHeader)
			if !isPrintableToken(id, maxClientIDLen) {
				id = uuid.NewString()
				ctx = context.WithValue(ctx, clientIDIssuedKey{}, true)
			}
			w.Header().Set(ClientIDHeader, id)
			next.ServeHTTP(w, r.WithContext(WithClientID(ctx, id)))
		})
	}
}
