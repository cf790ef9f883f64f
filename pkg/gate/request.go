package gate

import (
	"context"
	"net/http"

	"github.com/aretw0/peek/pkg/domain"
	"github.com/aretw0/peek/pkg/ports"
)

type requestKey struct{}

// WithRequest returns a context carrying the incoming request, for request gates.
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, requestKey{}, r)
}

// RequestFrom returns the request attached by WithRequest, if any.
func RequestFrom(ctx context.Context) (*http.Request, bool) {
	r, ok := ctx.Value(requestKey{}).(*http.Request)
	return r, ok && r != nil
}

// QueryParam opens when the request in the context carries the named query
// parameter, whatever its value. An empty name means domain.DefaultQueryParam.
// Without a request in the context the gate is closed.
func QueryParam(name string) ports.Gate {
	if name == "" {
		name = domain.DefaultQueryParam
	}
	return ports.GateFunc(func(ctx context.Context) bool {
		r, ok := RequestFrom(ctx)
		if !ok || r.URL == nil {
			return false
		}
		return r.URL.Query().Has(name)
	})
}
