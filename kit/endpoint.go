// Package kit carries the transport-neutral endpoint abstraction shared
// by the HTTP and MCP surfaces: an operation is written once as an
// Endpoint and exposed on either transport.
package kit

import "context"

// Endpoint is one transport-neutral operation.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares outermost-first: Chain(a, b, c) runs a's
// before hook first and its after hook last.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
