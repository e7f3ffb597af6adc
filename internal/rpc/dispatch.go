// file: internal/rpc/dispatch.go
package rpc

import (
	"context"

	"github.com/dkoosis/cowgnition/internal/logging"
	"github.com/dkoosis/cowgnition/internal/rpcerrors"
)

// RawHandlerFunc is the untyped handler shape: it receives the request's raw
// Params and is responsible for completing token exactly once
// (spec.md §4.G "raw async handler").
type RawHandlerFunc func(ctx context.Context, params Params, token *Completable)

// MethodTable is a map-based RequestHandler keyed on method name
// (spec.md §4.G), grounded on the teacher's internal/mcp/router dispatch
// table generalized from MCP's fixed method set to an open registry.
type MethodTable struct {
	handlers map[string]RawHandlerFunc
	logger   logging.Logger
}

// NewMethodTable returns an empty table. Register methods with RegisterRaw,
// RegisterRequest, or RegisterNotification before wiring it into an Endpoint.
func NewMethodTable() *MethodTable {
	return &MethodTable{
		handlers: make(map[string]RawHandlerFunc),
		logger:   logging.GetLogger("rpc.dispatch"),
	}
}

// RegisterRaw registers the untyped handler variant directly.
func (t *MethodTable) RegisterRaw(method string, fn RawHandlerFunc) {
	t.handlers[method] = fn
}

// RegisterRequest registers a typed request handler: fn receives a decoded
// P and returns an R or an error; the table handles decode failures,
// marshaling, and error-code translation via HandleRequestWith
// (spec.md §4.G "typed request handler").
func RegisterRequest[P any, R any](t *MethodTable, method string, fn func(context.Context, P) (R, error)) {
	t.RegisterRaw(method, func(ctx context.Context, params Params, token *Completable) {
		HandleRequestWith(token, params, func(p P) (R, error) { return fn(ctx, p) })
	})
}

// RegisterNotification registers a typed notification handler: fn receives
// a decoded P and returns nothing. The token completes (as a no-op on the
// wire) before fn runs (spec.md §4.G "typed notification handler").
func RegisterNotification[P any](t *MethodTable, method string, fn func(context.Context, P)) {
	t.RegisterRaw(method, func(ctx context.Context, params Params, token *Completable) {
		HandleNotificationWith(token, params, func(p P) { fn(ctx, p) })
	})
}

// Handle implements RequestHandler. Unknown methods complete the token with
// MethodNotFound for requests; for notifications the call is logged and
// silently dropped, since there is nothing to respond to on the wire
// (spec.md §4.G, Open Question "unknown-method fallback" — see the
// dispatch.go entry in DESIGN.md).
func (t *MethodTable) Handle(ctx context.Context, req *Request, token *Completable) {
	fn, ok := t.handlers[req.Method]
	if !ok {
		if req.IsNotification() {
			t.logger.Warn("dropping notification for unregistered method", "method", req.Method)
			token.Complete(nil)
			return
		}
		token.CompleteWithError(&Error{
			Code:    rpcerrors.CodeMethodNotFound,
			Message: rpcerrors.UserFacingMessage(rpcerrors.CodeMethodNotFound),
		})
		return
	}
	fn(ctx, req.Params, token)
}
