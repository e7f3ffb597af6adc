// file: internal/rpc/completion.go
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/dkoosis/cowgnition/internal/logging"
	"github.com/dkoosis/cowgnition/internal/rpcerrors"
)

// Completable is the completion-token handle passed to a request handler
// (spec.md §4.E). It carries the incoming request's id (nil for
// notifications) and a one-shot sink routing the eventual Response to the
// output worker. It is Send but not Sync (spec.md §5): a single goroutine
// operates on it at a time, though it may be handed off between goroutines
// (stashed and completed later from a spawned thread, enabling async
// responses).
type Completable struct {
	id     *Id
	method string
	submit func(writeTask) error
	logger logging.Logger

	finished atomic.Bool
}

func newCompletable(id *Id, method string, submit func(writeTask) error, logger logging.Logger) *Completable {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	c := &Completable{id: id, method: method, submit: submit, logger: logger}
	// Best-effort leak detection: Go has no Drop, so a finalizer is the
	// idiomatic stand-in for spec.md §4.E's "dropping without completing is
	// also a programming error." Finalizer timing is GC-dependent and never
	// asserted on in tests; double-completion below is the deterministic
	// half of the contract.
	runtime.SetFinalizer(c, func(leaked *Completable) {
		if !leaked.finished.Load() {
			leaked.logger.Error("completion token garbage-collected without being completed",
				"method", leaked.method)
		}
	})
	return c
}

// IsNotification reports whether this token's request carried no id.
func (c *Completable) IsNotification() bool { return c.id == nil }

// markFinished flips the one-shot flag, panicking if it was already set
// (spec.md §4.E: "a second attempt is a programming error").
func (c *Completable) markFinished() {
	if !c.finished.CompareAndSwap(false, true) {
		panic("rpc: ResponseCompletable completed more than once for method " + c.method)
	}
	runtime.SetFinalizer(c, nil)
}

// Complete finishes the token with a successful result. For a notification
// this discards result and emits nothing on the wire, matching spec.md
// §4.E's "notification path."
func (c *Completable) Complete(result interface{}) {
	c.markFinished()
	if c.id == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		c.writeResponse(&Response{Id: *c.id, Err: &Error{
			Code: rpcerrors.CodeInternalError, Message: "failed to marshal result",
		}})
		return
	}
	c.writeResponse(&Response{Id: *c.id, Result: raw})
}

// CompleteWithError finishes the token with an error. For a notification
// this discards err and emits nothing, same as Complete.
func (c *Completable) CompleteWithError(err *Error) {
	c.markFinished()
	if c.id == nil {
		return
	}
	c.writeResponse(&Response{Id: *c.id, Err: err})
}

// completeMissingId emits a standalone error Response that is not tied to
// any live completion token, routed straight through submit. Used by the
// endpoint itself (not by request handlers) for local-error replies that
// have no corresponding in-flight Completable: a Response whose id matches
// no pending request gets a local InvalidResponse reply this way
// (spec.md §4.D/§4.F, §7 category 5).
func completeMissingId(submit func(writeTask) error, id Id, err *Error) {
	submitResponse(submit, &Response{Id: id, Err: err})
}

func (c *Completable) writeResponse(resp *Response) {
	submitResponse(c.submit, resp)
}

func submitResponse(submit func(writeTask) error, resp *Response) {
	_ = submit(func(ctx context.Context, w MessageWriter) error {
		payload, err := MarshalResponse(resp)
		if err != nil {
			return err
		}
		return w.WriteMessage(ctx, payload)
	})
}

// HandleRequestWith decodes params into a fresh *P and invokes fn, auto-
// completing the token with InvalidParams on decode failure
// (spec.md §4.E typed helpers).
func HandleRequestWith[P any, R any](c *Completable, params Params, fn func(P) (R, error)) {
	var p P
	if err := params.Decode(&p); err != nil {
		c.CompleteWithError(&Error{
			Code:    rpcerrors.CodeInvalidParams,
			Message: rpcerrors.UserFacingMessage(rpcerrors.CodeInvalidParams),
			Data:    detailJSON(err.Error()),
		})
		return
	}
	result, err := fn(p)
	if err != nil {
		var wireErr *Error
		if errors.As(err, &wireErr) {
			c.CompleteWithError(wireErr)
			return
		}
		code, message, data := rpcerrors.ToWireError(err)
		c.CompleteWithError(&Error{Code: code, Message: message, Data: data})
		return
	}
	c.Complete(result)
}

// HandleNotificationWith decodes params into a fresh *P and invokes fn. The
// token is completed first, before fn runs, so the exactly-once invariant
// holds regardless of what fn does (spec.md §4.G: typed notification
// handler).
func HandleNotificationWith[P any](c *Completable, params Params, fn func(P)) {
	var p P
	if err := params.Decode(&p); err != nil {
		c.Complete(nil) // Notification completion is a no-op on the wire.
		return
	}
	c.Complete(nil)
	fn(p)
}

func detailJSON(detail string) json.RawMessage {
	raw, err := json.Marshal(detail)
	if err != nil {
		return nil
	}
	return raw
}
