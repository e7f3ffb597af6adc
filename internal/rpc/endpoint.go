// file: internal/rpc/endpoint.go
package rpc

import (
	"context"
	"errors"
	"sync"

	"github.com/dkoosis/cowgnition/internal/logging"
	"github.com/dkoosis/cowgnition/internal/rpcerrors"
)

// Metrics receives endpoint activity counts. The zero value (nil on
// Endpoint) disables recording; internal/metrics supplies a concrete
// implementation (spec.md §4.F, SPEC_FULL.md Domain Stack).
type Metrics interface {
	RecordSent(method string)
	RecordReceived(method string)
	RecordDispatched(method string)
	SetPending(n int)
}

// Endpoint is a bidirectional JSON-RPC 2.0 endpoint: it owns an output
// worker (spec.md §4.C), a pending-request table (spec.md §4.D/§4.F), and
// dispatches incoming requests to a RequestHandler via completion tokens
// (spec.md §4.E/§4.G). One Endpoint corresponds to one connection.
type Endpoint struct {
	worker  *outputWorker
	pending *pendingTable
	handler RequestHandler
	logger  logging.Logger
	metrics Metrics

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
	readLoopDone chan struct{}
}

// NewEndpoint constructs an Endpoint. writer is where outgoing frames go;
// handler dispatches incoming requests/notifications. metrics may be nil.
func NewEndpoint(writer MessageWriter, handler RequestHandler, logger logging.Logger, metrics Metrics) *Endpoint {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &Endpoint{
		worker:       newOutputWorker(writer, logger),
		pending:      newPendingTable(),
		handler:      handler,
		logger:       logger.WithField("component", "endpoint"),
		metrics:      metrics,
		shutdownCh:   make(chan struct{}),
		readLoopDone: make(chan struct{}),
	}
}

// Run drives the read loop until reader is exhausted, ctx is cancelled, or
// Shutdown is called. It returns nil on a clean end-of-stream, and the
// triggering error otherwise (spec.md §4.A/§4.F).
func (e *Endpoint) Run(ctx context.Context, reader MessageReader) error {
	defer close(e.readLoopDone)
	for {
		select {
		case <-e.shutdownCh:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		payload, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, ErrEndOfStream) {
				return nil
			}
			return err
		}
		e.dispatchFrame(ctx, payload)
	}
}

func (e *Endpoint) dispatchFrame(ctx context.Context, payload []byte) {
	msg, err := ParseMessage(payload)
	if err != nil {
		code, message, data := rpcerrors.ToWireError(err)
		e.logger.Warn("dropping malformed frame", "error", err)
		submitResponse(e.worker.submit, &Response{
			Id:  NullId,
			Err: &Error{Code: code, Message: message, Data: data},
		})
		return
	}

	switch {
	case msg.Request != nil:
		e.dispatchRequest(ctx, msg.Request)
	case msg.Response != nil:
		e.dispatchResponse(msg.Response)
	}
}

func (e *Endpoint) dispatchRequest(ctx context.Context, req *Request) {
	if e.metrics != nil {
		e.metrics.RecordReceived(req.Method)
	}
	token := newCompletable(req.Id, req.Method, e.worker.submit, e.logger)
	if e.metrics != nil {
		e.metrics.RecordDispatched(req.Method)
	}
	// Handlers may be long-running or intentionally async (spec.md §4.E); run
	// each dispatch on its own goroutine so a slow handler never blocks the
	// read loop or other in-flight requests.
	go e.handler.Handle(ctx, req, token)
}

func (e *Endpoint) dispatchResponse(resp *Response) {
	ok := e.pending.complete(resp.Id, ResponseResult{Result: resp.Result, Err: resp.Err})
	if ok {
		return
	}
	e.logger.Warn("response has no matching pending request; emitting local InvalidResponse", "id", resp.Id.String())
	completeMissingId(e.worker.submit, resp.Id, &Error{
		Code:    rpcerrors.CodeInvalidResponse,
		Message: rpcerrors.UserFacingMessage(rpcerrors.CodeInvalidResponse),
	})
}

// SendRequest allocates an id, writes the Request, and blocks until a
// matching Response arrives, ctx is cancelled, or the endpoint shuts down
// (spec.md §4.F).
func (e *Endpoint) SendRequest(ctx context.Context, method string, params interface{}) (ResponseResult, error) {
	p, err := ParamsFromValue(params)
	if err != nil {
		return ResponseResult{}, err
	}

	id, waiter := e.pending.allocate()
	req := &Request{Id: &id, Method: method, Params: p}
	payload, err := MarshalRequest(req)
	if err != nil {
		return ResponseResult{}, err
	}

	if e.metrics != nil {
		e.metrics.RecordSent(method)
	}
	if err := e.worker.submit(func(ctx context.Context, w MessageWriter) error {
		return w.WriteMessage(ctx, payload)
	}); err != nil {
		return ResponseResult{}, err
	}

	select {
	case result := <-waiter:
		return result, nil
	case <-ctx.Done():
		return ResponseResult{}, ctx.Err()
	case <-e.shutdownCh:
		return ResponseResult{Err: cancelledError}, nil
	}
}

// SendNotification writes a Request with no id; there is nothing to wait
// for (spec.md §4.F).
func (e *Endpoint) SendNotification(ctx context.Context, method string, params interface{}) error {
	p, err := ParamsFromValue(params)
	if err != nil {
		return err
	}
	payload, err := MarshalRequest(&Request{Method: method, Params: p})
	if err != nil {
		return err
	}
	if e.metrics != nil {
		e.metrics.RecordSent(method)
	}
	return e.worker.submit(func(ctx context.Context, w MessageWriter) error {
		return w.WriteMessage(ctx, payload)
	})
}

// Shutdown stops the read loop, cancels every outstanding SendRequest with
// the cancellation sentinel, and joins the output worker. Idempotent
// (spec.md §4.D).
func (e *Endpoint) Shutdown() {
	e.shutdownOnce.Do(func() {
		close(e.shutdownCh)
		e.pending.cancelAll()
		e.worker.shutdown()
	})
}

// Wait blocks until the read loop has returned.
func (e *Endpoint) Wait() { <-e.readLoopDone }
