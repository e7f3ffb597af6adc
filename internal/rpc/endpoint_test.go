// Package rpc tests the Endpoint end to end over an in-memory byte stream.
package rpc

// file: internal/rpc/endpoint_test.go

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type framedReader struct{ fr *FrameReader }

func (f framedReader) ReadMessage(ctx context.Context) ([]byte, error) { return f.fr.ReadFrame() }

type framedWriter struct{ fw *FrameWriter }

func (f framedWriter) WriteMessage(ctx context.Context, payload []byte) error {
	return f.fw.WriteFrame(payload)
}

func TestEndpoint_IncomingRequest_WritesFramedResponse(t *testing.T) {
	var incoming bytes.Buffer
	require.NoError(t, NewFrameWriter(&incoming).WriteFrame(
		[]byte(`{"jsonrpc":"2.0","id":1,"method":"textDocument/hover","params":{"uri":"file:///a.go"}}`)))

	var outgoing bytes.Buffer
	handled := make(chan struct{})

	handler := RequestHandlerFunc(func(ctx context.Context, req *Request, token *Completable) {
		HandleRequestWith(token, req.Params, func(p hoverParams) (hoverResult, error) {
			return hoverResult{Contents: "docs for " + p.Uri}, nil
		})
		close(handled)
	})

	endpoint := NewEndpoint(framedWriter{NewFrameWriter(&outgoing)}, handler, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go func() { _ = endpoint.Run(ctx, framedReader{NewFrameReader(&incoming)}) }()

	select {
	case <-handled:
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}
	endpoint.Shutdown()

	payload, err := NewFrameReader(&outgoing).ReadFrame()
	require.NoError(t, err)
	assert.Contains(t, string(payload), "docs for file:///a.go")
}

func TestEndpoint_SendRequest_ResolvesWhenResponseArrives(t *testing.T) {
	var outgoing bytes.Buffer
	endpoint := NewEndpoint(framedWriter{NewFrameWriter(&outgoing)}, NewMethodTable(), nil, nil)
	defer endpoint.Shutdown()

	resultCh := make(chan ResponseResult, 1)
	errCh := make(chan error, 1)
	go func() {
		result, err := endpoint.SendRequest(context.Background(), "workspace/symbol", map[string]string{"query": "Foo"})
		resultCh <- result
		errCh <- err
	}()

	// The call blocks on the pending table until a Response with matching id
	// is fed back through dispatchResponse; simulate the peer by reading the
	// frame we just wrote and completing it directly. The output worker writes
	// asynchronously, so wait for the whole frame to land first.
	require.Eventually(t, func() bool { return bytes.HasSuffix(outgoing.Bytes(), []byte("}")) },
		time.Second, 5*time.Millisecond)
	payload, err := NewFrameReader(&outgoing).ReadFrame()
	require.NoError(t, err)
	msg, err := ParseMessage(payload)
	require.NoError(t, err)
	require.NotNil(t, msg.Request)

	endpoint.dispatchResponse(&Response{Id: *msg.Request.Id, Result: []byte(`"ok"`)})

	require.NoError(t, <-errCh)
	result := <-resultCh
	assert.Equal(t, `"ok"`, string(result.Result))
}

func TestEndpoint_SendNotification_NeverBlocksOnAResponse(t *testing.T) {
	var outgoing bytes.Buffer
	endpoint := NewEndpoint(framedWriter{NewFrameWriter(&outgoing)}, NewMethodTable(), nil, nil)

	require.NoError(t, endpoint.SendNotification(context.Background(), "window/logMessage", map[string]string{"message": "hi"}))
	endpoint.Shutdown()

	payload, err := NewFrameReader(&outgoing).ReadFrame()
	require.NoError(t, err)
	assert.Contains(t, string(payload), "window/logMessage")
}

func TestEndpoint_Shutdown_CancelsOutstandingSendRequest(t *testing.T) {
	var outgoing bytes.Buffer
	endpoint := NewEndpoint(framedWriter{NewFrameWriter(&outgoing)}, NewMethodTable(), nil, nil)

	resultCh := make(chan ResponseResult, 1)
	go func() {
		result, _ := endpoint.SendRequest(context.Background(), "slow/op", nil)
		resultCh <- result
	}()

	time.Sleep(50 * time.Millisecond) // Let SendRequest register before shutdown.
	endpoint.Shutdown()

	select {
	case result := <-resultCh:
		require.NotNil(t, result.Err)
		assert.Equal(t, cancelledError, result.Err)
	case <-time.After(time.Second):
		t.Fatal("SendRequest never returned after Shutdown")
	}
}

func TestEndpoint_UnmatchedResponse_EmitsLocalInvalidResponse(t *testing.T) {
	var outgoing bytes.Buffer
	endpoint := NewEndpoint(framedWriter{NewFrameWriter(&outgoing)}, NewMethodTable(), nil, nil)
	defer endpoint.Shutdown()

	id := NumberId(99)
	endpoint.dispatchResponse(&Response{Id: id, Result: []byte(`"ok"`)})
	endpoint.Shutdown() // The reply is written by the output worker; shutdown drains it.

	payload, err := NewFrameReader(&outgoing).ReadFrame()
	require.NoError(t, err)
	msg, err := ParseMessage(payload)
	require.NoError(t, err)
	require.NotNil(t, msg.Response)
	assert.Equal(t, id, msg.Response.Id)
	require.NotNil(t, msg.Response.Err)
	assert.Equal(t, -32000, msg.Response.Err.Code)
}

func TestEndpoint_UnparseableFrame_RespondsWithNullIdError(t *testing.T) {
	var incoming bytes.Buffer
	require.NoError(t, NewFrameWriter(&incoming).WriteFrame([]byte(`{"jsonrpc":"1.0","id":1,"method":"x"}`)))

	var outgoing bytes.Buffer
	endpoint := NewEndpoint(framedWriter{NewFrameWriter(&outgoing)}, NewMethodTable(), nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, endpoint.Run(ctx, framedReader{NewFrameReader(&incoming)}))
	endpoint.Shutdown()

	payload, err := NewFrameReader(&outgoing).ReadFrame()
	require.NoError(t, err)
	msg, err := ParseMessage(payload)
	require.NoError(t, err)
	require.NotNil(t, msg.Response)
	assert.True(t, msg.Response.Id.IsNull())
	require.NotNil(t, msg.Response.Err)
}
