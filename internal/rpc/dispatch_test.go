// Package rpc tests the method-table dispatcher.
package rpc

// file: internal/rpc/dispatch_test.go

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hoverParams struct {
	Uri string `json:"uri"`
}

type hoverResult struct {
	Contents string `json:"contents"`
}

func TestMethodTable_RegisterRequest_HappyPath(t *testing.T) {
	table := NewMethodTable()
	RegisterRequest(table, "textDocument/hover", func(ctx context.Context, p hoverParams) (hoverResult, error) {
		return hoverResult{Contents: "docs for " + p.Uri}, nil
	})

	w := &recordingWriter{}
	id := NumberId(1)
	params, err := ParamsFromValue(hoverParams{Uri: "file:///a.go"})
	require.NoError(t, err)
	req := &Request{Id: &id, Method: "textDocument/hover", Params: params}
	token := newCompletable(req.Id, req.Method, newTestSubmit(w), nil)

	table.Handle(context.Background(), req, token)

	require.Len(t, w.payloads, 1)
	assert.Contains(t, string(w.payloads[0]), "docs for file:///a.go")
}

func TestMethodTable_Handle_UnknownMethodRequest_IsMethodNotFound(t *testing.T) {
	table := NewMethodTable()
	w := &recordingWriter{}
	id := NumberId(1)
	req := &Request{Id: &id, Method: "bogus/method"}
	token := newCompletable(req.Id, req.Method, newTestSubmit(w), nil)

	table.Handle(context.Background(), req, token)

	require.Len(t, w.payloads, 1)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.payloads[0], &decoded))
	var errObj Error
	require.NoError(t, json.Unmarshal(decoded["error"], &errObj))
	assert.Equal(t, -32601, errObj.Code)
}

func TestMethodTable_Handle_UnknownMethodNotification_IsDroppedSilently(t *testing.T) {
	table := NewMethodTable()
	w := &recordingWriter{}
	req := &Request{Method: "bogus/notification"}
	token := newCompletable(nil, req.Method, newTestSubmit(w), nil)

	table.Handle(context.Background(), req, token)

	assert.Empty(t, w.payloads)
}

func TestRegisterNotification_RunsHandlerAfterCompleting(t *testing.T) {
	table := NewMethodTable()
	var received string
	RegisterNotification(table, "textDocument/didOpen", func(ctx context.Context, p hoverParams) {
		received = p.Uri
	})

	w := &recordingWriter{}
	params, err := ParamsFromValue(hoverParams{Uri: "file:///b.go"})
	require.NoError(t, err)
	req := &Request{Method: "textDocument/didOpen", Params: params}
	token := newCompletable(nil, req.Method, newTestSubmit(w), nil)

	table.Handle(context.Background(), req, token)

	assert.Equal(t, "file:///b.go", received)
	assert.Empty(t, w.payloads, "notifications never write to the wire")
}
