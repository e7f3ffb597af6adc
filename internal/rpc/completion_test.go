// Package rpc tests the completion-token discipline.
package rpc

// file: internal/rpc/completion_test.go

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dkoosis/cowgnition/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	payloads [][]byte
}

func (w *recordingWriter) WriteMessage(ctx context.Context, payload []byte) error {
	w.payloads = append(w.payloads, payload)
	return nil
}

func newTestSubmit(w *recordingWriter) func(writeTask) error {
	return func(task writeTask) error {
		return task(context.Background(), w)
	}
}

func TestCompletable_Complete_WritesResponseForRequest(t *testing.T) {
	w := &recordingWriter{}
	id := NumberId(1)
	token := newCompletable(&id, "textDocument/hover", newTestSubmit(w), logging.GetNoopLogger())

	token.Complete(map[string]string{"contents": "docs"})

	require.Len(t, w.payloads, 1)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.payloads[0], &decoded))
	_, hasResult := decoded["result"]
	assert.True(t, hasResult)
}

func TestCompletable_Complete_NotificationEmitsNothing(t *testing.T) {
	w := &recordingWriter{}
	token := newCompletable(nil, "initialized", newTestSubmit(w), logging.GetNoopLogger())

	token.Complete(nil)

	assert.Empty(t, w.payloads, "completing a notification must not write to the wire")
}

func TestCompletable_CompleteWithError_WritesErrorResponse(t *testing.T) {
	w := &recordingWriter{}
	id := StringId("a")
	token := newCompletable(&id, "x", newTestSubmit(w), logging.GetNoopLogger())

	token.CompleteWithError(&Error{Code: -32601, Message: "not found"})

	require.Len(t, w.payloads, 1)
	assert.Contains(t, string(w.payloads[0]), "not found")
}

func TestCompletable_DoubleComplete_Panics(t *testing.T) {
	w := &recordingWriter{}
	id := NumberId(1)
	token := newCompletable(&id, "x", newTestSubmit(w), logging.GetNoopLogger())

	token.Complete(nil)
	assert.Panics(t, func() { token.Complete(nil) })
}

func TestHandleRequestWith_DecodeFailure_CompletesInvalidParams(t *testing.T) {
	w := &recordingWriter{}
	id := NumberId(1)
	token := newCompletable(&id, "x", newTestSubmit(w), logging.GetNoopLogger())

	type params struct {
		X int `json:"x"`
	}
	p, err := ParamsFromValue(map[string]string{"x": "not-an-int"})
	require.NoError(t, err)

	HandleRequestWith(token, p, func(params) (string, error) {
		t.Fatal("handler must not run when decode fails")
		return "", nil
	})

	require.Len(t, w.payloads, 1)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.payloads[0], &decoded))
	require.Contains(t, decoded, "error")
	var errObj Error
	require.NoError(t, json.Unmarshal(decoded["error"], &errObj))
	assert.Equal(t, -32602, errObj.Code)
}

func TestHandleRequestWith_Success(t *testing.T) {
	w := &recordingWriter{}
	id := NumberId(1)
	token := newCompletable(&id, "echo", newTestSubmit(w), logging.GetNoopLogger())

	type params struct {
		Text string `json:"text"`
	}
	p, err := ParamsFromValue(params{Text: "hi"})
	require.NoError(t, err)

	HandleRequestWith(token, p, func(in params) (string, error) {
		return in.Text, nil
	})

	require.Len(t, w.payloads, 1)
	assert.Contains(t, string(w.payloads[0]), `"hi"`)
}

func TestHandleNotificationWith_CompletesBeforeInvokingFn(t *testing.T) {
	w := &recordingWriter{}
	token := newCompletable(nil, "exit", newTestSubmit(w), logging.GetNoopLogger())

	var ran bool
	HandleNotificationWith(token, Params{}, func(struct{}) {
		ran = true
		assert.True(t, token.finished.Load(), "token must already be finished when fn runs")
	})
	assert.True(t, ran)
}
