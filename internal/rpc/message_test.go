// Package rpc tests message parsing and serialization.
package rpc

// file: internal/rpc/message_test.go

import (
	"encoding/json"
	"testing"

	"github.com/dkoosis/cowgnition/internal/rpcerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessage_Request_HappyPath(t *testing.T) {
	msg, err := ParseMessage([]byte(`{"jsonrpc":"2.0","id":1,"method":"textDocument/hover","params":{"x":1}}`))
	require.NoError(t, err)
	require.NotNil(t, msg.Request)
	assert.Nil(t, msg.Response)
	assert.Equal(t, "textDocument/hover", msg.Request.Method)
	assert.False(t, msg.Request.IsNotification())
	assert.Equal(t, NumberId(1), *msg.Request.Id)
}

func TestParseMessage_Notification_HasNoId(t *testing.T) {
	msg, err := ParseMessage([]byte(`{"jsonrpc":"2.0","method":"initialized","params":{}}`))
	require.NoError(t, err)
	require.NotNil(t, msg.Request)
	assert.True(t, msg.Request.IsNotification())
}

func TestParseMessage_Response_RequiresExactlyOneOfResultOrError(t *testing.T) {
	_, err := ParseMessage([]byte(`{"jsonrpc":"2.0","id":1,"result":1,"error":{"code":-32600,"message":"x"}}`))
	assert.Error(t, err)
	assert.Equal(t, rpcerrors.CodeInvalidRequest, rpcerrors.GetErrorCode(err))

	_, err = ParseMessage([]byte(`{"jsonrpc":"2.0","id":1}`))
	assert.Error(t, err)

	msg, err := ParseMessage([]byte(`{"jsonrpc":"2.0","id":1,"result":42}`))
	require.NoError(t, err)
	require.NotNil(t, msg.Response)
	assert.False(t, msg.Response.IsError())
}

func TestParseMessage_Response_RequiresId(t *testing.T) {
	_, err := ParseMessage([]byte(`{"jsonrpc":"2.0","result":1}`))
	require.Error(t, err)
	assert.Equal(t, rpcerrors.CodeInvalidRequest, rpcerrors.GetErrorCode(err))
}

func TestParseMessage_WrongVersion_IsInvalidRequest(t *testing.T) {
	_, err := ParseMessage([]byte(`{"jsonrpc":"1.0","id":1,"method":"x"}`))
	require.Error(t, err)
	assert.Equal(t, rpcerrors.CodeInvalidRequest, rpcerrors.GetErrorCode(err))
}

func TestParseMessage_MalformedJSON_IsParseError(t *testing.T) {
	_, err := ParseMessage([]byte(`{not json`))
	require.Error(t, err)
	assert.Equal(t, rpcerrors.CodeParseError, rpcerrors.GetErrorCode(err))
}

func TestMarshalRequest_NotificationOmitsId(t *testing.T) {
	raw, err := MarshalRequest(&Request{Method: "initialized", Params: Params{}})
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	_, hasId := decoded["id"]
	assert.False(t, hasId, "notification must not carry an id field, not even null")
}

func TestMarshalRequest_WithIdIncludesIt(t *testing.T) {
	id := NumberId(7)
	raw, err := MarshalRequest(&Request{Id: &id, Method: "initialize"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":7`)
}

func TestMarshalResponse_ErrorAlwaysUnderErrorKey(t *testing.T) {
	raw, err := MarshalResponse(&Response{Id: NumberId(1), Err: &Error{Code: -32601, Message: "nope"}})
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	_, hasError := decoded["error"]
	_, hasResult := decoded["result"]
	assert.True(t, hasError)
	assert.False(t, hasResult)
}

func TestParamsFromValue_NilIsNone(t *testing.T) {
	p, err := ParamsFromValue(nil)
	require.NoError(t, err)
	assert.True(t, p.IsNone())
}

func TestParams_DecodeLeavesDstUntouchedWhenNone(t *testing.T) {
	var dst struct{ X int }
	dst.X = 5
	var p Params
	require.NoError(t, p.Decode(&dst))
	assert.Equal(t, 5, dst.X)
}
