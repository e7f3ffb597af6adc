// file: internal/rpc/message.go
package rpc

import (
	"encoding/json"

	"github.com/dkoosis/cowgnition/internal/rpcerrors"
)

// Version is the JSON-RPC version string carried on every envelope
// (spec.md §4.B).
const Version = "2.0"

// Params is the wire payload of a Request/Notification: an object, an
// array, or absent. Decoded absence/null both compare equal to Params{},
// matching spec.md §3's invariant for RequestParams.
type Params struct {
	raw json.RawMessage
}

// ParamsFromValue marshals v (expected to be a struct or map) into Params.
// Passing nil produces the "None" params.
func ParamsFromValue(v interface{}) (Params, error) {
	if v == nil {
		return Params{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return Params{}, rpcerrors.Wrap(err, "rpc: failed to marshal params")
	}
	return Params{raw: raw}, nil
}

// IsNone reports whether params were omitted or null on the wire.
func (p Params) IsNone() bool {
	return len(p.raw) == 0 || string(p.raw) == "null"
}

// Decode unmarshals the params into dst. Called on "None" params, dst is
// left untouched.
func (p Params) Decode(dst interface{}) error {
	if p.IsNone() {
		return nil
	}
	return json.Unmarshal(p.raw, dst)
}

// Raw returns the underlying JSON, or nil for "None" params.
func (p Params) Raw() json.RawMessage { return p.raw }

// MarshalJSON emits the object/array verbatim, or JSON null for "None".
func (p Params) MarshalJSON() ([]byte, error) {
	if p.IsNone() {
		return []byte("null"), nil
	}
	return p.raw, nil
}

// UnmarshalJSON stores the raw object/array/null form for later Decode.
func (p *Params) UnmarshalJSON(data []byte) error {
	p.raw = append(json.RawMessage(nil), data...)
	return nil
}

// Request is an outgoing or incoming JSON-RPC request or notification.
// A Request with no Id is a notification and produces no response
// (spec.md §3).
type Request struct {
	Id     *Id
	Method string
	Params Params
}

// IsNotification reports whether this Request carries no id.
func (r *Request) IsNotification() bool { return r.Id == nil }

// Error represents a JSON-RPC 2.0 error object (spec.md §3).
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Error implements the error interface so an *Error can be returned
// directly from handler code and propagated with errors.As.
func (e *Error) Error() string {
	return e.Message
}

// Response is a reply to a Request carrying an Id (spec.md §3). Exactly one
// of Result/Err is set.
type Response struct {
	Id     Id
	Result json.RawMessage
	Err    *Error
}

// IsError reports whether this response carries an error rather than a
// result.
func (r *Response) IsError() bool { return r.Err != nil }

// wireMessage is the on-the-wire envelope shared by requests, notifications,
// and responses; fields are optional/omitted per spec.md §4.B. Unknown
// incoming fields are ignored by encoding/json by default.
type wireMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	Id      *Id             `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  *Params         `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Message is the result of parsing a single JSON-RPC frame: exactly one of
// Request/Response is non-nil.
type Message struct {
	Request  *Request
	Response *Response
}

// ParseMessage decodes a single wire payload into a Message. Discrimination
// between Request and Response is by presence of the "method" field
// (spec.md §4.B). A missing required field yields InvalidRequest naming the
// field, never a bare JSON error.
func ParseMessage(payload []byte) (*Message, error) {
	var wire wireMessage
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, rpcerrors.ErrorWithDetails(
			rpcerrors.Wrap(err, "rpc: failed to parse JSON"),
			rpcerrors.CategoryRPC, rpcerrors.CodeParseError, nil,
		)
	}

	if wire.JSONRPC != "" && wire.JSONRPC != Version {
		return nil, invalidRequestError("jsonrpc", "must be \"2.0\"")
	}

	if wire.Method != "" {
		req := &Request{Id: wire.Id, Method: wire.Method}
		if wire.Params != nil {
			req.Params = *wire.Params
		}
		return &Message{Request: req}, nil
	}

	// Response: must carry an id (possibly null) and exactly one of
	// result/error.
	if wire.Id == nil {
		// encoding/json leaves *Id nil for both an absent and a null "id";
		// only an absent one is an error.
		var fields map[string]json.RawMessage
		_ = json.Unmarshal(payload, &fields)
		if _, present := fields["id"]; !present {
			return nil, invalidRequestError("id", "missing on response")
		}
		wire.Id = &Id{kind: idKindNull}
	}
	if wire.Result != nil && wire.Error != nil {
		return nil, invalidRequestError("result/error", "both present, exactly one allowed")
	}
	if wire.Result == nil && wire.Error == nil {
		return nil, invalidRequestError("result/error", "neither present")
	}
	return &Message{Response: &Response{Id: *wire.Id, Result: wire.Result, Err: wire.Error}}, nil
}

func invalidRequestError(field, reason string) error {
	return rpcerrors.ErrorWithDetails(
		rpcerrors.Newf("rpc: invalid request: field %q %s", field, reason),
		rpcerrors.CategoryRPC, rpcerrors.CodeInvalidRequest,
		map[string]interface{}{"field": field},
	)
}

// MarshalRequest serializes a Request to its wire form. A nil Id (a
// notification) is omitted entirely, never emitted as null — that would
// wrongly signal a response-expecting request with id null.
func MarshalRequest(r *Request) ([]byte, error) {
	wire := wireMessage{JSONRPC: Version, Method: r.Method, Params: &r.Params}
	if r.Id != nil {
		wire.Id = r.Id
	}
	return json.Marshal(wire)
}

// MarshalResponse serializes a Response to its wire form. The error branch
// is always written under the "error" key — the source implementation's bug
// of writing it under "result" in one path is not replicated
// (spec.md §9 Design Notes).
func MarshalResponse(r *Response) ([]byte, error) {
	wire := wireMessage{JSONRPC: Version, Id: &r.Id}
	if r.IsError() {
		wire.Error = r.Err
	} else {
		wire.Result = r.Result
	}
	return json.Marshal(wire)
}
