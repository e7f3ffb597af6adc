// Package rpc implements a bidirectional JSON-RPC 2.0 endpoint: message
// framing, the request/response/notification data model, a single-writer
// output worker, a pending-request table correlating outgoing requests to
// their responses, and a completion-token discipline for dispatching
// incoming requests to handlers exactly once.
// file: internal/rpc/id.go
package rpc

import (
	"encoding/json"
	"fmt"
)

// idKind discriminates the three wire shapes an Id can take.
type idKind int

const (
	idKindNull idKind = iota
	idKindNumber
	idKindString
)

// Id is a JSON-RPC request/response identifier: a number, a string, or null.
// Unlike the source implementation this widens numeric ids to int64 rather
// than truncating negative numbers into u64 — see spec.md §9 Design Notes.
// Id is a plain comparable struct (not an interface) so it can be used
// directly as a map key in the pending-request table, matching the
// teacher's preference for concrete structs over interface{} trees
// (internal/jsonrpc/types.go's Message).
type Id struct {
	kind   idKind
	number int64
	str    string
}

// NullId is the JSON-RPC null id, used on error responses whose request id
// could not be determined (spec.md §3).
var NullId = Id{kind: idKindNull}

// NumberId constructs an Id from a numeric value.
func NumberId(n int64) Id {
	return Id{kind: idKindNumber, number: n}
}

// StringId constructs an Id from a string value.
func StringId(s string) Id {
	return Id{kind: idKindString, str: s}
}

// IsNull reports whether the id is JSON-RPC null.
func (id Id) IsNull() bool { return id.kind == idKindNull }

// String renders the id for logging; not the wire form.
func (id Id) String() string {
	switch id.kind {
	case idKindNumber:
		return fmt.Sprintf("%d", id.number)
	case idKindString:
		return id.str
	default:
		return "null"
	}
}

// MarshalJSON encodes the id as a JSON number, string, or null.
func (id Id) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case idKindNumber:
		return json.Marshal(id.number)
	case idKindString:
		return json.Marshal(id.str)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON number, string, or null into an Id. Any other
// shape is a parse failure, matching spec.md §3's Id invariant.
func (id *Id) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*id = NullId
	case string:
		*id = StringId(v)
	case float64:
		*id = NumberId(int64(v))
	default:
		return fmt.Errorf("rpc: id must be a number, string, or null, got %T", v)
	}
	return nil
}
