// Package rpcerrors defines the JSON-RPC 2.0 error taxonomy and categorized
// error helpers shared by internal/rpc and internal/lsp.
// file: internal/rpcerrors/errors.go
package rpcerrors

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// Wrap wraps an existing error with a message and stack trace, preserving
// the original cause for errors.Is/errors.As.
func Wrap(cause error, message string) error {
	return errors.Wrap(cause, message)
}

// Wrapf wraps an existing error with a formatted message and stack trace.
func Wrapf(cause error, format string, args ...interface{}) error {
	return errors.Wrapf(cause, format, args...)
}

// ErrorWithDetails attaches a category, a JSON-RPC code, and arbitrary
// properties to err as cockroachdb/errors details (errors.WithDetail), so later code can
// recover them with GetErrorCategory/GetErrorCode/GetErrorProperties without
// needing a concrete error type.
func ErrorWithDetails(err error, category Category, code int, properties map[string]interface{}) error {
	if err == nil {
		return nil
	}
	err = errors.WithDetail(err, "category:"+string(category))
	err = errors.WithDetail(err, fmt.Sprintf("code:%d", code))
	for k, v := range properties {
		err = errors.WithDetail(err, fmt.Sprintf("%s:%v", k, v))
	}
	return err
}

// GetErrorCategory extracts the category previously attached by
// ErrorWithDetails, or "" if none is present.
func GetErrorCategory(err error) Category {
	for _, detail := range errors.GetAllDetails(err) {
		if rest, ok := strings.CutPrefix(detail, "category:"); ok {
			return Category(rest)
		}
	}
	return ""
}

// GetErrorCode extracts the JSON-RPC code previously attached by
// ErrorWithDetails, defaulting to CodeInternalError when absent or
// unparseable.
func GetErrorCode(err error) int {
	for _, detail := range errors.GetAllDetails(err) {
		if rest, ok := strings.CutPrefix(detail, "code:"); ok {
			if code, parseErr := strconv.Atoi(rest); parseErr == nil {
				return code
			}
		}
	}
	return CodeInternalError
}

// GetErrorProperties extracts the "key:value" details attached by
// ErrorWithDetails, excluding the reserved category/code keys.
func GetErrorProperties(err error) map[string]interface{} {
	properties := make(map[string]interface{})
	for _, detail := range errors.GetAllDetails(err) {
		key, value, ok := strings.Cut(detail, ":")
		if !ok || key == "category" || key == "code" {
			continue
		}
		properties[key] = value
	}
	return properties
}

// ToWireError converts an application error into the wire Error shape
// defined in internal/rpc, filling Data from the properties attached via
// ErrorWithDetails when any are present.
func ToWireError(err error) (code int, message string, data json.RawMessage) {
	code = GetErrorCode(err)
	message = UserFacingMessage(code)

	properties := GetErrorProperties(err)
	if len(properties) == 0 {
		return code, message, nil
	}
	raw, marshalErr := json.Marshal(properties)
	if marshalErr != nil {
		return code, message, nil
	}
	return code, message, raw
}

// NewMethodNotFoundError builds the categorized error for an unknown method.
func NewMethodNotFoundError(method string) error {
	return ErrorWithDetails(
		Newf("method %q not found", method),
		CategoryRPC, CodeMethodNotFound,
		map[string]interface{}{"method": method},
	)
}

// NewInvalidParamsError builds the categorized error for params that failed
// to decode into a handler's expected type.
func NewInvalidParamsError(method, details string) error {
	return ErrorWithDetails(
		Newf("invalid params for %q: %s", method, details),
		CategoryRPC, CodeInvalidParams,
		map[string]interface{}{"method": method, "detail": details},
	)
}

// NewInvalidResponseError builds the categorized error sent back to a peer
// whose response arrived with an id that has no matching pending request.
func NewInvalidResponseError(reason string) error {
	return ErrorWithDetails(
		Newf("invalid response: %s", reason),
		CategoryRPC, CodeInvalidResponse,
		nil,
	)
}

// NewInternalError wraps cause as an internal error with the given context.
func NewInternalError(cause error, properties map[string]interface{}) error {
	return ErrorWithDetails(Wrap(cause, "internal error"), CategoryRPC, CodeInternalError, properties)
}
