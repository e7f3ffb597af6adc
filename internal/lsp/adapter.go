// file: internal/lsp/adapter.go
package lsp

import (
	"context"

	"github.com/dkoosis/cowgnition/internal/rpc"
)

// LanguageServerHandling is implemented by application code that answers
// the server-role subset of LSP methods this binding wires
// (SPEC_FULL.md Domain Stack Supplement). Each method's shape mirrors the
// corresponding RegisterRequest/RegisterNotification call in
// NewServerMethodTable.
type LanguageServerHandling interface {
	Initialize(ctx context.Context, params InitializeParams) (InitializeResult, error)
	Initialized(ctx context.Context, params InitializedParams)
	Shutdown(ctx context.Context) (ShutdownResult, error)
	Exit(ctx context.Context)
	DidOpen(ctx context.Context, params DidOpenTextDocumentParams)
	Hover(ctx context.Context, params HoverParams) (HoverResult, error)
}

// NewServerMethodTable builds an rpc.MethodTable dispatching the
// server-role method subset to server. Unregistered methods fall through
// to MethodTable's MethodNotFound/drop behavior (spec.md §4.G).
func NewServerMethodTable(server LanguageServerHandling) *rpc.MethodTable {
	table := rpc.NewMethodTable()

	rpc.RegisterRequest(table, "initialize", server.Initialize)
	rpc.RegisterNotification(table, "initialized", server.Initialized)
	rpc.RegisterRequest(table, "shutdown", func(ctx context.Context, _ Empty) (ShutdownResult, error) {
		return server.Shutdown(ctx)
	})
	rpc.RegisterNotification(table, "exit", func(ctx context.Context, _ Empty) {
		server.Exit(ctx)
	})
	rpc.RegisterNotification(table, "textDocument/didOpen", server.DidOpen)
	rpc.RegisterRequest(table, "textDocument/hover", server.Hover)

	return table
}

// LanguageClientHandling is implemented by application code that answers
// the client-role method subset: server-to-client notifications such as
// window/logMessage.
type LanguageClientHandling interface {
	LogMessage(ctx context.Context, params LogMessageParams)
}

// NewClientMethodTable builds an rpc.MethodTable dispatching the
// client-role method subset to client.
func NewClientMethodTable(client LanguageClientHandling) *rpc.MethodTable {
	table := rpc.NewMethodTable()
	rpc.RegisterNotification(table, "window/logMessage", client.LogMessage)
	return table
}

// Client wraps an rpc.Endpoint with typed senders for the client-role
// requests/notifications a language server issues back to its client.
type Client struct {
	endpoint *rpc.Endpoint
}

// NewClient wraps endpoint for typed client-role sends.
func NewClient(endpoint *rpc.Endpoint) *Client {
	return &Client{endpoint: endpoint}
}

// LogMessage sends a "window/logMessage" notification.
func (c *Client) LogMessage(ctx context.Context, level MessageType, message string) error {
	return c.endpoint.SendNotification(ctx, "window/logMessage", LogMessageParams{Type: level, Message: message})
}
