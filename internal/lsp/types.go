// file: internal/lsp/types.go
package lsp

import "github.com/dkoosis/cowgnition/pkg/uri"

// Empty marks a request or notification with no meaningful payload.
type Empty struct{}

// ClientInfo identifies the connecting client, reported in InitializeParams.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// ServerInfo identifies this server, reported in InitializeResult.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// TextDocumentSyncKind controls whether didOpen/didChange carry full or
// incremental document contents; only Full is implemented.
type TextDocumentSyncKind int

const (
	TextDocumentSyncKindNone TextDocumentSyncKind = 0
	TextDocumentSyncKindFull TextDocumentSyncKind = 1
)

// ServerCapabilities advertises which of the supported methods this server
// implements. Only the subset this binding actually wires is modeled.
type ServerCapabilities struct {
	TextDocumentSync TextDocumentSyncKind `json:"textDocumentSync"`
	HoverProvider    bool                 `json:"hoverProvider"`
}

// InitializeParams is the "initialize" request's parameter object.
type InitializeParams struct {
	ProcessId  *int       `json:"processId,omitempty"`
	RootUri    *string    `json:"rootUri,omitempty"`
	ClientInfo ClientInfo `json:"clientInfo,omitempty"`
}

// InitializeResult is the "initialize" response.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

// InitializedParams is the "initialized" notification's (empty) payload.
type InitializedParams struct{}

// ShutdownResult is the "shutdown" response: always null per the source
// protocol.
type ShutdownResult struct{}

// MarshalJSON encodes ShutdownResult as JSON null.
func (ShutdownResult) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// ExitParams is the "exit" notification's (empty) payload.
type ExitParams struct{}

// TextDocumentItem describes a document's identity and full contents, sent
// once on didOpen.
type TextDocumentItem struct {
	Uri        uri.DocumentURI `json:"uri"`
	LanguageId string          `json:"languageId"`
	Version    int             `json:"version"`
	Text       string          `json:"text"`
}

// DidOpenTextDocumentParams is the "textDocument/didOpen" notification's
// payload.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// TextDocumentIdentifier references a document by uri alone.
type TextDocumentIdentifier struct {
	Uri uri.DocumentURI `json:"uri"`
}

// Position is a zero-based line/character offset into a document.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// TextDocumentPositionParams locates a position within a document,
// the shared shape behind hover, definition, and similar requests.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// HoverParams is the "textDocument/hover" request's payload.
type HoverParams = TextDocumentPositionParams

// MarkupContent is plain or markdown-formatted text.
type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// HoverResult is the "textDocument/hover" response; Contents is always
// emitted, and an empty MarkupContent signals "no hover information
// available."
type HoverResult struct {
	Contents MarkupContent `json:"contents"`
}

// MessageType classifies a window/logMessage notification, matching the
// source protocol's numeric severity levels.
type MessageType int

const (
	MessageTypeError   MessageType = 1
	MessageTypeWarning MessageType = 2
	MessageTypeInfo    MessageType = 3
	MessageTypeLog     MessageType = 4
)

// LogMessageParams is the "window/logMessage" notification's payload, sent
// server-to-client.
type LogMessageParams struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}
