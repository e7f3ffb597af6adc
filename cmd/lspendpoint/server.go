// file: cmd/lspendpoint/server.go
package main

import (
	"context"
	"strconv"
	"sync"

	"github.com/dkoosis/cowgnition/internal/lsp"
	"github.com/dkoosis/cowgnition/internal/rpcerrors"
	"github.com/dkoosis/cowgnition/pkg/uri"
)

// demoServer is a minimal internal/lsp.LanguageServerHandling implementation:
// enough state (an in-memory document store, a lifecycle gate) to exercise
// every wired method end to end without pulling in a real language toolchain.
type demoServer struct {
	mu        sync.Mutex
	documents map[uri.DocumentURI]string

	lifecycle *lsp.Lifecycle
	client    *lsp.Client
}

func newDemoServer(lifecycle *lsp.Lifecycle) *demoServer {
	return &demoServer{
		documents: make(map[uri.DocumentURI]string),
		lifecycle: lifecycle,
	}
}

// setClient wires the server→client sender after the endpoint it depends on
// has been constructed around this server's own method table; called once,
// before the endpoint's read loop starts.
func (s *demoServer) setClient(client *lsp.Client) {
	s.client = client
}

func (s *demoServer) Initialize(ctx context.Context, params lsp.InitializeParams) (lsp.InitializeResult, error) {
	if err := s.lifecycle.Advance(ctx, "initialize"); err != nil {
		return lsp.InitializeResult{}, rpcerrors.Wrap(err, "initialize rejected by lifecycle")
	}
	return lsp.InitializeResult{
		ServerInfo: lsp.ServerInfo{Name: "lspendpoint", Version: version},
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: lsp.TextDocumentSyncKindFull,
			HoverProvider:    true,
		},
	}, nil
}

func (s *demoServer) Initialized(ctx context.Context, _ lsp.InitializedParams) {
	if s.client != nil {
		_ = s.client.LogMessage(ctx, lsp.MessageTypeInfo, "lspendpoint ready")
	}
}

func (s *demoServer) Shutdown(ctx context.Context) (lsp.ShutdownResult, error) {
	if err := s.lifecycle.Advance(ctx, "shutdown"); err != nil {
		return lsp.ShutdownResult{}, rpcerrors.Wrap(err, "shutdown rejected by lifecycle")
	}
	return lsp.ShutdownResult{}, nil
}

func (s *demoServer) Exit(ctx context.Context) {
	_ = s.lifecycle.Advance(ctx, "exit")
}

func (s *demoServer) DidOpen(_ context.Context, params lsp.DidOpenTextDocumentParams) {
	s.mu.Lock()
	s.documents[params.TextDocument.Uri] = params.TextDocument.Text
	s.mu.Unlock()
}

func (s *demoServer) Hover(_ context.Context, params lsp.HoverParams) (lsp.HoverResult, error) {
	s.mu.Lock()
	text, ok := s.documents[params.TextDocument.Uri]
	s.mu.Unlock()
	if !ok {
		return lsp.HoverResult{}, nil
	}
	return lsp.HoverResult{
		Contents: lsp.MarkupContent{Kind: "plaintext", Value: summarizeHover(text, params.Position)},
	}, nil
}

// summarizeHover reports the document's line count and the requested line
// number; there is no real language analysis behind this binding.
func summarizeHover(text string, pos lsp.Position) string {
	lines := 1
	for _, r := range text {
		if r == '\n' {
			lines++
		}
	}
	return "document has " + strconv.Itoa(lines) + " line(s); hover requested at line " + strconv.Itoa(pos.Line)
}
