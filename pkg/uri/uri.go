// Package uri provides URI parsing and manipulation utilities for
// document identifiers exchanged over the LSP binding
// (textDocument/didOpen, textDocument/hover, and friends all key off a
// DocumentURI rather than a filesystem path).
package uri

import (
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// DocumentURI is the wire type LSP uses for a text document identifier —
// almost always a "file://" URI, though the spec leaves the scheme open so
// a client can identify untitled buffers or virtual documents.
type DocumentURI string

// Parse validates raw as a URI and returns it as a DocumentURI. A
// DocumentURI must have a non-empty scheme; "tasks" or "just/a/path"
// without a scheme are rejected with a caller-facing error naming what was
// wrong, not a bare parse failure. A Windows path such as "c:\foo" parses
// with scheme "c" and is accepted.
func Parse(raw string) (DocumentURI, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("uri: invalid document URI %q: %w", raw, err)
	}
	if parsed.Scheme == "" {
		return "", fmt.Errorf("uri: document URI %q has no scheme", raw)
	}
	return DocumentURI(raw), nil
}

// Scheme returns the URI's scheme ("file", "untitled", ...).
func (u DocumentURI) Scheme() (string, error) {
	parsed, err := url.Parse(string(u))
	if err != nil {
		return "", fmt.Errorf("uri: invalid document URI %q: %w", u, err)
	}
	return parsed.Scheme, nil
}

// Filename converts a "file://" DocumentURI to a native filesystem path.
// Returns an error if the scheme is not "file".
func (u DocumentURI) Filename() (string, error) {
	parsed, err := url.Parse(string(u))
	if err != nil {
		return "", fmt.Errorf("uri: invalid document URI %q: %w", u, err)
	}
	if parsed.Scheme != "file" {
		return "", fmt.Errorf("uri: %q is not a file URI (scheme %q)", u, parsed.Scheme)
	}
	path := parsed.Path
	if runtime.GOOS == "windows" {
		path = strings.TrimPrefix(path, "/")
	}
	return filepath.FromSlash(path), nil
}

// FromFilename builds a "file://" DocumentURI from a native filesystem
// path, the inverse of Filename.
func FromFilename(path string) DocumentURI {
	slashed := filepath.ToSlash(path)
	if runtime.GOOS == "windows" && !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return DocumentURI(u.String())
}

// String returns the raw URI string.
func (u DocumentURI) String() string { return string(u) }
