package lsp

// file: internal/lsp/lifecycle_test.go

import (
	"context"
	"testing"

	"github.com/dkoosis/cowgnition/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_HappyPath(t *testing.T) {
	lc, err := NewLifecycle(logging.GetNoopLogger())
	require.NoError(t, err)

	assert.Equal(t, StateUnconfigured, lc.CurrentState())
	assert.True(t, lc.Allow("initialize"))
	assert.False(t, lc.Allow("textDocument/hover"))

	require.NoError(t, lc.Advance(context.Background(), "initialize"))
	assert.Equal(t, StateInitialized, lc.CurrentState())
	assert.True(t, lc.Allow("textDocument/hover"))
	assert.True(t, lc.Allow("shutdown"))

	require.NoError(t, lc.Advance(context.Background(), "shutdown"))
	assert.Equal(t, StateShuttingDown, lc.CurrentState())
	assert.True(t, lc.Allow("exit"))
	assert.False(t, lc.Allow("textDocument/hover"))

	require.NoError(t, lc.Advance(context.Background(), "exit"))
	assert.Equal(t, StateExited, lc.CurrentState())
}

func TestLifecycle_RejectsInitializeTwice(t *testing.T) {
	lc, err := NewLifecycle(logging.GetNoopLogger())
	require.NoError(t, err)

	require.NoError(t, lc.Advance(context.Background(), "initialize"))
	assert.Error(t, lc.Advance(context.Background(), "initialize"))
	assert.Equal(t, StateInitialized, lc.CurrentState(), "a rejected transition must not change state")
}

func TestLifecycle_ExitAllowedDuringShuttingDownOrInitialized(t *testing.T) {
	lc, err := NewLifecycle(logging.GetNoopLogger())
	require.NoError(t, err)
	require.NoError(t, lc.Advance(context.Background(), "initialize"))

	assert.True(t, lc.Allow("exit"))

	require.NoError(t, lc.Advance(context.Background(), "shutdown"))
	assert.True(t, lc.Allow("exit"))
}
