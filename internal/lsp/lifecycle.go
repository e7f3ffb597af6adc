// Package lsp implements a thin Language Server Protocol binding on top of
// internal/rpc's JSON-RPC endpoint: a method-name adapter for the lifecycle
// and document-sync subset, and an optional lifecycle state machine an
// application can opt into to enforce method ordering.
// file: internal/lsp/lifecycle.go
package lsp

import (
	"context"

	"github.com/dkoosis/cowgnition/internal/fsm"
	"github.com/dkoosis/cowgnition/internal/logging"
)

// Lifecycle states, grounded on the source protocol's state diagram and on
// the teacher's internal/mcp/connection_state.go sequencing, but built on
// internal/fsm instead of a hand-rolled mutex-guarded string.
const (
	StateUnconfigured fsm.State = "unconfigured"
	StateInitialized  fsm.State = "initialized"
	StateShuttingDown fsm.State = "shuttingDown"
	StateExited       fsm.State = "exited"
)

// Lifecycle events, one per method that drives a transition.
const (
	EventInitialize fsm.Event = "initialize"
	EventShutdown   fsm.Event = "shutdown"
	EventExit       fsm.Event = "exit"
)

// Lifecycle wraps internal/fsm's generic machine with the four states LSP
// sessions move through. Core dispatch (Endpoint/MethodTable) never
// consults this type — it exists for applications that want method-order
// enforcement without baking it into the dispatcher.
type Lifecycle struct {
	machine fsm.FSM
}

// NewLifecycle builds and returns a Lifecycle starting in Unconfigured.
func NewLifecycle(logger logging.Logger) (*Lifecycle, error) {
	builder := fsm.NewFSM(StateUnconfigured, logger)
	builder.
		AddTransition(fsm.Transition{From: []fsm.State{StateUnconfigured}, Event: EventInitialize, To: StateInitialized}).
		AddTransition(fsm.Transition{From: []fsm.State{StateInitialized}, Event: EventShutdown, To: StateShuttingDown}).
		AddTransition(fsm.Transition{From: []fsm.State{StateInitialized, StateShuttingDown}, Event: EventExit, To: StateExited})

	if err := builder.Build(); err != nil {
		return nil, err
	}
	return &Lifecycle{machine: builder}, nil
}

// CurrentState returns the session's current lifecycle state.
func (l *Lifecycle) CurrentState() fsm.State { return l.machine.CurrentState() }

// Allow reports whether method is permitted in the current state. Every
// method not named here (the document-sync and general request set) is
// allowed only once initialization has completed, mirroring the source
// protocol's "general requests must follow initialize" rule.
func (l *Lifecycle) Allow(method string) bool {
	switch method {
	case "initialize":
		return l.CurrentState() == StateUnconfigured
	case "initialized":
		return l.CurrentState() == StateInitialized
	case "shutdown":
		return l.CurrentState() == StateInitialized
	case "exit":
		state := l.CurrentState()
		return state == StateInitialized || state == StateShuttingDown
	default:
		return l.CurrentState() == StateInitialized
	}
}

// Advance drives the lifecycle machine's event for method, if method
// corresponds to one (initialize/shutdown/exit); other methods are no-ops
// here since they don't change lifecycle state.
func (l *Lifecycle) Advance(ctx context.Context, method string) error {
	switch method {
	case "initialize":
		return l.machine.Transition(ctx, EventInitialize, nil)
	case "shutdown":
		return l.machine.Transition(ctx, EventShutdown, nil)
	case "exit":
		return l.machine.Transition(ctx, EventExit, nil)
	default:
		return nil
	}
}
