// file: internal/rpc/pending.go
package rpc

import (
	"encoding/json"
	"sync"
)

// ResponseResult is the outcome delivered to a pending request's waiter:
// either a raw JSON result or a wire Error, mirroring Response's shape
// (spec.md §3).
type ResponseResult struct {
	Result json.RawMessage
	Err    *Error
}

// cancelledError is the sentinel ResponseResult.Err delivered to every pending
// slot when the endpoint shuts down with requests still outstanding
// (spec.md §4.D).
var cancelledError = &Error{Code: rpcerrorsCodeCancelled, Message: "endpoint shut down before a response arrived"}

// rpcerrorsCodeCancelled is a local extension code, not part of the
// standard JSON-RPC table, used only to label futures cancelled by
// shutdown; it never appears on the wire since cancellation happens inside
// this process only.
const rpcerrorsCodeCancelled = -32001

// pendingTable maps outgoing request Ids to the one-shot channel their
// caller is waiting on (spec.md §4.D). Guarded by a single mutex shared with
// the id counter, per spec.md §5: lock hold time is bounded to map
// operations, no callbacks run under the lock.
type pendingTable struct {
	mu      sync.Mutex
	nextId  int64
	entries map[Id]chan ResponseResult
}

func newPendingTable() *pendingTable {
	return &pendingTable{
		nextId:  0,
		entries: make(map[Id]chan ResponseResult),
	}
}

// allocate returns the next monotonically increasing id and registers a
// waiting slot for it in one locked section, so no id can be issued without
// a corresponding pending entry (spec.md §4.F: "allocate next id, insert a
// pending slot").
func (p *pendingTable) allocate() (Id, chan ResponseResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextId++
	id := NumberId(p.nextId)
	ch := make(chan ResponseResult, 1)
	p.entries[id] = ch
	return id, ch
}

// complete delivers result to the waiter for id and removes the entry.
// Reports whether an entry was found.
func (p *pendingTable) complete(id Id, result ResponseResult) bool {
	p.mu.Lock()
	ch, ok := p.entries[id]
	if ok {
		delete(p.entries, id)
	}
	p.mu.Unlock()

	if !ok {
		return false
	}
	ch <- result
	return true
}

// cancelAll delivers the cancellation sentinel to every outstanding slot and
// empties the table (spec.md §4.D, §5: "on endpoint shutdown all pending
// futures resolve to a cancellation error").
func (p *pendingTable) cancelAll() {
	p.mu.Lock()
	remaining := p.entries
	p.entries = make(map[Id]chan ResponseResult)
	p.mu.Unlock()

	for _, ch := range remaining {
		ch <- ResponseResult{Err: cancelledError}
	}
}
