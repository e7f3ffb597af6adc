// file: internal/rpc/writer_worker.go
package rpc

import (
	"context"
	"sync"

	"github.com/dkoosis/cowgnition/internal/logging"
)

// writeTask is a unit of work given exclusive, temporary access to the
// MessageWriter. Modeled as an owned-goroutine actor consuming a task
// channel rather than a shared Mutex<Writer>, per spec.md §9 Design Notes
// and grounded on the teacher's single-writer discipline
// (internal/jsonrpc/stdio_transport.go's writeMu, generalized here to an
// actor so response emission and outbound requests share one serialization
// point without the call site knowing about the others).
type writeTask func(ctx context.Context, w MessageWriter) error

// outputWorker owns a MessageWriter and serializes every outbound frame
// through a single goroutine (spec.md §4.C).
type outputWorker struct {
	writer MessageWriter
	logger logging.Logger

	tasks chan writeTask
	done  chan struct{}

	closeOnce sync.Once
	closed    chan struct{}
}

// newOutputWorker starts the worker goroutine immediately.
func newOutputWorker(writer MessageWriter, logger logging.Logger) *outputWorker {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	w := &outputWorker{
		writer: writer,
		logger: logger.WithField("component", "output_worker"),
		tasks:  make(chan writeTask, 64),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *outputWorker) run() {
	defer close(w.done)
	ctx := context.Background()
	for {
		select {
		case task := <-w.tasks:
			w.runTask(ctx, task)
		case <-w.closed:
			// Drain whatever is already buffered before exiting so a task
			// submitted just before shutdown still reaches the writer; the
			// tasks channel itself is never closed (submit may still be
			// racing us to send into it), so this drain uses a non-blocking
			// default case rather than range-until-closed.
			for {
				select {
				case task := <-w.tasks:
					w.runTask(ctx, task)
				default:
					return
				}
			}
		}
	}
}

func (w *outputWorker) runTask(ctx context.Context, task writeTask) {
	// Failure policy (spec.md §4.C): log and continue; a single bad write
	// never kills the worker.
	if err := task(ctx, w.writer); err != nil {
		w.logger.Error("write task failed", "error", err)
	}
}

// ErrWorkerShutdown is returned by submit once the worker has been told to
// shut down (spec.md §4.C).
var ErrWorkerShutdown = &FramingError{Reason: "output worker is shut down"}

// submit enqueues task. Non-blocking up to the channel's buffer
// (spec.md §4.C allows an implementation-defined bound); once the buffer is
// full this blocks the caller briefly, which is acceptable since the buffer
// is sized generously for typical request bursts.
func (w *outputWorker) submit(task writeTask) error {
	select {
	case <-w.closed:
		return ErrWorkerShutdown
	default:
	}
	select {
	case w.tasks <- task:
		return nil
	case <-w.closed:
		return ErrWorkerShutdown
	}
}

// shutdown signals the worker to drain and stop, then joins it. Idempotent.
// Only w.closed is closed here — never w.tasks, since submit may still be
// concurrently sending on it; closing a channel senders use would panic
// them (spec.md §4.C: "submissions fail with a recoverable error ... does
// not panic from within other threads").
func (w *outputWorker) shutdown() {
	w.closeOnce.Do(func() {
		close(w.closed)
	})
	<-w.done
}
