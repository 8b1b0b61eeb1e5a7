package executor

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TaskFunc is the unit of work dispatched once per target. The engine
// passes the target through opaquely; ec carries the per-context state
// set up at pool construction. The function is invoked from a worker
// goroutine and must honor ctx cancellation promptly, since eviction
// relies on it to give the execution context back.
type TaskFunc func(ctx context.Context, ec *Context, target interface{}) (interface{}, error)

// task is one scheduled invocation of the task function against a
// single target. Lifecycle: Pending until the worker goroutine closes
// done (Completed), or until the timeout monitor cancels and discards
// it (Evicted). Submission-time failures never produce a task at all.
type task struct {
	seq         int
	target      interface{}
	submittedAt time.Time

	// done is closed by the worker goroutine after output and err are
	// set. The poller only reads those fields after observing the
	// close, which orders the accesses.
	done   chan struct{}
	output interface{}
	err    error

	duration time.Duration

	// cancel aborts the task's context; used for eviction and for
	// draining after the parent context is cancelled.
	cancel context.CancelFunc

	// mu guards ec. Both the worker goroutine (on return) and the
	// driver (on harvest or eviction) may release the context; the
	// nil-out under the lock makes exactly one of them win.
	mu sync.Mutex
	ec *Context
}

func newTask(seq int, target interface{}, cancel context.CancelFunc) *task {
	return &task{
		seq:         seq,
		target:      target,
		submittedAt: time.Now(),
		done:        make(chan struct{}),
		cancel:      cancel,
	}
}

// completed reports whether the task's handle shows completion,
// without blocking.
func (t *task) completed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// setContext records the acquired execution context so that eviction
// can force-release it while the worker is still running.
func (t *task) setContext(ec *Context) {
	t.mu.Lock()
	t.ec = ec
	t.mu.Unlock()
}

// releaseContext returns the task's execution context to the pool, if
// it still holds one. Safe to call more than once and from the driver
// and worker concurrently.
func (t *task) releaseContext(p *Pool) {
	t.mu.Lock()
	ec := t.ec
	t.ec = nil
	t.mu.Unlock()

	p.Release(ec)
}

// run executes the task body inside a worker goroutine. It blocks on
// pool acquisition (not the submitting caller), runs fn, records the
// outcome and signals completion. The deferred release covers every
// exit path, including cancellation before or after acquisition.
func (t *task) run(ctx context.Context, p *Pool, fn TaskFunc) {
	defer t.releaseContext(p)

	ec, err := p.Acquire(ctx)
	if err != nil {
		// Cancelled while waiting for a context. If the task was
		// evicted it has already left the pending set and this outcome
		// is never read; if the parent context was cancelled the
		// poller harvests it as a faulted completion while draining.
		t.err = fmt.Errorf("task not executed: %w", err)
		close(t.done)
		return
	}
	t.setContext(ec)

	if err := ctx.Err(); err != nil {
		t.err = fmt.Errorf("task not executed: %w", err)
		close(t.done)
		return
	}

	start := time.Now()
	out, err := fn(ctx, ec, t.target)

	t.output = out
	t.err = err
	t.duration = time.Since(start)
	close(t.done)
}
