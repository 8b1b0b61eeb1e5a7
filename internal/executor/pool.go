package executor

import (
	"context"
	"fmt"
	"log/slog"
)

// Pool capacity must stay within these bounds. The upper bound guards
// against configurations that would create an absurd number of
// execution contexts for what is fundamentally a per-host fan-out tool.
const (
	MinConcurrency = 1
	MaxConcurrency = 1000
)

// InitFunc produces the initial state for one execution context.
// It is called once per context at pool construction time, so any
// expensive setup (module scanning, template cloning) happens before
// the first task is submitted.
type InitFunc func() (interface{}, error)

// Context is one reusable isolated execution context. At most one task
// runs inside a context at a time; the pool hands contexts out and
// takes them back as tasks reach a terminal state.
type Context struct {
	// ID identifies the context within its pool (0..capacity-1)
	ID int

	// State is the per-context initial state produced by the pool's
	// InitFunc. Tasks must treat it as read-only.
	State interface{}
}

// Pool is a fixed-capacity set of execution contexts. The capacity is
// the hard upper bound on how many tasks run simultaneously: a task's
// worker goroutine blocks on Acquire until a context is free, so the
// caller driving submission never blocks.
type Pool struct {
	capacity int
	contexts chan *Context
	logger   *slog.Logger
}

// NewPool creates a pool with the given capacity, initializing every
// context's state through init (which may be nil for stateless use).
// Capacity outside [MinConcurrency, MaxConcurrency] is a fatal
// configuration error, as is any init failure.
func NewPool(capacity int, init InitFunc, logger *slog.Logger) (*Pool, error) {
	if capacity < MinConcurrency || capacity > MaxConcurrency {
		return nil, fmt.Errorf("pool capacity %d out of range [%d, %d]", capacity, MinConcurrency, MaxConcurrency)
	}

	if logger == nil {
		logger = slog.Default()
	}

	p := &Pool{
		capacity: capacity,
		contexts: make(chan *Context, capacity),
		logger:   logger,
	}

	for i := 0; i < capacity; i++ {
		ec := &Context{ID: i}
		if init != nil {
			state, err := init()
			if err != nil {
				return nil, fmt.Errorf("failed to initialize execution context %d: %w", i, err)
			}
			ec.State = state
		}
		p.contexts <- ec
	}

	p.logger.Debug("execution context pool created", "capacity", capacity)

	return p, nil
}

// Acquire blocks until a context is free or ctx is cancelled. It is
// called from task worker goroutines, never from the driving loop.
func (p *Pool) Acquire(ctx context.Context) (*Context, error) {
	select {
	case ec := <-p.contexts:
		return ec, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a context to the pool, making it eligible for reuse
// by the next waiting task.
func (p *Pool) Release(ec *Context) {
	if ec == nil {
		return
	}
	p.contexts <- ec
}

// Capacity returns the fixed number of contexts in the pool.
func (p *Pool) Capacity() int {
	return p.capacity
}

// Available returns the number of contexts currently idle. The value
// is a sample and may be stale by the time it is read; it exists for
// progress reporting only.
func (p *Pool) Available() int {
	return len(p.contexts)
}

// Active returns the number of contexts currently held by tasks.
// Like Available, this is a point-in-time sample.
func (p *Pool) Active() int {
	return p.capacity - len(p.contexts)
}
