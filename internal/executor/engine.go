package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// Poll interval and wait budget bounds. Wait budgets under
// lowWaitThreshold are accepted but likely to evict tasks prematurely,
// so configuration emits a warning for them.
const (
	MinPollInterval = 1 * time.Millisecond
	MaxPollInterval = 10 * time.Second
	MinWaitBudget   = 1 * time.Second
	MaxWaitBudget   = 24 * time.Hour

	DefaultConcurrency  = 8
	DefaultPollInterval = 200 * time.Millisecond
	DefaultWait         = 60 * time.Second

	lowWaitThreshold = 10 * time.Second
)

// TimeoutMode selects how the timeout monitor applies the wait budget.
type TimeoutMode int

const (
	// TimeoutHeadOfLine times only the oldest pending task. A task's
	// clock starts when it becomes the head of the pending set, so
	// tasks behind the head may wait longer than the budget in
	// wall-clock terms as long as each prior head completes in time.
	// This is the default.
	TimeoutHeadOfLine TimeoutMode = iota

	// TimeoutPerTask gives every task its own deadline measured from
	// submission time. Stricter than head-of-line: a task is evicted
	// as soon as its own elapsed time exceeds the budget, regardless
	// of its position in the pending set.
	TimeoutPerTask
)

func (m TimeoutMode) String() string {
	switch m {
	case TimeoutPerTask:
		return "per-task"
	default:
		return "head-of-line"
	}
}

// Snapshot is the state handed to the progress observer on every poll
// iteration. All counts are point-in-time samples.
type Snapshot struct {
	// Submitted is the number of tasks accepted into the pending set
	Submitted int

	// Pending is the number of tasks not yet in a terminal state
	Pending int

	// Active is the number of execution contexts currently held
	Active int

	// Completed is the number of tasks whose output has been collected
	Completed int

	// Evicted is the number of tasks discarded for exceeding the wait
	// budget
	Evicted int
}

// ProgressFunc observes engine state during the wait loop. It must not
// block for long (it runs on the driving goroutine) and has no
// influence on scheduling. A nil ProgressFunc disables reporting.
type ProgressFunc func(Snapshot)

// Config controls one engine instance.
type Config struct {
	// Concurrency is the execution context pool capacity, [1, 1000]
	Concurrency int

	// PollInterval is the sleep between wait-loop iterations,
	// [1ms, 10s]. It bounds poll overhead but is also the minimum
	// latency for detecting completion or timeout.
	PollInterval time.Duration

	// MaxWait is the wait budget applied by the timeout monitor,
	// [1s, 24h]
	MaxWait time.Duration

	// TimeoutMode selects head-of-line (default) or per-task deadlines.
	TimeoutMode TimeoutMode

	// ContextInit produces per-context initial state (optional).
	ContextInit InitFunc

	// Progress observes the wait loop (optional).
	Progress ProgressFunc

	// Logger for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config populated with the default
// concurrency, poll interval and wait budget. Callers adjust the
// fields they care about and pass the result to New.
func DefaultConfig() Config {
	return Config{
		Concurrency:  DefaultConcurrency,
		PollInterval: DefaultPollInterval,
		MaxWait:      DefaultWait,
	}
}

func (c *Config) validate() error {
	if c.Concurrency < MinConcurrency || c.Concurrency > MaxConcurrency {
		return fmt.Errorf("concurrency %d out of range [%d, %d]", c.Concurrency, MinConcurrency, MaxConcurrency)
	}
	if c.PollInterval < MinPollInterval || c.PollInterval > MaxPollInterval {
		return fmt.Errorf("poll interval %s out of range [%s, %s]", c.PollInterval, MinPollInterval, MaxPollInterval)
	}
	if c.MaxWait < MinWaitBudget || c.MaxWait > MaxWaitBudget {
		return fmt.Errorf("max wait %s out of range [%s, %s]", c.MaxWait, MinWaitBudget, MaxWaitBudget)
	}
	if c.MaxWait < lowWaitThreshold {
		c.Logger.Warn("max wait is very low, tasks may be terminated prematurely", "max_wait", c.MaxWait)
	}
	return nil
}

// Engine dispatches one task per target through a fixed-capacity pool
// of execution contexts and aggregates the outputs. The driving loop
// (submission, polling, timeout enforcement) runs single-threaded on
// the calling goroutine; only the task bodies run in parallel.
type Engine struct {
	cfg     Config
	pool    *Pool
	logger  *slog.Logger
	running atomic.Bool
}

// New validates cfg, constructs the execution context pool (running
// ContextInit once per context) and returns a ready engine. All
// configuration errors are reported here, before anything is
// submitted.
func New(cfg Config) (*Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}

	pool, err := NewPool(cfg.Concurrency, cfg.ContextInit, cfg.Logger)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:    cfg,
		pool:   pool,
		logger: cfg.Logger,
	}, nil
}

// Pool exposes the engine's execution context pool, mainly for
// progress reporting and tests.
func (e *Engine) Pool() *Pool {
	return e.pool
}

// observation tracks the single task currently being timed by the
// head-of-line monitor: which task is at the front of the pending set
// and when it first became the front.
type observation struct {
	seq   int
	since time.Time
}

// Run submits one task per target in list order and waits until every
// task reaches a terminal state, returning the aggregated report.
//
// Submission never blocks: each task's worker goroutine queues on the
// context pool internally. A submission-time failure (nil target) is
// recorded in the report's Errors and does not stop the loop. Errors
// raised by fn itself surface inside individual results; they never
// abort the batch, and the engine never retries.
//
// ctx is inherited by every task body. Cancelling it does not abort
// the wait loop directly; it makes the remaining tasks fail fast, and
// the loop returns once the pending set drains.
func (e *Engine) Run(ctx context.Context, targets []interface{}, fn TaskFunc) (*Report, error) {
	if fn == nil {
		return nil, fmt.Errorf("invalid engine configuration: task function is required")
	}
	if !e.running.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("engine is already running")
	}
	defer e.running.Store(false)

	start := time.Now()
	report := &Report{}

	// Submission loop: one task per target, in list order. The pending
	// set stays ordered by submission sequence and is only ever
	// touched by this goroutine.
	pending := make([]*task, 0, len(targets))
	for i, target := range targets {
		if target == nil {
			err := fmt.Errorf("target %d is nil", i)
			report.Errors = append(report.Errors, SubmissionError{Index: i, Target: target, Err: err})
			e.logger.Debug("task rejected", "index", i, "error", err)
			continue
		}

		taskCtx, cancel := context.WithCancel(ctx)
		t := newTask(i, target, cancel)
		go t.run(taskCtx, e.pool, fn)
		pending = append(pending, t)
	}
	report.Submitted = len(pending)

	e.logger.Info("dispatch started",
		"targets", len(targets),
		"submitted", report.Submitted,
		"rejected", len(report.Errors),
		"concurrency", e.pool.Capacity(),
		"timeout_mode", e.cfg.TimeoutMode.String())

	if len(report.Errors) > 0 {
		// Diagnostic batch only; rejected targets do not block the
		// wait for the rest.
		e.logger.Warn("some targets were rejected at submission", "count", len(report.Errors))
	}

	// Wait loop: harvest completions, enforce the wait budget, sleep.
	var obs *observation
	for len(pending) > 0 {
		pending = e.harvest(pending, report)

		if e.cfg.Progress != nil {
			e.cfg.Progress(Snapshot{
				Submitted: report.Submitted,
				Pending:   len(pending),
				Active:    e.pool.Active(),
				Completed: len(report.Results),
				Evicted:   report.Evicted,
			})
		}

		if len(pending) == 0 {
			break
		}

		pending, obs = e.enforceTimeout(pending, obs, report)
		if len(pending) == 0 {
			break
		}

		time.Sleep(e.cfg.PollInterval)
	}

	report.Duration = time.Since(start)

	e.logger.Info("dispatch completed",
		"results", len(report.Results),
		"rejected", len(report.Errors),
		"evicted", report.Evicted,
		"duration", report.Duration)

	return report, nil
}

// harvest removes every completed task from the pending set,
// retrieving its output and releasing its execution context. Order of
// the remaining tasks is preserved.
func (e *Engine) harvest(pending []*task, report *Report) []*task {
	remaining := pending[:0]
	for _, t := range pending {
		if !t.completed() {
			remaining = append(remaining, t)
			continue
		}

		t.releaseContext(e.pool)
		report.Results = append(report.Results, Result{
			Target:   t.target,
			Output:   t.output,
			Err:      t.err,
			Duration: t.duration,
		})

		e.logger.Debug("task completed",
			"seq", t.seq,
			"success", t.err == nil,
			"duration", t.duration)
	}
	return remaining
}

// enforceTimeout applies the configured wait budget to the pending set
// and returns the updated set and observation record.
func (e *Engine) enforceTimeout(pending []*task, obs *observation, report *Report) ([]*task, *observation) {
	now := time.Now()

	if e.cfg.TimeoutMode == TimeoutPerTask {
		remaining := pending[:0]
		for _, t := range pending {
			if now.Sub(t.submittedAt) > e.cfg.MaxWait {
				e.evict(t, report, now.Sub(t.submittedAt))
				continue
			}
			remaining = append(remaining, t)
		}
		return remaining, nil
	}

	// Head-of-line: only the oldest pending task is ever being timed.
	// The clock restarts whenever the head changes identity, and a
	// task is never evicted on the same iteration it became head.
	head := pending[0]
	if obs == nil || obs.seq != head.seq {
		return pending, &observation{seq: head.seq, since: now}
	}

	if elapsed := now.Sub(obs.since); elapsed > e.cfg.MaxWait {
		e.evict(head, report, elapsed)
		return pending[1:], nil
	}

	return pending, obs
}

// evict forcibly terminates a task that exceeded its wait budget. Its
// execution context is released without retrieving output, so the task
// contributes no entry to the results.
func (e *Engine) evict(t *task, report *Report, waited time.Duration) {
	t.cancel()
	t.releaseContext(e.pool)
	report.Evicted++

	e.logger.Warn("task evicted after exceeding wait budget",
		"seq", t.seq,
		"waited", waited,
		"max_wait", e.cfg.MaxWait)
}
