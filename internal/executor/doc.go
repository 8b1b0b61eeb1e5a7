// Package executor implements the bounded-concurrency dispatch engine:
// one task per target, at most N running at a time, aggregated results
// once every task has finished or been evicted for exceeding its wait
// budget.
//
// # Model
//
// The engine owns a fixed-capacity pool of reusable execution
// contexts. Submitting a task spawns a worker goroutine that queues on
// the pool internally, so the submitting caller never blocks. The
// driving loop itself is single-threaded and cooperative: it scans the
// pending set for completions, hands control to the timeout monitor,
// reports progress and sleeps for the poll interval. Only the task
// bodies run in parallel.
//
// # Basic usage
//
//	eng, err := executor.New(executor.Config{Concurrency: 4})
//	if err != nil {
//	    return err
//	}
//
//	report, err := eng.Run(ctx, targets, func(ctx context.Context, ec *executor.Context, target interface{}) (interface{}, error) {
//	    return doWork(ctx, target)
//	})
//
//	for _, r := range report.Results {
//	    ...
//	}
//
// # Timeout semantics
//
// By default only the oldest pending task is timed (head-of-line): a
// task's wait budget does not start counting until every task
// submitted before it has left the pending set. Tasks behind the head
// can therefore run far longer than the budget in wall-clock terms, as
// long as each prior head completes in time. TimeoutPerTask switches
// to an independent per-task deadline measured from submission.
//
// An evicted task is cancelled, its execution context is reclaimed and
// no output is recorded for it. Eviction is not an error: the target
// simply contributes no result, so the result collection may be
// shorter than the target list.
//
// # Guarantees and non-guarantees
//
//   - At most Concurrency task bodies hold an execution context at any
//     instant, provided task functions honor context cancellation.
//   - Every target is submitted exactly once (or rejected, exactly once).
//   - Run returns only after the pending set is empty.
//   - Result order is unspecified.
//   - No task is ever retried.
//   - Task functions must be safe to run concurrently with each other;
//     the engine cannot verify this.
package executor
