package executor

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

// Result is the outcome of one completed task. Evicted tasks never
// produce a Result; rejected targets are reported as SubmissionErrors
// instead.
type Result struct {
	// Target is the item this task was dispatched against
	Target interface{}

	// Output is the value returned by the task function (nil on error)
	Output interface{}

	// Err is the error raised inside the task body, if any. It applies
	// to this task only and never aborts the batch.
	Err error

	// Duration is how long the task body ran
	Duration time.Duration
}

// SubmissionError records a target whose task could not be created.
// Surfaced as a diagnostic, not an exception: the remaining targets
// are still dispatched.
type SubmissionError struct {
	Index  int
	Target interface{}
	Err    error
}

func (e SubmissionError) Error() string {
	return fmt.Sprintf("target %d: %v", e.Index, e.Err)
}

func (e SubmissionError) Unwrap() error {
	return e.Err
}

// Report is the aggregated outcome of one Run invocation. Results are
// in completion-detection order, which carries no relation to
// submission order; callers must not assume a 1:1 correspondence
// between targets and results.
type Report struct {
	// Results holds one entry per completed task, faulted or not
	Results []Result

	// Errors holds one entry per rejected target
	Errors []SubmissionError

	// Submitted is the number of tasks that entered the pending set
	Submitted int

	// Evicted is the number of tasks discarded by the timeout monitor
	Evicted int

	// Duration is the wall-clock time of the whole invocation
	Duration time.Duration
}

// Outputs returns the output values of all successful results.
func Outputs(results []Result) []interface{} {
	return lo.FilterMap(results, func(r Result, _ int) (interface{}, bool) {
		return r.Output, r.Err == nil
	})
}

// FilterSuccessful returns only the results without an error.
func FilterSuccessful(results []Result) []Result {
	return lo.Filter(results, func(r Result, _ int) bool {
		return r.Err == nil
	})
}

// FilterFailed returns only the results carrying an error.
func FilterFailed(results []Result) []Result {
	return lo.Filter(results, func(r Result, _ int) bool {
		return r.Err != nil
	})
}

// CountSuccessful returns the number of results without an error.
func CountSuccessful(results []Result) int {
	return lo.CountBy(results, func(r Result) bool {
		return r.Err == nil
	})
}

// CountFailed returns the number of results carrying an error.
func CountFailed(results []Result) int {
	return lo.CountBy(results, func(r Result) bool {
		return r.Err != nil
	})
}

// Errors extracts the errors from all failed results.
func Errors(results []Result) []error {
	return lo.FilterMap(results, func(r Result, _ int) (error, bool) {
		return r.Err, r.Err != nil
	})
}

// HasErrors reports whether any result carries an error.
func HasErrors(results []Result) bool {
	return lo.SomeBy(results, func(r Result) bool {
		return r.Err != nil
	})
}

// MaxDuration returns the longest task duration among the results.
func MaxDuration(results []Result) time.Duration {
	if len(results) == 0 {
		return 0
	}
	return lo.MaxBy(results, func(a, b Result) bool {
		return a.Duration > b.Duration
	}).Duration
}

// AverageDuration returns the mean task duration among the results.
func AverageDuration(results []Result) time.Duration {
	if len(results) == 0 {
		return 0
	}
	total := lo.SumBy(results, func(r Result) time.Duration {
		return r.Duration
	})
	return total / time.Duration(len(results))
}

// Summary condenses a report for display.
type Summary struct {
	Submitted   int
	Successful  int
	Failed      int
	Rejected    int
	Evicted     int
	AvgDuration time.Duration
	MaxDuration time.Duration
	Duration    time.Duration
}

// Summarize builds a Summary from a report.
func Summarize(report *Report) Summary {
	return Summary{
		Submitted:   report.Submitted,
		Successful:  CountSuccessful(report.Results),
		Failed:      CountFailed(report.Results),
		Rejected:    len(report.Errors),
		Evicted:     report.Evicted,
		AvgDuration: AverageDuration(report.Results),
		MaxDuration: MaxDuration(report.Results),
		Duration:    report.Duration,
	}
}

// String returns a one-line human-readable form of the summary.
func (s Summary) String() string {
	out := fmt.Sprintf("Submitted: %d, Successful: %d, Failed: %d", s.Submitted, s.Successful, s.Failed)
	if s.Rejected > 0 {
		out += fmt.Sprintf(", Rejected: %d", s.Rejected)
	}
	if s.Evicted > 0 {
		out += fmt.Sprintf(", Evicted: %d", s.Evicted)
	}
	if s.Successful+s.Failed > 0 {
		out += fmt.Sprintf(", Avg: %s, Max: %s",
			s.AvgDuration.Round(time.Millisecond),
			s.MaxDuration.Round(time.Millisecond))
	}
	return out
}
