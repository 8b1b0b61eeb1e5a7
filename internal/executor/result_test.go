package executor

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func sampleResults() []Result {
	return []Result{
		{Target: "a", Output: "out-a", Duration: 100 * time.Millisecond},
		{Target: "b", Err: errors.New("failed b"), Duration: 50 * time.Millisecond},
		{Target: "c", Output: "out-c", Duration: 300 * time.Millisecond},
		{Target: "d", Err: errors.New("failed d"), Duration: 150 * time.Millisecond},
	}
}

func TestOutputs(t *testing.T) {
	outs := Outputs(sampleResults())
	if len(outs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(outs))
	}
	if outs[0] != "out-a" || outs[1] != "out-c" {
		t.Errorf("unexpected outputs: %v", outs)
	}
}

func TestFilterAndCount(t *testing.T) {
	results := sampleResults()

	if got := CountSuccessful(results); got != 2 {
		t.Errorf("expected 2 successful, got %d", got)
	}
	if got := CountFailed(results); got != 2 {
		t.Errorf("expected 2 failed, got %d", got)
	}
	if got := len(FilterSuccessful(results)); got != 2 {
		t.Errorf("expected 2 filtered successful, got %d", got)
	}
	if got := len(FilterFailed(results)); got != 2 {
		t.Errorf("expected 2 filtered failed, got %d", got)
	}
	if !HasErrors(results) {
		t.Error("expected HasErrors to be true")
	}
	if HasErrors(FilterSuccessful(results)) {
		t.Error("expected no errors among successful results")
	}
	if got := len(Errors(results)); got != 2 {
		t.Errorf("expected 2 errors, got %d", got)
	}
}

func TestDurations(t *testing.T) {
	results := sampleResults()

	if got := MaxDuration(results); got != 300*time.Millisecond {
		t.Errorf("expected max 300ms, got %s", got)
	}
	if got := AverageDuration(results); got != 150*time.Millisecond {
		t.Errorf("expected avg 150ms, got %s", got)
	}

	if got := MaxDuration(nil); got != 0 {
		t.Errorf("expected 0 for empty results, got %s", got)
	}
	if got := AverageDuration(nil); got != 0 {
		t.Errorf("expected 0 for empty results, got %s", got)
	}
}

func TestSummarize(t *testing.T) {
	report := &Report{
		Results:   sampleResults(),
		Errors:    []SubmissionError{{Index: 4, Err: errors.New("nil target")}},
		Submitted: 5,
		Evicted:   1,
		Duration:  2 * time.Second,
	}

	s := Summarize(report)
	if s.Submitted != 5 || s.Successful != 2 || s.Failed != 2 || s.Rejected != 1 || s.Evicted != 1 {
		t.Errorf("unexpected summary: %+v", s)
	}

	text := s.String()
	for _, want := range []string{"Submitted: 5", "Successful: 2", "Failed: 2", "Rejected: 1", "Evicted: 1"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary %q missing %q", text, want)
		}
	}
}

func TestSubmissionError(t *testing.T) {
	inner := errors.New("nil target")
	e := SubmissionError{Index: 3, Err: inner}

	if !strings.Contains(e.Error(), "target 3") {
		t.Errorf("unexpected message: %s", e.Error())
	}
	if !errors.Is(e, inner) {
		t.Error("expected Unwrap to expose the inner error")
	}
}
