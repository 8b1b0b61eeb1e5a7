package util

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTargetError(t *testing.T) {
	inner := errors.New("connection refused")
	err := WrapTargetError("host-1", inner)

	if !strings.Contains(err.Error(), "host-1") {
		t.Errorf("expected message to contain target, got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected wrapped error to match with errors.Is")
	}

	var te *TargetError
	if !errors.As(err, &te) {
		t.Fatal("expected errors.As to find TargetError")
	}
	if te.Target != "host-1" {
		t.Errorf("expected target host-1, got %q", te.Target)
	}

	if WrapTargetError("host-1", nil) != nil {
		t.Error("expected nil for nil inner error")
	}
}

func TestMultiError(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		m := &MultiError{}
		if m.ErrorOrNil() != nil {
			t.Error("expected nil for empty multi-error")
		}
	})

	t.Run("single", func(t *testing.T) {
		m := &MultiError{}
		m.Add(errors.New("only one"))
		if m.Error() != "only one" {
			t.Errorf("expected single error passthrough, got %q", m.Error())
		}
	})

	t.Run("multiple", func(t *testing.T) {
		m := &MultiError{}
		m.Add(errors.New("first"))
		m.Add(nil)
		m.Add(errors.New("second"))

		if len(m.Errors) != 2 {
			t.Fatalf("expected 2 errors (nil filtered), got %d", len(m.Errors))
		}
		msg := m.Error()
		if !strings.Contains(msg, "2 errors occurred") {
			t.Errorf("expected count header, got %q", msg)
		}
		if !strings.Contains(msg, "first") || !strings.Contains(msg, "second") {
			t.Errorf("expected both errors listed, got %q", msg)
		}
	})

	t.Run("truncation", func(t *testing.T) {
		m := &MultiError{}
		for i := 0; i < 15; i++ {
			m.Add(fmt.Errorf("error %d", i))
		}
		if !strings.Contains(m.Error(), "and 5 more errors") {
			t.Errorf("expected truncation note, got %q", m.Error())
		}
	})

	t.Run("errors.Is through Unwrap", func(t *testing.T) {
		inner := errors.New("inner")
		m := NewMultiError([]error{errors.New("other"), inner})
		if !errors.Is(m, inner) {
			t.Error("expected errors.Is to traverse aggregated errors")
		}
	})
}

func TestCombineErrors(t *testing.T) {
	if CombineErrors(nil, nil) != nil {
		t.Error("expected nil for all-nil input")
	}

	err := CombineErrors(nil, errors.New("a"), errors.New("b"))
	if err == nil {
		t.Fatal("expected combined error")
	}
	var m *MultiError
	if !errors.As(err, &m) || len(m.Errors) != 2 {
		t.Errorf("expected MultiError with 2 entries, got %v", err)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("throttle", 1001, "out of range")
	if !strings.Contains(err.Error(), "throttle") || !strings.Contains(err.Error(), "1001") {
		t.Errorf("unexpected message: %q", err.Error())
	}

	err = NewValidationError("script", nil, "required")
	if strings.Contains(err.Error(), "value") {
		t.Errorf("expected no value clause for nil value: %q", err.Error())
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"timeout", fmt.Errorf("wrapped: %w", ErrTimeout), IsTimeout},
		{"cancelled", fmt.Errorf("wrapped: %w", ErrCancelled), IsCancelled},
		{"command not found", fmt.Errorf("wrapped: %w", ErrCommandNotFound), IsNotFound},
		{"script not found", fmt.Errorf("wrapped: %w", ErrScriptNotFound), IsNotFound},
		{"module not found", fmt.Errorf("wrapped: %w", ErrModuleNotFound), IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("expected %v to be classified", tt.err)
			}
			if tt.check(errors.New("unrelated")) {
				t.Error("unrelated error misclassified")
			}
		})
	}
}

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"nil", nil, ""},
		{"timeout", ErrTimeout, "wait budget"},
		{"command not found", ErrCommandNotFound, "fanout commands list"},
		{"script not found", ErrScriptNotFound, "--script"},
		{"no targets", ErrNoTargets, "--targets-file"},
		{"invalid config", ErrInvalidConfig, "config"},
		{"unknown", errors.New("something odd"), "something odd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FriendlyError(tt.err)
			if tt.contains == "" {
				if got != "" {
					t.Errorf("expected empty message, got %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("expected %q to contain %q", got, tt.contains)
			}
		})
	}
}

func TestWrapErrorf(t *testing.T) {
	inner := errors.New("inner")
	err := WrapErrorf(inner, "processing %s", "host-1")
	if !strings.Contains(err.Error(), "processing host-1") || !errors.Is(err, inner) {
		t.Errorf("unexpected wrap result: %v", err)
	}

	if WrapErrorf(nil, "anything") != nil {
		t.Error("expected nil for nil inner error")
	}
}
