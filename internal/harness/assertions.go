package harness

import (
	"bytes"
	"fmt"

	"github.com/roach88/msgstore/internal/canon"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s: expected %s, actual %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion against result and returns the
// failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertLength:
		return assertLength(result, a)
	case AssertSlot:
		return assertSlot(result, a)
	case AssertStats:
		return assertStats(result, a)
	case AssertEventCount:
		return assertEventCount(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertLength(result *Result, a Assertion) error {
	if result.Final.Length != *a.Value {
		return &AssertionError{
			Type:     AssertLength,
			Expected: fmt.Sprintf("length %d", *a.Value),
			Actual:   fmt.Sprintf("length %d", result.Final.Length),
		}
	}
	return nil
}

func assertSlot(result *Result, a Assertion) error {
	text, ok := result.Final.Get(*a.Index)
	if !ok {
		return &AssertionError{
			Type:     AssertSlot,
			Expected: fmt.Sprintf("slot %d = %q", *a.Index, *a.Text),
			Actual:   fmt.Sprintf("index beyond length %d", result.Final.Length),
		}
	}
	if text != *a.Text {
		return &AssertionError{
			Type:     AssertSlot,
			Expected: fmt.Sprintf("slot %d = %q", *a.Index, *a.Text),
			Actual:   fmt.Sprintf("%q", text),
		}
	}
	return nil
}

func assertStats(result *Result, a Assertion) error {
	check := func(name string, want *uint64, got uint64) error {
		if want == nil || *want == got {
			return nil
		}
		return &AssertionError{
			Type:     AssertStats,
			Expected: fmt.Sprintf("%s %d", name, *want),
			Actual:   fmt.Sprintf("%s %d", name, got),
		}
	}
	if err := check("total", a.Total, result.Stats.Total); err != nil {
		return err
	}
	if err := check("filled", a.Filled, result.Stats.Filled); err != nil {
		return err
	}
	return check("average_length", a.AverageLength, result.Stats.AverageLength)
}

func assertEventCount(result *Result, a Assertion) error {
	count := 0
	for _, n := range result.Events() {
		if a.Kind == "" || string(n.Kind) == a.Kind {
			count++
		}
	}
	if count != *a.Count {
		what := "notifications"
		if a.Kind != "" {
			what = a.Kind + " notifications"
		}
		return &AssertionError{
			Type:     AssertEventCount,
			Expected: fmt.Sprintf("%d %s", *a.Count, what),
			Actual:   fmt.Sprintf("%d", count),
		}
	}
	return nil
}

// checkExpect compares a step trace with the step's expect clause and
// returns a failure message, or "" if the step behaved as expected.
func checkExpect(i int, step Step, trace StepTrace) string {
	prefix := fmt.Sprintf("steps[%d] (%s)", i, step.Op)

	if step.Expect == nil || step.Expect.Error == "" {
		if trace.Error != "" {
			return fmt.Sprintf("%s: unexpected error %s", prefix, trace.Error)
		}
	}
	if step.Expect == nil {
		return ""
	}

	if step.Expect.Error != "" {
		if trace.Error != step.Expect.Error {
			actual := trace.Error
			if actual == "" {
				actual = "success"
			}
			return fmt.Sprintf("%s: expected error %s, got %s", prefix, step.Expect.Error, actual)
		}
		return ""
	}

	for key, want := range step.Expect.Result {
		got, ok := trace.Result[key]
		if !ok {
			return fmt.Sprintf("%s: result has no field %q", prefix, key)
		}
		if err := matchValue(want, got); err != nil {
			return fmt.Sprintf("%s: result.%s: %v", prefix, key, err)
		}
	}
	return ""
}

// matchValue compares a YAML-decoded expectation with an actual result
// value by their canonical JSON encodings, so 2 matches uint64(2) and
// ["a"] matches []string{"a"}.
func matchValue(want, got any) error {
	wantJSON, err := canon.Marshal(want)
	if err != nil {
		return fmt.Errorf("invalid expectation: %w", err)
	}
	gotJSON, err := canon.Marshal(got)
	if err != nil {
		return err
	}
	if !bytes.Equal(wantJSON, gotJSON) {
		return fmt.Errorf("expected %s, got %s", wantJSON, gotJSON)
	}
	return nil
}
