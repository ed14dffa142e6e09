package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/msgstore/internal/canon"
	"github.com/roach88/msgstore/internal/msgstore"
)

// TraceJSON serializes the trace of a scenario run as canonical JSON.
//
// The snapshot holds the scenario name, the call token if one was set and,
// per step, the op, its result or error code and its notifications.
// Error messages are left out so golden files only change with behavior.
func TraceJSON(scenario *Scenario, result *Result) ([]byte, error) {
	steps := make([]any, len(result.Steps))
	for i, step := range result.Steps {
		events := make([]any, len(step.Events))
		for j, n := range step.Events {
			events[j] = notificationMap(n)
		}
		entry := map[string]any{
			"op":     step.Op,
			"events": events,
		}
		if step.Error != "" {
			entry["error"] = step.Error
		} else {
			entry["result"] = step.Result
		}
		steps[i] = entry
	}

	snapshot := map[string]any{
		"scenario_name": scenario.Name,
		"steps":         steps,
	}
	if scenario.CallToken != "" {
		snapshot["call_token"] = scenario.CallToken
	}

	data, err := canon.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trace: %w", err)
	}
	return data, nil
}

func notificationMap(n msgstore.Notification) map[string]any {
	m := map[string]any{
		"seq":     n.Seq,
		"call_id": n.CallID,
		"kind":    string(n.Kind),
	}
	switch n.Kind {
	case msgstore.KindStored:
		m["index"] = n.Index
		m["text"] = n.Text
	case msgstore.KindBulkStored:
		m["count"] = n.Count
		m["new_length"] = n.NewLength
	}
	return m
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario could not run or any expect clause,
// assertion or replay check failed. A trace mismatch fails t via goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	traceJSON, err := TraceJSON(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	if !result.Pass {
		return fmt.Errorf("scenario %s failed: %s", scenario.Name, strings.Join(result.Errors, "; "))
	}
	return nil
}
