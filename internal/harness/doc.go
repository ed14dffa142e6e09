// Package harness runs YAML scenarios against the message store.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	call_token: call-fixed-001
//	steps:
//	  - op: bulk_store_at
//	    args: { indices: [3], texts: ["d"] }
//	    expect:
//	      result: { count: 1, new_length: 4 }
//	  - op: bulk_retrieve
//	    args: { indices: [9] }
//	    expect:
//	      error: INDEX_OUT_OF_BOUNDS
//	assertions:
//	  - type: length
//	    value: 4
//	  - type: slot
//	    index: 3
//	    text: d
//
// # Assertion Types
//
//   - length: the final store length equals value
//   - slot: the final text at index equals text
//   - stats: total, filled and average_length of the final store
//   - event_count: the number of notifications (optionally of one kind)
//
// # Deterministic Testing
//
// Every scenario runs on a fresh store with:
//   - A fixed call token (scenario.call_token, or "test-call-default")
//   - A deterministic logical clock (testutil.DeterministicClock)
//   - An in-memory SQLite database that commits each step's notifications
//
// After the last step the event log is replayed and compared with the
// materialized tables. Traces are serialized as canonical JSON so golden
// files compare byte for byte.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/sparse_store.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, e := range result.Errors {
//	    log.Println(e)
//	}
package harness
