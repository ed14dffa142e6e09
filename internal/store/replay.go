package store

import (
	"context"
	"fmt"

	"github.com/roach88/msgstore/internal/msgstore"
)

// replayBatchSize bounds how many events are held in memory per read.
const replayBatchSize = 500

// ReplayResult reports a rebuild of state from the event log.
type ReplayResult struct {
	Events int    `json:"events"`
	Calls  int    `json:"calls"`
	Length uint64 `json:"length"`
	Filled int    `json:"filled"`

	// Consistent is true when the rebuilt state equals the materialized
	// slots and length tables.
	Consistent bool `json:"consistent"`

	// Mismatch describes the first difference when Consistent is false.
	Mismatch string `json:"mismatch,omitempty"`
}

// Replay rebuilds state by folding every logged notification, in seq order,
// through msgstore.Snapshot.Apply and compares it with the materialized
// tables.
//
// A log that contradicts itself (a bulk_stored length that the preceding
// writes do not produce) is reported as an error.
func (s *Store) Replay(ctx context.Context) (ReplayResult, error) {
	var rebuilt msgstore.Snapshot
	var result ReplayResult
	calls := make(map[string]bool)

	var after int64
	for {
		batch, err := s.ReadEvents(ctx, after, replayBatchSize)
		if err != nil {
			return result, fmt.Errorf("replay: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		for _, n := range batch {
			if err := rebuilt.Apply(n); err != nil {
				return result, fmt.Errorf("replay: %w", err)
			}
			calls[n.CallID] = true
			after = n.Seq
		}
		result.Events += len(batch)
	}

	state, err := s.Load(ctx)
	if err != nil {
		return result, fmt.Errorf("replay: %w", err)
	}

	result.Calls = len(calls)
	result.Length = rebuilt.Length
	result.Filled = len(rebuilt.Slots)
	result.Mismatch = diffSnapshots(rebuilt, state.Snapshot)
	result.Consistent = result.Mismatch == ""

	return result, nil
}

// diffSnapshots describes the first difference between replayed and
// materialized state, or returns "".
func diffSnapshots(replayed, stored msgstore.Snapshot) string {
	if replayed.Length != stored.Length {
		return fmt.Sprintf("length: replayed %d, stored %d", replayed.Length, stored.Length)
	}
	for idx, text := range replayed.Slots {
		if got, ok := stored.Slots[idx]; !ok || got != text {
			return fmt.Sprintf("slot %d: replayed %q, stored %q", idx, text, got)
		}
	}
	for idx, text := range stored.Slots {
		if _, ok := replayed.Slots[idx]; !ok {
			return fmt.Sprintf("slot %d: replayed %q, stored %q", idx, "", text)
		}
	}
	return ""
}
