package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/msgstore/internal/msgstore"
	"github.com/roach88/msgstore/internal/store"
	"github.com/roach88/msgstore/internal/testutil"
)

// Harness is the scenario execution engine.
// It runs one scenario against a fresh store with deterministic clock and
// call tokens, committing every step to an in-memory database.
type Harness struct {
	store  *msgstore.Store
	db     *store.Store
	queue  *msgstore.Queue
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Create a fresh in-memory database and store
//  2. Execute steps, committing each step's notifications
//  3. Check each step against its expect clause
//  4. Replay the event log and compare it with the materialized tables
//  5. Evaluate assertions against the final state
//
// Store errors are part of the result. The returned error is reserved for
// malformed step arguments and database failures.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with step and store diagnostics sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	ctx := context.Background()

	db, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer db.Close()

	message := scenario.Message
	if message == "" {
		message = msgstore.DefaultMessage
	}
	if _, err := db.InitMessage(ctx, message); err != nil {
		return nil, err
	}

	queue := msgstore.NewQueue()
	defer queue.Close()

	h := &Harness{
		store: msgstore.New(
			msgstore.WithMessage(message),
			msgstore.WithClock(testutil.NewDeterministicClock()),
			msgstore.WithTokenGenerator(testutil.NewFixedTokens(scenario.CallToken)),
			msgstore.WithObserver(queue),
			msgstore.WithLogger(logger),
		),
		db:     db,
		queue:  queue,
		logger: logger,
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		trace, err := h.executeStep(ctx, i, step)
		if err != nil {
			return nil, err
		}
		result.Steps = append(result.Steps, trace)
		if msg := checkExpect(i, step, trace); msg != "" {
			result.AddError(msg)
		}
	}

	replay, err := db.Replay(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to replay event log: %w", err)
	}
	if !replay.Consistent {
		result.AddError(fmt.Sprintf("replay: %s", replay.Mismatch))
	}

	result.Final = h.store.Snapshot()
	result.Stats = h.store.Stats()

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// executeStep runs one step and commits its notifications.
func (h *Harness) executeStep(ctx context.Context, i int, step Step) (StepTrace, error) {
	trace := StepTrace{Op: step.Op}

	out, err := dispatch(h.store, step.Op, args(step.Args))
	if err != nil {
		code := msgstore.CodeOf(err)
		if code == "" {
			return trace, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
		trace.Error = string(code)
	} else {
		trace.Result = out
	}

	trace.Events = h.queue.Drain()
	if err := h.db.Commit(ctx, trace.Events); err != nil {
		return trace, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
	}

	h.logger.Debug("step completed",
		"step", i,
		"op", step.Op,
		"error", trace.Error,
		"events", len(trace.Events),
	)
	return trace, nil
}
