package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/roach88/msgstore/internal/msgstore"
	"github.com/roach88/msgstore/internal/store"
)

// session is a store restored from the database for one command.
//
// Mutating commands perform a single store call and then commit: the
// notifications queued by that call are applied to the database in one
// transaction.
type session struct {
	db     *store.Store
	store  *msgstore.Store
	queue  *msgstore.Queue
	logger *slog.Logger
}

// openSession opens the configured database and restores its state.
// The store's clock resumes after the last logged seq.
func openSession(ctx context.Context, opts *RootOptions) (*session, error) {
	logger := opts.logger()

	db, err := store.Open(opts.Config.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	message := opts.Config.Message
	if message == "" {
		message = msgstore.DefaultMessage
	}
	if _, err := db.InitMessage(ctx, message); err != nil {
		db.Close()
		return nil, WrapExitError(ExitCommandError, "failed to initialize database", err)
	}

	state, err := db.Load(ctx)
	if err != nil {
		db.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load state", err)
	}

	var tokens msgstore.TokenGenerator = msgstore.UUIDv7Generator{}
	if opts.Tokens != nil {
		tokens = opts.Tokens
	}

	queue := msgstore.NewQueue()
	st, err := msgstore.Restore(state.Snapshot,
		msgstore.WithClock(msgstore.NewClockAt(state.LastSeq)),
		msgstore.WithTokenGenerator(tokens),
		msgstore.WithObserver(queue),
		msgstore.WithLogger(logger),
	)
	if err != nil {
		db.Close()
		return nil, WrapExitError(ExitCommandError, "failed to restore state", err)
	}

	logger.Debug("state loaded",
		"database", opts.Config.Database,
		"length", state.Snapshot.Length,
		"last_seq", state.LastSeq,
	)

	return &session{db: db, store: st, queue: queue, logger: logger}, nil
}

// commit makes the queued notifications durable and returns them.
func (s *session) commit(ctx context.Context) ([]msgstore.Notification, error) {
	events := s.queue.Drain()
	if err := s.db.Commit(ctx, events); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to commit", err)
	}
	s.logger.Debug("call committed", "events", len(events), "call_id", callID(events))
	return events, nil
}

// Close releases the database.
func (s *session) Close() error {
	s.queue.Close()
	return s.db.Close()
}

// callID returns the call ID shared by events, or "" if there are none.
func callID(events []msgstore.Notification) string {
	if len(events) == 0 {
		return ""
	}
	return events[0].CallID
}

// withSession runs fn against a freshly opened session.
func withSession(opts *RootOptions, fn func(ctx context.Context, s *session) error) error {
	ctx := context.Background()
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := fn(ctx, s); err != nil {
		return err
	}
	return nil
}

// parseIndex parses a non-negative slot index argument.
func parseIndex(arg string) (uint64, error) {
	idx, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid index %q", arg))
	}
	return idx, nil
}

// parseIndices parses every argument with parseIndex.
func parseIndices(args []string) ([]uint64, error) {
	indices := make([]uint64, len(args))
	for i, arg := range args {
		idx, err := parseIndex(arg)
		if err != nil {
			return nil, err
		}
		indices[i] = idx
	}
	return indices, nil
}

// parseCount parses a signed count argument. Range checks are left to the
// store so violations report store error codes.
func parseCount(name, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid %s %q", name, arg))
	}
	return n, nil
}
