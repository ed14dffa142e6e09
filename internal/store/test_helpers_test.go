package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/msgstore/internal/msgstore"
	"github.com/roach88/msgstore/internal/testutil"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// recordCalls runs fn against a fresh in-memory message store and returns
// the notifications it emitted.
func recordCalls(t *testing.T, fn func(ms *msgstore.Store)) []msgstore.Notification {
	t.Helper()
	q := msgstore.NewQueue()
	ms := msgstore.New(
		msgstore.WithObserver(q),
		msgstore.WithTokenGenerator(testutil.NewFixedTokens("call-1", "call-2", "call-3", "call-4")),
	)
	fn(ms)
	return q.Drain()
}
