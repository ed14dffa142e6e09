package store

import (
	"context"
	"strings"
	"testing"

	"github.com/roach88/msgstore/internal/msgstore"
)

func TestReplay_Consistent(t *testing.T) {
	s := createTestStore(t)
	commitSample(t, s)

	result, err := s.Replay(context.Background())
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if !result.Consistent {
		t.Errorf("Consistent = false, mismatch: %s", result.Mismatch)
	}
	if result.Events != 5 {
		t.Errorf("Events = %d, want 5", result.Events)
	}
	if result.Calls != 3 {
		t.Errorf("Calls = %d, want 3", result.Calls)
	}
	if result.Length != 3 {
		t.Errorf("Length = %d, want 3", result.Length)
	}
	if result.Filled != 2 {
		t.Errorf("Filled = %d, want 2", result.Filled)
	}
}

func TestReplay_EmptyLog(t *testing.T) {
	s := createTestStore(t)

	result, err := s.Replay(context.Background())
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if !result.Consistent || result.Events != 0 {
		t.Errorf("Replay() = %+v, want consistent and empty", result)
	}
}

func TestReplay_DetectsTamperedSlot(t *testing.T) {
	s := createTestStore(t)
	commitSample(t, s)

	if _, err := s.db.Exec(`UPDATE slots SET text = 'tampered' WHERE idx = 1`); err != nil {
		t.Fatalf("tamper: %v", err)
	}

	result, err := s.Replay(context.Background())
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if result.Consistent {
		t.Fatal("Consistent = true, want false")
	}
	if !strings.Contains(result.Mismatch, "slot 1") {
		t.Errorf("Mismatch = %q, want slot 1", result.Mismatch)
	}
}

func TestReplay_DetectsLengthDrift(t *testing.T) {
	s := createTestStore(t)
	commitSample(t, s)

	if _, err := s.db.Exec(`UPDATE meta SET value = '9' WHERE key = 'length'`); err != nil {
		t.Fatalf("tamper: %v", err)
	}

	result, err := s.Replay(context.Background())
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if result.Consistent {
		t.Error("Consistent = true, want false")
	}
}

func TestReplay_BrokenLog(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	events := []msgstore.Notification{
		{Seq: 1, CallID: "c", Kind: msgstore.KindStored, Index: 0, Text: "a"},
		{Seq: 2, CallID: "c", Kind: msgstore.KindBulkStored, Count: 1, NewLength: 4},
	}
	if err := s.Commit(ctx, events); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}

	if _, err := s.Replay(ctx); err == nil {
		t.Error("expected error for self-contradicting log, got nil")
	}
}
