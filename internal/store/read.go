package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/msgstore/internal/msgstore"
)

// State is the materialized store state plus the log position it reflects.
type State struct {
	Snapshot msgstore.Snapshot

	// LastSeq is the highest logged notification seq (0 for an empty log).
	// Restored stores resume their clock from it.
	LastSeq int64
}

// Load reads the materialized state.
func (s *Store) Load(ctx context.Context) (State, error) {
	length, err := readLength(ctx, s.db)
	if err != nil {
		return State{}, fmt.Errorf("load: %w", err)
	}

	var message string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'message'`).Scan(&message)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return State{}, fmt.Errorf("load: read message: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT idx, text FROM slots ORDER BY idx ASC`)
	if err != nil {
		return State{}, fmt.Errorf("load: query slots: %w", err)
	}
	defer rows.Close()

	slots := make(map[uint64]string)
	for rows.Next() {
		var idx int64
		var text string
		if err := rows.Scan(&idx, &text); err != nil {
			return State{}, fmt.Errorf("load: scan slot: %w", err)
		}
		slots[uint64(idx)] = text
	}
	if err := rows.Err(); err != nil {
		return State{}, fmt.Errorf("load: iterate slots: %w", err)
	}

	lastSeq, err := s.LastSeq(ctx)
	if err != nil {
		return State{}, fmt.Errorf("load: %w", err)
	}

	return State{
		Snapshot: msgstore.Snapshot{
			Length:  length,
			Slots:   slots,
			Message: message,
		},
		LastSeq: lastSeq,
	}, nil
}

// LastSeq returns the highest logged seq, or 0 if the log is empty.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM events`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("read last seq: %w", err)
	}
	return seq.Int64, nil
}

// ReadEvents returns up to limit notifications with seq > afterSeq in seq
// order. A limit <= 0 returns every remaining notification.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ReadEvents(ctx context.Context, afterSeq int64, limit int) ([]msgstore.Notification, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, call_id, kind, idx, text, count, new_length
		FROM events
		WHERE seq > ?
		ORDER BY seq ASC
		LIMIT ?
	`, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ReadCall returns the notifications of one call in seq order.
func (s *Store) ReadCall(ctx context.Context, callID string) ([]msgstore.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, call_id, kind, idx, text, count, new_length
		FROM events
		WHERE call_id = ?
		ORDER BY seq ASC
	`, callID)
	if err != nil {
		return nil, fmt.Errorf("query call events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListCalls returns the distinct call IDs in the log, ordered by their first
// notification.
func (s *Store) ListCalls(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT call_id
		FROM events
		GROUP BY call_id
		ORDER BY MIN(seq) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query calls: %w", err)
	}
	defer rows.Close()

	calls := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan call id: %w", err)
		}
		calls = append(calls, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calls: %w", err)
	}
	return calls, nil
}

func scanEvents(rows *sql.Rows) ([]msgstore.Notification, error) {
	events := []msgstore.Notification{}
	for rows.Next() {
		var (
			n         msgstore.Notification
			kind      string
			idx       int64
			newLength int64
		)
		if err := rows.Scan(&n.Seq, &n.CallID, &kind, &idx, &n.Text, &n.Count, &newLength); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		n.Kind = msgstore.NotificationKind(kind)
		n.Index = uint64(idx)
		n.NewLength = uint64(newLength)
		events = append(events, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
