package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/msgstore/internal/msgstore"
)

// Commit durably applies the notifications of committed store calls.
//
// In a single transaction it appends every notification to the event log,
// upserts or deletes the written slots and raises the stored length. Either
// all notifications are applied or none are.
//
// Notifications must be passed in seq order, as msgstore delivers them.
// Re-committing a seq that is already logged fails (PRIMARY KEY).
func (s *Store) Commit(ctx context.Context, events []msgstore.Notification) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("commit: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	length, err := readLength(ctx, tx)
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	for _, n := range events {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO events (seq, call_id, kind, idx, text, count, new_length)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			n.Seq,
			n.CallID,
			string(n.Kind),
			int64(n.Index),
			n.Text,
			n.Count,
			int64(n.NewLength),
		)
		if err != nil {
			return fmt.Errorf("commit: insert event seq %d: %w", n.Seq, err)
		}

		if n.Kind != msgstore.KindStored {
			continue
		}

		if n.Text == "" {
			_, err = tx.ExecContext(ctx, `DELETE FROM slots WHERE idx = ?`, int64(n.Index))
		} else {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO slots (idx, text) VALUES (?, ?)
				ON CONFLICT(idx) DO UPDATE SET text = excluded.text
			`, int64(n.Index), n.Text)
		}
		if err != nil {
			return fmt.Errorf("commit: write slot %d: %w", n.Index, err)
		}

		if n.Index >= length {
			length = n.Index + 1
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE meta SET value = ? WHERE key = 'length'
	`, fmt.Sprintf("%d", length)); err != nil {
		return fmt.Errorf("commit: update length: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func readLength(ctx context.Context, q queryer) (uint64, error) {
	var raw string
	if err := q.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'length'`).Scan(&raw); err != nil {
		return 0, fmt.Errorf("read length: %w", err)
	}
	var length uint64
	if _, err := fmt.Sscanf(raw, "%d", &length); err != nil {
		return 0, fmt.Errorf("read length: parse %q: %w", raw, err)
	}
	return length, nil
}
