// Package store provides SQLite-backed durable state for the message store.
//
// It is the host-side persistence collaborator: the in-memory
// msgstore.Store decides what a call does, and Commit makes the outcome
// durable by applying the call's notifications in one transaction.
//
// Tables:
//   - meta: logical length and the introductory message
//   - slots: non-empty slots keyed by index
//   - events: the notification log, ordered by seq
//
// Because every "stored" notification carries its index and text, the
// events table alone is enough to rebuild state. Replay does exactly that
// and compares the result with the materialized tables.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Indices are stored as INTEGER, so they must fit a signed 64-bit value;
// msgstore.MaxIndex keeps them well inside that range.
package store
