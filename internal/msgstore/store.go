package msgstore

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// DefaultMessage is the introductory message of a store created without
// WithMessage.
const DefaultMessage = "Hello, World!"

// MaxIndex is the first index BulkStoreAt refuses to address.
// Keeping indices below it leaves every length representable as a signed
// 64-bit integer, which is what hosts persist.
const MaxIndex uint64 = 1 << 62

// Store is the indexed message store.
type Store struct {
	mu       sync.RWMutex
	notifyMu sync.Mutex // serializes observer delivery across calls

	length  uint64
	slots   map[uint64]string // non-empty slots only
	message string
	limits  Limits

	clock     Sequencer
	tokens    TokenGenerator
	observers []Observer
	logger    *slog.Logger
}

// Option configures a Store at construction.
type Option func(*Store)

// WithMessage sets the introductory message.
func WithMessage(message string) Option {
	return func(s *Store) {
		s.message = message
	}
}

// WithClock sets the clock used to stamp notifications.
// Use NewClockAt to resume numbering after a restored log.
func WithClock(c Sequencer) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithTokenGenerator sets the call ID generator.
// Default: UUIDv7Generator.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(s *Store) {
		s.tokens = g
	}
}

// WithObserver registers an observer at construction.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		s.observers = append(s.observers, o)
	}
}

// WithLogger sets the logger for mutation diagnostics.
// Default: a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		slots:   make(map[uint64]string),
		message: DefaultMessage,
		limits:  DefaultLimits,
		clock:   NewClock(),
		tokens:  UUIDv7Generator{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Restore creates a store holding the given snapshot.
// Returns an error if a slot lies at or beyond the snapshot length.
func Restore(snap Snapshot, opts ...Option) (*Store, error) {
	s := New(opts...)
	if snap.Message != "" {
		s.message = snap.Message
	}
	s.length = snap.Length
	for idx, text := range snap.Slots {
		if idx >= snap.Length {
			return nil, fmt.Errorf("restore: slot %d beyond length %d", idx, snap.Length)
		}
		if text != "" {
			s.slots[idx] = text
		}
	}
	return s, nil
}

// Subscribe registers an observer for all subsequent mutations.
func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Message returns the introductory message.
func (s *Store) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.message
}

// Len returns the number of addressable slots.
func (s *Store) Len() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.length
}

// Limits returns the configured bulk limits.
func (s *Store) Limits() Limits {
	return s.limits
}

// EstimateCost predicts the cost units of a hypothetical bulk operation
// against this store's limits.
func (s *Store) EstimateCost(count uint64, op OperationType) (uint64, error) {
	return s.limits.EstimateCost(count, op)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots := make(map[uint64]string, len(s.slots))
	for idx, text := range s.slots {
		slots[idx] = text
	}
	return Snapshot{
		Length:  s.length,
		Slots:   slots,
		Message: s.message,
	}
}

// Append stores text in a new slot at the tail and returns its index.
// Empty text is allowed and still grows the store.
func (s *Store) Append(text string) uint64 {
	var index uint64
	_ = s.mutate(func(c *call) error {
		index = s.length
		c.write(index, text)
		return nil
	})
	s.logger.Debug("message appended", "index", index, "bytes", len(text))
	return index
}

// BulkAppend appends texts in order and returns the number stored and the
// new length. Either every item is appended or none is.
func (s *Store) BulkAppend(texts []string) (int, uint64, error) {
	if len(texts) < 1 || len(texts) > s.limits.MaxStore {
		return 0, 0, newCountError("bulk store", len(texts), 1, s.limits.MaxStore)
	}

	var newLength uint64
	_ = s.mutate(func(c *call) error {
		for _, text := range texts {
			c.write(s.length, text)
		}
		newLength = s.length
		c.aggregate(len(texts), newLength)
		return nil
	})
	s.logger.Debug("bulk append", "count", len(texts), "length", newLength)
	return len(texts), newLength, nil
}

// BulkStoreAt writes texts[i] at indices[i], left to right.
//
// An index at or beyond the current length first extends the store with
// empty slots up to and including that index. Indices may repeat or be
// unordered; the last write to an index wins.
//
// Indices must be below MaxIndex. A larger index fails the whole call with
// INDEX_OUT_OF_BOUNDS before anything is written.
func (s *Store) BulkStoreAt(indices []uint64, texts []string) (int, uint64, error) {
	if len(indices) != len(texts) {
		return 0, 0, &Error{
			Code:    CodeLengthMismatch,
			Message: fmt.Sprintf("%d indices but %d messages", len(indices), len(texts)),
		}
	}
	if len(indices) < 1 || len(indices) > s.limits.MaxStore {
		return 0, 0, newCountError("bulk store", len(indices), 1, s.limits.MaxStore)
	}
	for _, idx := range indices {
		if idx >= MaxIndex {
			e := newIndexError(idx, s.Len())
			e.Message = fmt.Sprintf("index %d exceeds addressable range (max %d)", idx, MaxIndex-1)
			return 0, 0, e
		}
	}

	var newLength uint64
	_ = s.mutate(func(c *call) error {
		for i, idx := range indices {
			c.write(idx, texts[i])
		}
		newLength = s.length
		c.aggregate(len(indices), newLength)
		return nil
	})
	s.logger.Debug("bulk store at indices", "count", len(indices), "length", newLength)
	return len(indices), newLength, nil
}

// BulkRemove clears every referenced slot to the empty string. Length is
// unchanged. All indices are validated before any slot is cleared, so an
// out-of-bounds index leaves the store untouched. Clearing an already empty
// slot is not an error.
func (s *Store) BulkRemove(indices []uint64) error {
	if len(indices) < 1 || len(indices) > s.limits.MaxStore {
		return newCountError("bulk remove", len(indices), 1, s.limits.MaxStore)
	}

	err := s.mutate(func(c *call) error {
		for _, idx := range indices {
			if idx >= s.length {
				return newIndexError(idx, s.length)
			}
		}
		for _, idx := range indices {
			c.write(idx, "")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Debug("bulk remove", "count", len(indices))
	return nil
}

// call accumulates the notifications of one mutating call.
type call struct {
	s       *Store
	id      string
	pending []Notification
}

// write sets slot idx, growing length as needed, and records a notification.
func (c *call) write(idx uint64, text string) {
	s := c.s
	if idx >= s.length {
		s.length = idx + 1
	}
	if text == "" {
		delete(s.slots, idx)
	} else {
		s.slots[idx] = text
	}
	c.emit(Notification{Kind: KindStored, Index: idx, Text: text})
}

func (c *call) aggregate(count int, newLength uint64) {
	c.emit(Notification{Kind: KindBulkStored, Count: count, NewLength: newLength})
}

func (c *call) emit(n Notification) {
	if c.id == "" {
		c.id = c.s.tokens.Generate()
	}
	n.CallID = c.id
	n.Seq = c.s.clock.Next()
	c.pending = append(c.pending, n)
}

// mutate runs fn under the write lock. fn must validate before it writes:
// a non-nil error is only allowed while nothing has been written yet.
// Pending notifications are delivered after the write lock is released.
//
// Lock order is notifyMu then mu. Holding notifyMu across the call keeps
// delivery order identical to commit order, and no writer ever waits on
// notifyMu while holding mu, so observers may read the store.
func (s *Store) mutate(fn func(c *call) error) error {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	c := &call{s: s}
	if err := fn(c); err != nil {
		s.mu.Unlock()
		return err
	}
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, n := range c.pending {
		for _, o := range observers {
			o.Notify(n)
		}
	}
	return nil
}
