package testutil

import "sync"

// DeterministicClock is a resettable sequence source for tests.
//
// It satisfies msgstore.Sequencer. Unlike msgstore.Clock it can be rewound,
// so one clock can drive several scenario runs that each start from the
// same seq. Safe for concurrent use.
type DeterministicClock struct {
	mu    sync.Mutex
	start int64
	seq   int64
}

// NewDeterministicClock returns a clock whose first Next is 1.
func NewDeterministicClock() *DeterministicClock {
	return NewDeterministicClockAt(0)
}

// NewDeterministicClockAt returns a clock whose first Next is last+1,
// as if a log ending at seq last had been restored.
func NewDeterministicClockAt(last int64) *DeterministicClock {
	return &DeterministicClock{start: last, seq: last}
}

// Next advances the clock and returns the new seq.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the last seq handed out, or the starting point.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds to the starting point.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = c.start
}
