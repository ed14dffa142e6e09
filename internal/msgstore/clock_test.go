package msgstore

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_NewClockAt(t *testing.T) {
	assert.Equal(t, int64(0), NewClock().Current())

	c := NewClockAt(100)
	assert.Equal(t, int64(100), c.Current())
	assert.Equal(t, int64(101), c.Next())
}

func TestClock_ConcurrentUnique(t *testing.T) {
	c := NewClock()
	const goroutines = 10
	const perGoroutine = 100

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				seq := c.Next()
				mu.Lock()
				seen[seq] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}

	token := g.Generate()
	id, err := uuid.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.NotEqual(t, token, g.Generate())
}

func TestClock_SatisfiesSequencer(t *testing.T) {
	var seq Sequencer = NewClockAt(4)
	assert.Equal(t, int64(5), seq.Next())
}

func TestErrorFormatting(t *testing.T) {
	err := newIndexError(7, 3)
	assert.Equal(t, "INDEX_OUT_OF_BOUNDS: index 7 out of bounds (length 3)", err.Error())
	assert.Equal(t, ErrorCode(""), CodeOf(assert.AnError))
}
