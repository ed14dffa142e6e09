package msgstore

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/msgstore/internal/testutil"
)

func TestQueue_EnqueueDequeue(t *testing.T) {
	q := NewQueue()

	ok := q.Enqueue(Notification{Seq: 1, Kind: KindStored, Text: "a"})
	require.True(t, ok, "enqueue should succeed")

	got, ok := q.TryDequeue()
	require.True(t, ok, "dequeue should succeed")
	assert.Equal(t, int64(1), got.Seq)
	assert.Equal(t, "a", got.Text)
}

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	for i := int64(1); i <= 3; i++ {
		q.Enqueue(Notification{Seq: i})
	}

	for want := int64(1); want <= 3; want++ {
		n, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, want, n.Seq)
	}
}

func TestQueue_TryDequeue_Empty(t *testing.T) {
	q := NewQueue()
	_, ok := q.TryDequeue()
	assert.False(t, ok, "dequeue from empty queue should return false")
}

func TestQueue_Drain(t *testing.T) {
	q := NewQueue()
	assert.Empty(t, q.Drain())
	assert.NotNil(t, q.Drain())

	q.Enqueue(Notification{Seq: 1})
	q.Enqueue(Notification{Seq: 2})

	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Seq)
	assert.Equal(t, int64(2), got[1].Seq)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_AsObserver(t *testing.T) {
	q := NewQueue()
	s := New(WithObserver(q), WithTokenGenerator(testutil.NewFixedTokens("c")))

	_, _, err := s.BulkAppend([]string{"a", "b"})
	require.NoError(t, err)

	got := q.Drain()
	require.Len(t, got, 3)
	assert.Equal(t, KindStored, got[0].Kind)
	assert.Equal(t, KindStored, got[1].Kind)
	assert.Equal(t, KindBulkStored, got[2].Kind)
}

func TestQueue_WaitSignals(t *testing.T) {
	q := NewQueue()

	done := make(chan Notification)
	go func() {
		<-q.Wait()
		n, ok := q.TryDequeue()
		if ok {
			done <- n
		}
	}()

	time.Sleep(10 * time.Millisecond)
	q.Enqueue(Notification{Seq: 7})

	select {
	case n := <-done:
		assert.Equal(t, int64(7), n.Seq)
	case <-time.After(time.Second):
		t.Fatal("waiter was not signalled")
	}
}

func TestQueue_Close(t *testing.T) {
	q := NewQueue()
	q.Close()
	q.Close() // second close is a no-op

	assert.False(t, q.Enqueue(Notification{Seq: 1}), "closed queue rejects events")

	select {
	case <-q.Wait():
	case <-time.After(time.Second):
		t.Fatal("close should wake waiters")
	}
}

func TestQueue_ConcurrentEnqueue(t *testing.T) {
	q := NewQueue()
	const goroutines = 10
	const perGoroutine = 100

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				q.Enqueue(Notification{})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*perGoroutine, q.Len())
}
