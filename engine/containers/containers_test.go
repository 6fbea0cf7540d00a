package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueue(t *testing.T) {
	q := NewRingQueue[string](2)
	assert.True(t, q.IsEmpty())

	_, err := q.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)

	require.NoError(t, q.Enqueue("a"))
	require.NoError(t, q.Enqueue("b"))
	assert.True(t, q.IsFull())
	assert.ErrorIs(t, q.Enqueue("c"), ErrQueueFull)

	v, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, _ = q.Dequeue()
	assert.Equal(t, "a", v)
	require.NoError(t, q.Enqueue("c"))
	v, _ = q.Dequeue()
	assert.Equal(t, "b", v)
	v, _ = q.Dequeue()
	assert.Equal(t, "c", v)
	assert.Equal(t, 0, q.Len())
}

func TestSlabPush(t *testing.T) {
	s := NewSlab[int]()
	assert.Equal(t, 0, s.Push(100))
	assert.Equal(t, 1, s.Push(101))
	assert.Equal(t, 2, s.lastFree)
	assert.Len(t, s.buf, 2)
}

func TestSlabTake(t *testing.T) {
	s := NewSlab[int]()
	s.Push(100)
	s.Push(101)
	v, ok := s.Take(0)
	require.True(t, ok)
	assert.Equal(t, 100, v)
	assert.Equal(t, 0, s.lastFree)
	assert.Len(t, s.buf, 2)

	_, ok = s.Take(0)
	assert.False(t, ok)
	_, ok = s.Get(0)
	assert.False(t, ok)
}

func TestSlabTakePush(t *testing.T) {
	s := NewSlab[int]()
	s.Push(100)
	s.Push(101)
	s.Push(102)
	v, _ := s.Take(1)
	assert.Equal(t, 101, v)
	assert.Equal(t, 1, s.lastFree)
	assert.Equal(t, 1, s.Push(104))
	assert.Equal(t, 3, s.Push(105))
	assert.Equal(t, 4, s.Len())

	var seen []int
	s.Each(func(_ int, v int) bool {
		seen = append(seen, v)
		return true
	})
	assert.Equal(t, []int{100, 104, 102, 105}, seen)
}

func TestSlabReusesLowestHole(t *testing.T) {
	s := NewSlab[string]()
	for _, v := range []string{"a", "b", "c", "d"} {
		s.Push(v)
	}
	s.Take(3)
	s.Take(1)
	assert.Equal(t, 1, s.Push("x"))
	assert.Equal(t, 3, s.Push("y"))
	assert.Equal(t, 4, s.Push("z"))
}
