package collector

import "sync"

// RingBuffer is a thread-safe ring buffer keeping the most recent entries
type RingBuffer[T any] struct {
	buffer     []T
	size       int
	writeIndex int
	mu         sync.RWMutex
}

// NewRingBuffer creates a new ring buffer with the given capacity
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity <= 0 {
		panic("capacity must be greater than 0")
	}

	return &RingBuffer[T]{
		buffer: make([]T, capacity),
	}
}

// Add adds an entry, overwriting the oldest one if the buffer is full
func (rb *RingBuffer[T]) Add(record T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.buffer[rb.writeIndex] = record
	rb.writeIndex = (rb.writeIndex + 1) % len(rb.buffer)
	if rb.size < len(rb.buffer) {
		rb.size++
	}
}

// Tail returns the most recent n entries, oldest first
func (rb *RingBuffer[T]) Tail(n int) []T {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	count := min(max(n, 0), rb.size)
	result := make([]T, count)

	capacity := len(rb.buffer)
	start := rb.writeIndex - count + capacity
	for i := range count {
		result[i] = rb.buffer[(start+i)%capacity]
	}

	return result
}

// All returns all entries, oldest first
func (rb *RingBuffer[T]) All() []T {
	return rb.Tail(rb.Capacity())
}

// Size returns the current number of entries in the buffer
func (rb *RingBuffer[T]) Size() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.size
}

// Capacity returns the maximum capacity of the buffer
func (rb *RingBuffer[T]) Capacity() int {
	return len(rb.buffer)
}
