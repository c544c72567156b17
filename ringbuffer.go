/*
@Author: Lzww
@LastEditTime: 2025-9-18 20:14:37
@Description: Ring Buffer
@Language: Go 1.23.4
*/

package recvbench

// RingBuffer is a fixed-size circular buffer that keeps the most recent
// elements. Pushing into a full buffer overwrites the oldest element.
type RingBuffer[T any] struct {
	buffer []T // underlying array to store elements
	head   int // index of the first element
	tail   int // index where the next element will be inserted
}

// NewRingBuffer creates a ring buffer holding up to capacity elements.
// A capacity below 1 is raised to 1.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	// one slot is reserved to tell empty from full
	return &RingBuffer[T]{buffer: make([]T, capacity+1)}
}

// Empty returns true if the ring buffer contains no elements
func (rb *RingBuffer[T]) Empty() bool {
	return rb.head == rb.tail
}

// Full returns true if the ring buffer is at maximum capacity
func (rb *RingBuffer[T]) Full() bool {
	return (rb.tail+1)%len(rb.buffer) == rb.head
}

// MaxLen returns the maximum number of elements the buffer can hold
func (rb *RingBuffer[T]) MaxLen() int {
	return len(rb.buffer) - 1
}

// Push appends value at the tail. When the buffer is full the oldest
// element is dropped first and Push returns true.
func (rb *RingBuffer[T]) Push(value T) bool {
	evicted := false
	if rb.Full() {
		rb.Pop()
		evicted = true
	}
	rb.buffer[rb.tail] = value
	rb.tail = (rb.tail + 1) % len(rb.buffer)
	return evicted
}

// Pop removes and returns the element at the head of the ring buffer
func (rb *RingBuffer[T]) Pop() (T, bool) {
	var zero T
	if rb.Empty() {
		return zero, false
	}
	value := rb.buffer[rb.head]
	rb.buffer[rb.head] = zero
	rb.head = (rb.head + 1) % len(rb.buffer)
	return value, true
}

// Peek returns a pointer to the oldest element without removing it
func (rb *RingBuffer[T]) Peek() (*T, bool) {
	if rb.Empty() {
		return nil, false
	}
	return &rb.buffer[rb.head], true
}

// Len returns the current number of elements in the ring buffer
func (rb *RingBuffer[T]) Len() int {
	if rb.tail >= rb.head {
		return rb.tail - rb.head
	}
	return len(rb.buffer) - rb.head + rb.tail
}

// ForEach iterates from oldest to newest. Returning false stops early.
func (rb *RingBuffer[T]) ForEach(fn func(*T) bool) {
	if rb.Empty() {
		return
	}

	if rb.head < rb.tail {
		for i := rb.head; i < rb.tail; i++ {
			if !fn(&rb.buffer[i]) {
				return
			}
		}
	} else {
		// wraparound: head to end, then start to tail
		for i := rb.head; i < len(rb.buffer); i++ {
			if !fn(&rb.buffer[i]) {
				return
			}
		}
		for i := 0; i < rb.tail; i++ {
			if !fn(&rb.buffer[i]) {
				return
			}
		}
	}
}
