package queue

import "errors"

// ErrQueueFull is returned by Enqueue when the buffer has no room left.
var ErrQueueFull = errors.New("queue is full")

// Queue is a bounded FIFO drained in batches.
type Queue[T any] interface {
	// Enqueue adds item to the end of the queue without blocking.
	Enqueue(item T) error
	Size() int
	// Drain removes and returns every pending item in order.
	Drain() []T
	Clear()
}
