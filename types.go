// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

// Unbounded is the value Cap returns for queues without a fixed capacity.
const Unbounded = -1

// Queue is the combined producer-consumer interface for a FIFO queue.
//
// Every Queue is specialized for one producer/consumer cardinality. The
// interface is shared so pipeline code can be written once, but calling
// producer methods from more goroutines than the queue's contract allows
// (or consumer methods likewise) is undefined behavior and is not detected.
//
// Example:
//
//	q := fifo.NewSPSC[int](1024)
//
//	// Enqueue
//	val := 42
//	if err := q.Enqueue(&val); err != nil {
//	    // Handle full queue
//	}
//
//	// Dequeue
//	elem, err := q.Dequeue()
//	if err == nil {
//	    fmt.Println(elem)
//	}
type Queue[T any] interface {
	Producer[T]
	Consumer[T]

	// Cap returns the fixed capacity, or Unbounded.
	Cap() int

	// Len returns a snapshot of the number of queued elements. Under
	// concurrent use the value may be stale as soon as it is returned.
	Len() int
}

// Producer is the interface for enqueueing elements.
//
// The element is passed by pointer to avoid copying large structs. The
// queue stores a copy of the pointed-to value, so the original can be
// modified after Enqueue returns. A nil pointer is the empty sentinel and
// is rejected with a panic carrying ErrNilElement.
type Producer[T any] interface {
	// Enqueue adds an element to the queue (non-blocking).
	// Returns nil on success, ErrWouldBlock if a bounded queue is full.
	Enqueue(elem *T) error

	// RelaxedEnqueue is Enqueue with weaker guarantees: it may return
	// ErrWouldBlock while the queue is not full.
	RelaxedEnqueue(elem *T) error

	// Fill enqueues up to limit values obtained from supplier and returns
	// how many were enqueued. supplier is only called for values that will
	// be accepted.
	Fill(supplier func() T, limit int) int

	// FillLoop fills until exit stops running, idling with w whenever no
	// value could be enqueued.
	FillLoop(supplier func() T, w WaitStrategy, exit ExitCondition)
}

// Consumer is the interface for dequeueing elements.
//
// The element is returned by value. SPSC and MPSCUnbounded clear the
// original slot to allow garbage collection of referenced objects; SPMC
// leaves it until the producer reuses the slot.
type Consumer[T any] interface {
	// Dequeue removes and returns the head element (non-blocking).
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	Dequeue() (T, error)

	// RelaxedDequeue is Dequeue with weaker guarantees: it may return
	// ErrWouldBlock while the queue is not empty.
	RelaxedDequeue() (T, error)

	// Peek returns the head element without removing it.
	Peek() (T, error)

	// RelaxedPeek is Peek with weaker guarantees: it may return
	// ErrWouldBlock while the queue is not empty.
	RelaxedPeek() (T, error)

	// Drain dequeues up to limit elements, passing each to consumer, and
	// returns how many were dequeued.
	Drain(consumer func(T), limit int) int

	// DrainLoop drains until exit stops running, idling with w whenever
	// the queue is empty.
	DrainLoop(consumer func(T), w WaitStrategy, exit ExitCondition)
}
