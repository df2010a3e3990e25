// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

// SPSC is a single-producer single-consumer bounded queue.
//
// Based on Lamport's ring buffer with a producer-side lookahead limit.
// The producer caches "safe to write below" as consumerIndex+capacity and
// only re-reads the consumer index once that limit is exhausted. The
// consumer never reads the producer index: it polls its own slot.
//
// Enqueue and Dequeue are wait-free. Exactly one goroutine may call the
// producer methods and exactly one (possibly different) goroutine the
// consumer methods.
//
// Memory: O(capacity) with one flag per slot
type SPSC[T any] struct {
	producerIndex index
	_             pad
	producerLimit uint64 // Producer's cached consumerIndex+capacity
	consumerIndex index
	_             pad
	buffer        slotBuffer[T]
}

// NewSPSC creates a new SPSC queue.
// Capacity rounds up to the next power of 2, minimum 2.
func NewSPSC[T any](capacity int) *SPSC[T] {
	return &SPSC[T]{buffer: newSlotBuffer[T](capacity)}
}

// refreshLimit re-reads the consumer index and reports how many slots are
// writable from p.
func (q *SPSC[T]) refreshLimit(p uint64) uint64 {
	q.producerLimit = q.consumerIndex.loadAcquire() + q.buffer.size()
	return q.producerLimit - p
}

// Enqueue adds an element to the queue (producer only).
// Returns ErrWouldBlock if the queue is full.
func (q *SPSC[T]) Enqueue(elem *T) error {
	checkElem(elem)
	p := q.producerIndex.load()
	if p >= q.producerLimit && q.refreshLimit(p) == 0 {
		return ErrWouldBlock
	}

	q.buffer.slotAt(p).store(elem)
	q.producerIndex.storeRelease(p + 1)
	return nil
}

// RelaxedEnqueue is identical to Enqueue; SPSC has nothing to relax.
func (q *SPSC[T]) RelaxedEnqueue(elem *T) error {
	return q.Enqueue(elem)
}

// Dequeue removes and returns an element (consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *SPSC[T]) Dequeue() (T, error) {
	c := q.consumerIndex.load()
	s := q.buffer.slotAt(c)
	if !s.ready() {
		var zero T
		return zero, ErrWouldBlock
	}

	elem := s.take()
	q.consumerIndex.storeRelease(c + 1)
	return elem, nil
}

// RelaxedDequeue is identical to Dequeue.
func (q *SPSC[T]) RelaxedDequeue() (T, error) {
	return q.Dequeue()
}

// Peek returns the head element without removing it (consumer only).
func (q *SPSC[T]) Peek() (T, error) {
	s := q.buffer.slotAt(q.consumerIndex.load())
	if !s.ready() {
		var zero T
		return zero, ErrWouldBlock
	}
	return s.data, nil
}

// RelaxedPeek is identical to Peek.
func (q *SPSC[T]) RelaxedPeek() (T, error) {
	return q.Peek()
}

// Fill enqueues up to limit values from supplier (producer only).
// The run is published with a single producer index store.
func (q *SPSC[T]) Fill(supplier func() T, limit int) int {
	checkSupplier(supplier)
	checkLimit(limit)
	if limit == 0 {
		return 0
	}

	p := q.producerIndex.load()
	n := uint64(limit)
	if p+n > q.producerLimit {
		n = min(n, q.refreshLimit(p))
		if n == 0 {
			return 0
		}
	}

	var i uint64
	defer func() {
		q.producerIndex.storeRelease(p + i)
	}()
	for ; i < n; i++ {
		v := supplier()
		q.buffer.slotAt(p + i).store(&v)
	}
	return int(n)
}

// Drain dequeues up to limit elements into consumer (consumer only).
func (q *SPSC[T]) Drain(consumer func(T), limit int) int {
	checkConsumer(consumer)
	checkLimit(limit)

	c := q.consumerIndex.load()
	for i := range limit {
		s := q.buffer.slotAt(c)
		if !s.ready() {
			return i
		}
		elem := s.take()
		c++
		q.consumerIndex.storeRelease(c)
		consumer(elem)
	}
	return limit
}

// FillLoop fills until exit stops running (producer only).
func (q *SPSC[T]) FillLoop(supplier func() T, w WaitStrategy, exit ExitCondition) {
	checkSupplier(supplier)
	checkLoopArgs(w, exit)
	fillLoop(q.Fill, supplier, w, exit)
}

// DrainLoop drains until exit stops running (consumer only).
func (q *SPSC[T]) DrainLoop(consumer func(T), w WaitStrategy, exit ExitCondition) {
	checkConsumer(consumer)
	checkLoopArgs(w, exit)
	drainLoop(q.Drain, consumer, w, exit)
}

// Cap returns the queue capacity.
func (q *SPSC[T]) Cap() int {
	return q.buffer.capacity()
}

// Len returns a snapshot of the number of queued elements.
func (q *SPSC[T]) Len() int {
	return snapshotLen(&q.producerIndex, &q.consumerIndex, q.buffer.size())
}

// IsEmpty reports whether the queue was empty at the time of the call.
func (q *SPSC[T]) IsEmpty() bool {
	return q.consumerIndex.loadAcquire() == q.producerIndex.loadAcquire()
}

// ProducerIndex returns the number of elements ever enqueued.
func (q *SPSC[T]) ProducerIndex() uint64 {
	return q.producerIndex.loadAcquire()
}

// ConsumerIndex returns the number of elements ever dequeued.
func (q *SPSC[T]) ConsumerIndex() uint64 {
	return q.consumerIndex.loadAcquire()
}
