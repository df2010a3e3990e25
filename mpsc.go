// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

import (
	"sync/atomic"

	"code.hybscloud.com/spin"
)

// chunk is a fixed-size slot buffer plus a link to its successor.
// base is the logical index of slot 0.
type chunk[T any] struct {
	slotBuffer[T]
	base uint64
	next atomic.Pointer[chunk[T]]
}

func newChunk[T any](base uint64, size int) *chunk[T] {
	return &chunk[T]{slotBuffer: newSlotBuffer[T](size), base: base}
}

// MPSCUnbounded is a CAS-based multi-producer single-consumer queue that
// grows without bound.
//
// Elements live in a linked sequence of fixed-size chunks. Producers
// reserve indices by CAS on the shared producer index. The producer whose
// reservation starts a chunk allocates it and links it to its predecessor
// exactly once; producers that reserved further into that chunk spin until
// the link is visible. The consumer follows links and drops each chunk
// after draining it, leaving it to the garbage collector.
//
// Enqueue is lock-free and never reports a full queue. The only producer
// failure is running out of memory while allocating a chunk, which the Go
// runtime treats as fatal.
//
// Memory: O(len) rounded up to whole chunks
type MPSCUnbounded[T any] struct {
	chunkSize     uint64 // Read-only after construction
	mask          uint64
	producerIndex index
	_             pad
	producerChunk atomic.Pointer[chunk[T]] // Chunk producers start walking from
	consumerIndex index
	_             pad
	consumerChunk *chunk[T] // Consumer only
	_             pad
}

// NewMPSCUnbounded creates a new unbounded MPSC queue.
// chunkSize rounds up to the next power of 2, minimum 2.
func NewMPSCUnbounded[T any](chunkSize int) *MPSCUnbounded[T] {
	first := newChunk[T](0, chunkSize)
	q := &MPSCUnbounded[T]{
		consumerChunk: first,
		chunkSize:     first.size(),
		mask:          first.mask,
	}
	q.producerChunk.Store(first)
	return q
}

// reserve claims up to limit consecutive indices inside one chunk. It
// returns the chunk, the first claimed index and the number claimed.
func (q *MPSCUnbounded[T]) reserve(limit uint64) (*chunk[T], uint64, uint64) {
	sw := spin.Wait{}
	for {
		// Load the chunk before the index: a chunk is only published after
		// its first index was reserved, so c never lies beyond p.
		c := q.producerChunk.Load()
		p := q.producerIndex.loadAcquire()
		n := min(limit, q.chunkSize-(p&q.mask))
		if q.producerIndex.cas(p, p+n) {
			return q.chunkFor(c, p), p, n
		}
		sw.Once()
	}
}

// chunkFor walks forward from c to the chunk holding reserved index p.
// If p is the first index of a chunk that is not linked yet, the caller
// owns that chunk's allocation.
func (q *MPSCUnbounded[T]) chunkFor(c *chunk[T], p uint64) *chunk[T] {
	base := p &^ q.mask
	sw := spin.Wait{}
	for c.base < base {
		next := c.next.Load()
		if next == nil {
			if p != base || c.base+q.chunkSize != base {
				// Another producer owns the link; it already holds its
				// reservation and is about to publish.
				sw.Once()
				continue
			}
			next = newChunk[T](base, int(q.chunkSize))
			if !c.next.CompareAndSwap(nil, next) {
				next = c.next.Load()
			}
		}
		q.producerChunk.CompareAndSwap(c, next)
		c = next
	}
	return c
}

// Enqueue adds an element to the queue (multiple producers safe).
// It always succeeds and returns nil.
func (q *MPSCUnbounded[T]) Enqueue(elem *T) error {
	checkElem(elem)
	c, p, _ := q.reserve(1)
	c.slotAt(p).store(elem)
	return nil
}

// RelaxedEnqueue is identical to Enqueue.
func (q *MPSCUnbounded[T]) RelaxedEnqueue(elem *T) error {
	return q.Enqueue(elem)
}

// consumerSlot returns the ready slot for consumer index ci, or nil if
// the queue is empty. With wait set, a slot that a producer has reserved
// but not yet written is waited for; without it such a slot reads as
// empty.
func (q *MPSCUnbounded[T]) consumerSlot(ci uint64, wait bool) *slot[T] {
	c := q.consumerChunk
	if ci-c.base == q.chunkSize {
		next := c.next.Load()
		if next == nil {
			if !wait || q.producerIndex.loadAcquire() == ci {
				return nil
			}
			sw := spin.Wait{}
			for next = c.next.Load(); next == nil; next = c.next.Load() {
				sw.Once()
			}
		}
		q.consumerChunk = next
		c = next
	}

	s := c.slotAt(ci)
	if s.ready() {
		return s
	}
	if !wait || q.producerIndex.loadAcquire() == ci {
		return nil
	}
	sw := spin.Wait{}
	for !s.ready() {
		sw.Once()
	}
	return s
}

// Dequeue removes and returns an element (single consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty. If the head
// index was reserved by a producer that has not finished writing, Dequeue
// waits for it.
func (q *MPSCUnbounded[T]) Dequeue() (T, error) {
	return q.dequeue(true)
}

// RelaxedDequeue is Dequeue without the wait on an in-flight producer: a
// reserved but unwritten head reads as empty.
func (q *MPSCUnbounded[T]) RelaxedDequeue() (T, error) {
	return q.dequeue(false)
}

func (q *MPSCUnbounded[T]) dequeue(wait bool) (T, error) {
	c := q.consumerIndex.load()
	s := q.consumerSlot(c, wait)
	if s == nil {
		var zero T
		return zero, ErrWouldBlock
	}
	elem := s.take()
	q.consumerIndex.storeRelease(c + 1)
	return elem, nil
}

// Peek returns the head element without removing it (single consumer
// only), waiting for an in-flight producer like Dequeue.
func (q *MPSCUnbounded[T]) Peek() (T, error) {
	return q.peek(true)
}

// RelaxedPeek is Peek without the wait on an in-flight producer.
func (q *MPSCUnbounded[T]) RelaxedPeek() (T, error) {
	return q.peek(false)
}

func (q *MPSCUnbounded[T]) peek(wait bool) (T, error) {
	s := q.consumerSlot(q.consumerIndex.load(), wait)
	if s == nil {
		var zero T
		return zero, ErrWouldBlock
	}
	return s.data, nil
}

// Fill enqueues limit values from supplier (multiple producers safe) and
// returns limit. Indices are reserved in runs that stay inside one chunk,
// one CAS per run.
//
// supplier must not panic: indices already reserved for the run would
// never be written, and Dequeue would wait on them forever.
func (q *MPSCUnbounded[T]) Fill(supplier func() T, limit int) int {
	checkSupplier(supplier)
	checkLimit(limit)

	for done := uint64(0); done < uint64(limit); {
		c, p, n := q.reserve(uint64(limit) - done)
		for i := range n {
			v := supplier()
			c.slotAt(p + i).store(&v)
		}
		done += n
	}
	return limit
}

// Drain dequeues up to limit elements into consumer (single consumer
// only). It has RelaxedDequeue semantics and stops at the first slot that
// is not yet written.
func (q *MPSCUnbounded[T]) Drain(consumer func(T), limit int) int {
	checkConsumer(consumer)
	checkLimit(limit)

	c := q.consumerIndex.load()
	for i := range limit {
		s := q.consumerSlot(c, false)
		if s == nil {
			return i
		}
		elem := s.take()
		c++
		q.consumerIndex.storeRelease(c)
		consumer(elem)
	}
	return limit
}

// FillLoop fills until exit stops running (multiple producers safe).
// Fill never fails on this queue, so w is never consulted and the queue
// grows for as long as the loop runs.
func (q *MPSCUnbounded[T]) FillLoop(supplier func() T, w WaitStrategy, exit ExitCondition) {
	checkSupplier(supplier)
	checkLoopArgs(w, exit)
	fillLoop(q.Fill, supplier, w, exit)
}

// DrainLoop drains until exit stops running (single consumer only).
func (q *MPSCUnbounded[T]) DrainLoop(consumer func(T), w WaitStrategy, exit ExitCondition) {
	checkConsumer(consumer)
	checkLoopArgs(w, exit)
	drainLoop(q.Drain, consumer, w, exit)
}

// Cap returns Unbounded.
func (q *MPSCUnbounded[T]) Cap() int {
	return Unbounded
}

// ChunkSize returns the number of slots per chunk.
func (q *MPSCUnbounded[T]) ChunkSize() int {
	return int(q.chunkSize)
}

// Len returns a snapshot of the number of queued elements, counting
// reserved elements whose producers have not finished writing.
func (q *MPSCUnbounded[T]) Len() int {
	return snapshotLen(&q.producerIndex, &q.consumerIndex, 0)
}

// IsEmpty reports whether the queue was empty at the time of the call.
func (q *MPSCUnbounded[T]) IsEmpty() bool {
	return q.consumerIndex.loadAcquire() == q.producerIndex.loadAcquire()
}

// ProducerIndex returns the number of indices ever reserved by producers.
func (q *MPSCUnbounded[T]) ProducerIndex() uint64 {
	return q.producerIndex.loadAcquire()
}

// ConsumerIndex returns the number of elements ever dequeued.
func (q *MPSCUnbounded[T]) ConsumerIndex() uint64 {
	return q.consumerIndex.loadAcquire()
}
