// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

import "code.hybscloud.com/spin"

// SPMC is a CAS-based single-producer multi-consumer bounded queue.
//
// The single producer writes sequentially and publishes its index with a
// release store. Consumers race on the consumer index with CAS. To keep
// consumers off the producer's cache line they share an estimate of the
// producer index and re-read the real one only when the estimate looks
// exhausted.
//
// Consumers are lock-free. The producer is wait-free except for one case:
// when its destination slot was claimed by a consumer that has not cleared
// it yet, Enqueue spins until that in-flight consumer finishes. The spin is
// bounded only by the consumer's progress; a consumer descheduled between
// its CAS and clearing the slot stalls the producer for that long.
//
// Consumers do not zero slot data: a dequeued element stays referenced
// until the producer reuses its slot, at most Cap() enqueues later.
//
// Memory: O(capacity) with one flag per slot
type SPMC[T any] struct {
	producerIndex      index
	producerIndexCache index // Consumers' shared estimate of producerIndex
	consumerIndex      index
	_                  pad
	buffer             slotBuffer[T]
}

// NewSPMC creates a new SPMC queue.
// Capacity rounds up to the next power of 2, minimum 2.
func NewSPMC[T any](capacity int) *SPMC[T] {
	return &SPMC[T]{buffer: newSlotBuffer[T](capacity)}
}

// Enqueue adds an element to the queue (single producer only).
// Returns ErrWouldBlock if the queue is full.
func (q *SPMC[T]) Enqueue(elem *T) error {
	checkElem(elem)
	p := q.producerIndex.load()
	s := q.buffer.slotAt(p)
	if s.ready() {
		if p-q.consumerIndex.loadAcquire() >= q.buffer.size() {
			return ErrWouldBlock
		}
		// The slot's previous element was claimed but not yet cleared.
		sw := spin.Wait{}
		for s.ready() {
			sw.Once()
		}
	}

	s.store(elem)
	q.producerIndex.storeRelease(p + 1)
	return nil
}

// RelaxedEnqueue is Enqueue without the wait on an in-flight consumer.
// It returns ErrWouldBlock whenever the destination slot is occupied,
// which includes the short window after the slot's element was claimed.
func (q *SPMC[T]) RelaxedEnqueue(elem *T) error {
	checkElem(elem)
	p := q.producerIndex.load()
	s := q.buffer.slotAt(p)
	if s.ready() {
		return ErrWouldBlock
	}

	s.store(elem)
	q.producerIndex.storeRelease(p + 1)
	return nil
}

// available returns how many elements are published beyond consumer index
// c, refreshing the shared producer index estimate when it is exhausted.
func (q *SPMC[T]) available(c uint64, cache *uint64) uint64 {
	if c < *cache {
		return *cache - c
	}
	p := q.producerIndex.loadAcquire()
	if c >= p {
		return 0
	}
	*cache = p
	q.producerIndexCache.storeRelease(p)
	return p - c
}

// Dequeue removes and returns an element (multiple consumers safe).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *SPMC[T]) Dequeue() (T, error) {
	cache := q.producerIndexCache.loadAcquire()
	sw := spin.Wait{}
	for {
		c := q.consumerIndex.loadAcquire()
		if q.available(c, &cache) == 0 {
			var zero T
			return zero, ErrWouldBlock
		}
		if q.consumerIndex.cas(c, c+1) {
			return q.buffer.slotAt(c).claim(), nil
		}
		sw.Once()
	}
}

// RelaxedDequeue makes a single claim attempt. It returns ErrWouldBlock
// when the queue is empty or when another consumer won the race.
func (q *SPMC[T]) RelaxedDequeue() (T, error) {
	cache := q.producerIndexCache.loadAcquire()
	c := q.consumerIndex.loadAcquire()
	if q.available(c, &cache) == 0 || !q.consumerIndex.cas(c, c+1) {
		var zero T
		return zero, ErrWouldBlock
	}
	return q.buffer.slotAt(c).claim(), nil
}

// peekAt reads the element at consumer index c if it is still unclaimed
// after the read. The read can race with a consumer claiming c; slots are
// never zeroed on this path, so a lost race yields an element that was
// enqueued, never a zero value that was not.
func (q *SPMC[T]) peekAt(c uint64) (T, bool) {
	s := q.buffer.slotAt(c)
	if s.ready() {
		v := s.data
		if q.consumerIndex.loadAcquire() == c {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Peek returns the head element without removing it (multiple consumers
// safe). By the time Peek returns, another consumer may have taken it.
// With other consumers running, the result for a T wider than a machine
// word may be torn; peek only from the sole consumer in that case.
func (q *SPMC[T]) Peek() (T, error) {
	cache := q.producerIndexCache.loadAcquire()
	sw := spin.Wait{}
	for {
		c := q.consumerIndex.loadAcquire()
		if q.available(c, &cache) == 0 {
			var zero T
			return zero, ErrWouldBlock
		}
		if v, ok := q.peekAt(c); ok {
			return v, nil
		}
		sw.Once()
	}
}

// RelaxedPeek makes a single read attempt and may return ErrWouldBlock
// when the head was consumed concurrently.
func (q *SPMC[T]) RelaxedPeek() (T, error) {
	c := q.consumerIndex.loadAcquire()
	if c < q.producerIndex.loadAcquire() {
		if v, ok := q.peekAt(c); ok {
			return v, nil
		}
	}
	var zero T
	return zero, ErrWouldBlock
}

// Fill enqueues up to limit values from supplier (single producer only).
//
// Room is computed once from the consumer index; slots in that room whose
// consumers are still in flight are waited for. The run is published with
// a single producer index store.
func (q *SPMC[T]) Fill(supplier func() T, limit int) int {
	checkSupplier(supplier)
	checkLimit(limit)
	if limit == 0 {
		return 0
	}

	p := q.producerIndex.load()
	n := min(uint64(limit), q.buffer.size()-(p-q.consumerIndex.loadAcquire()))
	if n == 0 {
		return 0
	}

	var i uint64
	defer func() {
		q.producerIndex.storeRelease(p + i)
	}()
	sw := spin.Wait{}
	for ; i < n; i++ {
		s := q.buffer.slotAt(p + i)
		for s.ready() {
			sw.Once()
		}
		v := supplier()
		s.store(&v)
	}
	return int(n)
}

// Drain dequeues up to limit elements into consumer (multiple consumers
// safe). The whole run is claimed with a single CAS.
//
// If consumer panics, the unvisited remainder of the claimed run is
// discarded so the producer is never left waiting on it.
func (q *SPMC[T]) Drain(consumer func(T), limit int) int {
	checkConsumer(consumer)
	checkLimit(limit)
	if limit == 0 {
		return 0
	}

	cache := q.producerIndexCache.loadAcquire()
	sw := spin.Wait{}
	var c, n uint64
	for {
		c = q.consumerIndex.loadAcquire()
		avail := q.available(c, &cache)
		if avail == 0 {
			return 0
		}
		n = min(uint64(limit), avail)
		if q.consumerIndex.cas(c, c+n) {
			break
		}
		sw.Once()
	}

	var i uint64
	defer func() {
		for ; i < n; i++ {
			q.buffer.slotAt(c + i).claim()
		}
	}()
	for i < n {
		elem := q.buffer.slotAt(c + i).claim()
		i++
		consumer(elem)
	}
	return int(n)
}

// FillLoop fills until exit stops running (single producer only).
func (q *SPMC[T]) FillLoop(supplier func() T, w WaitStrategy, exit ExitCondition) {
	checkSupplier(supplier)
	checkLoopArgs(w, exit)
	fillLoop(q.Fill, supplier, w, exit)
}

// DrainLoop drains until exit stops running (multiple consumers safe).
func (q *SPMC[T]) DrainLoop(consumer func(T), w WaitStrategy, exit ExitCondition) {
	checkConsumer(consumer)
	checkLoopArgs(w, exit)
	drainLoop(q.Drain, consumer, w, exit)
}

// Cap returns the queue capacity.
func (q *SPMC[T]) Cap() int {
	return q.buffer.capacity()
}

// Len returns a snapshot of the number of queued elements.
func (q *SPMC[T]) Len() int {
	return snapshotLen(&q.producerIndex, &q.consumerIndex, q.buffer.size())
}

// IsEmpty reports whether the queue was empty at the time of the call.
func (q *SPMC[T]) IsEmpty() bool {
	return q.consumerIndex.loadAcquire() == q.producerIndex.loadAcquire()
}

// ProducerIndex returns the number of elements ever enqueued.
func (q *SPMC[T]) ProducerIndex() uint64 {
	return q.producerIndex.loadAcquire()
}

// ConsumerIndex returns the number of elements ever claimed by consumers.
func (q *SPMC[T]) ConsumerIndex() uint64 {
	return q.consumerIndex.loadAcquire()
}
