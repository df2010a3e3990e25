// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fifo provides lock-free FIFO queues specialized by
// producer/consumer cardinality.
//
// Each variant is correct only within its declared cardinality:
//
//   - SPSC: Single-Producer Single-Consumer, bounded
//   - SPMC: Single-Producer Multi-Consumer, bounded
//   - MPSCUnbounded: Multi-Producer Single-Consumer, grows in chunks
//
// There is deliberately no multi-producer multi-consumer variant.
//
// # Quick Start
//
// Direct constructors (recommended for most cases):
//
//	q := fifo.NewSPSC[Event](1024)
//	q := fifo.NewSPMC[*Task](4096)
//	q := fifo.NewMPSCUnbounded[*Request](256) // 256-slot chunks
//
// Builder API selects the variant from the declared constraints:
//
//	q := fifo.Build[Event](fifo.New(1024).SingleProducer().SingleConsumer()) // → SPSC
//	q := fifo.Build[Event](fifo.New(1024).SingleProducer())                  // → SPMC
//	q := fifo.Build[Event](fifo.New(256).SingleConsumer())                   // → MPSCUnbounded
//
// # Basic Usage
//
// All queues share the same interface for enqueueing and dequeueing:
//
//	q := fifo.NewSPSC[int](1024)
//
//	// Enqueue (non-blocking)
//	value := 42
//	err := q.Enqueue(&value)
//	if fifo.IsWouldBlock(err) {
//	    // Queue is full - handle backpressure
//	}
//
//	// Dequeue (non-blocking)
//	elem, err := q.Dequeue()
//	if fifo.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// # Batches and Polling Loops
//
// Drain and Fill move up to limit elements per call and amortize index
// publication across the batch:
//
//	n := q.Drain(func(ev Event) { handle(ev) }, 64)
//
// DrainLoop and FillLoop run until an ExitCondition stops them, idling
// with a WaitStrategy when no progress is made. They are meant for
// dedicated polling goroutines:
//
//	ctx, cancel := context.WithCancel(context.Background())
//	go q.DrainLoop(handle, fifo.BackoffWait(), fifo.ContextExit(ctx))
//	// ...
//	cancel()
//
// The exit condition is the only cancellation mechanism. Nothing in the
// package times out on its own.
//
// # Relaxed Operations
//
// RelaxedEnqueue, RelaxedDequeue and RelaxedPeek may report ErrWouldBlock
// when the strong operation would have succeeded, in exchange for never
// waiting on another goroutine:
//
//   - SPSC: identical to the strong operations
//   - SPMC: RelaxedEnqueue does not wait for a slot still being cleared by
//     a consumer; RelaxedDequeue makes a single CAS attempt
//   - MPSCUnbounded: RelaxedDequeue does not wait for a producer that
//     reserved the head index but has not written it yet
//
// # Progress Guarantees
//
//	SPSC:          Enqueue wait-free, Dequeue wait-free
//	SPMC:          Enqueue wait-free except a bounded spin on an in-flight
//	               consumer, Dequeue lock-free
//	MPSCUnbounded: Enqueue lock-free with a bounded spin at chunk links,
//	               Dequeue wait-free except a bounded spin on an in-flight
//	               producer
//
// The spins are bounded by work another goroutine has already started
// (clearing one slot, linking one chunk). They are not bounded against a
// scheduler that deschedules that goroutine indefinitely.
//
// # Error Handling
//
// Queues return [ErrWouldBlock] when operations cannot proceed. This error
// is sourced from [code.hybscloud.com/iox] for ecosystem consistency.
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Enqueue(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !fifo.IsWouldBlock(err) {
//	        return err
//	    }
//	    backoff.Wait()
//	}
//
// Caller bugs panic with a sentinel error: [ErrNilElement] for a nil
// element pointer, [ErrNegativeLimit] for a negative batch limit and
// [ErrNilFunc] for a nil callback, wait strategy or exit condition.
//
// # Capacity
//
// Capacity rounds up to the next power of 2, minimum 2:
//
//	q := fifo.NewSPSC[int](0)     // Actual capacity: 2
//	q := fifo.NewSPSC[int](3)     // Actual capacity: 4
//	q := fifo.NewSPSC[int](1000)  // Actual capacity: 1024
//
// MPSCUnbounded applies the same rounding to its chunk size and reports
// [Unbounded] from Cap.
//
// # Thread Safety
//
// Violating a queue's cardinality (e.g., two producers on SPSC) causes
// undefined behavior including data corruption. It is not detected.
//
// # Race Detection
//
// The race detector cannot observe happens-before edges carried by the
// acquire/release orderings the queues use to protect plain slot data,
// and may report false positives. Concurrent tests are skipped under
// -race via [RaceEnabled].
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors and
// backoff, [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, [code.hybscloud.com/spin] for CPU pause instructions
// and [golang.org/x/sys/cpu] for the target's cache line size.
package fifo
