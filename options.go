// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

// Options configures queue creation and algorithm selection.
type Options struct {
	// Producer/Consumer constraints (determines queue type)
	singleProducer bool
	singleConsumer bool

	// Capacity for bounded queues, chunk size for unbounded ones
	// (rounds up to next power of 2)
	capacity int
}

// Builder creates queues with fluent configuration.
//
// The builder selects the queue variant from the declared producer and
// consumer cardinality. At least one side must be declared single.
//
// Example:
//
//	// SPSC queue (one producer, one consumer)
//	q := fifo.BuildSPSC[Event](fifo.New(1024).SingleProducer().SingleConsumer())
//
//	// Unbounded MPSC queue with 256-slot chunks
//	q := fifo.BuildMPSC[Request](fifo.New(256).SingleConsumer())
type Builder struct {
	opts Options
}

// New creates a queue builder with the given capacity.
//
// Capacity rounds up to the next power of 2, and values below 2 round up
// to 2. For example, capacity=4 results in actual capacity=4,
// capacity=1000 results in actual capacity=1024. Capacities above the
// largest power of 2 an int can hold panic.
//
// For the unbounded MPSC queue the capacity is used as the chunk size.
//
// Example:
//
//	// Create builder, then configure and build
//	b := fifo.New(1024)
//	q := fifo.BuildSPSC[int](b.SingleProducer().SingleConsumer())
//
//	// Or chain directly
//	q := fifo.Build[int](fifo.New(1024).SingleProducer())
func New(capacity int) *Builder {
	return &Builder{opts: Options{capacity: capacity}}
}

// SingleProducer declares that only one goroutine will enqueue.
func (b *Builder) SingleProducer() *Builder {
	b.opts.singleProducer = true
	return b
}

// SingleConsumer declares that only one goroutine will dequeue.
func (b *Builder) SingleConsumer() *Builder {
	b.opts.singleConsumer = true
	return b
}

// Build creates a Queue[T] with automatic algorithm selection.
//
// Algorithm selection:
//
//	SingleProducer + SingleConsumer → SPSC (bounded, wait-free)
//	SingleProducer only             → SPMC (bounded, CAS consumers)
//	SingleConsumer only             → MPSCUnbounded (chunked, CAS producers)
//	Neither                         → panics with ErrUnsupportedCardinality
//
// For type-safe returns with concrete types, use:
//   - BuildSPSC[T](b) → *SPSC[T]
//   - BuildSPMC[T](b) → *SPMC[T]
//   - BuildMPSC[T](b) → *MPSCUnbounded[T]
func Build[T any](b *Builder) Queue[T] {
	switch {
	case b.opts.singleProducer && b.opts.singleConsumer:
		return NewSPSC[T](b.opts.capacity)
	case b.opts.singleProducer:
		return NewSPMC[T](b.opts.capacity)
	case b.opts.singleConsumer:
		return NewMPSCUnbounded[T](b.opts.capacity)
	default:
		panic(ErrUnsupportedCardinality)
	}
}

// BuildSPSC creates an SPSC queue with compile-time type safety.
// Panics if builder is not configured with SingleProducer().SingleConsumer().
func BuildSPSC[T any](b *Builder) *SPSC[T] {
	if !b.opts.singleProducer || !b.opts.singleConsumer {
		panic("fifo: BuildSPSC requires SingleProducer().SingleConsumer()")
	}
	return NewSPSC[T](b.opts.capacity)
}

// BuildSPMC creates an SPMC queue with compile-time type safety.
// Panics if builder is not configured with SingleProducer() only.
func BuildSPMC[T any](b *Builder) *SPMC[T] {
	if !b.opts.singleProducer || b.opts.singleConsumer {
		panic("fifo: BuildSPMC requires SingleProducer() without SingleConsumer()")
	}
	return NewSPMC[T](b.opts.capacity)
}

// BuildMPSC creates an unbounded MPSC queue with compile-time type safety.
// Panics if builder is not configured with SingleConsumer() only.
func BuildMPSC[T any](b *Builder) *MPSCUnbounded[T] {
	if b.opts.singleProducer || !b.opts.singleConsumer {
		panic("fifo: BuildMPSC requires SingleConsumer() without SingleProducer()")
	}
	return NewMPSCUnbounded[T](b.opts.capacity)
}

// roundToPow2 rounds n up to the next power of 2, minimum minCapacity.
// Panics if n exceeds maxCapacity.
func roundToPow2(n int) int {
	if n < minCapacity {
		return minCapacity
	}
	if n > maxCapacity {
		panic("fifo: capacity exceeds the largest power of 2 an int can hold")
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
