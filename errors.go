// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For Enqueue: the bounded queue is full (backpressure)
// For Dequeue and Peek: the queue is empty (no data available)
//
// ErrWouldBlock is a control flow signal, not a failure. The caller should
// retry the operation later (with backoff or yield) rather than propagating
// the error. Unbounded queues never return it from Enqueue.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// Contract errors. Queues panic with these values because they indicate a
// caller bug, never a transient condition. Use errors.Is on the recovered
// value to tell them apart.
var (
	// ErrNilElement is raised when Enqueue receives a nil element pointer.
	ErrNilElement = errors.New("fifo: nil element")

	// ErrNegativeLimit is raised when Drain or Fill receives limit < 0.
	ErrNegativeLimit = errors.New("fifo: negative limit")

	// ErrNilFunc is raised when a callback, wait strategy or exit
	// condition argument is nil.
	ErrNilFunc = errors.New("fifo: nil function argument")

	// ErrUnsupportedCardinality is raised by the builder when neither side
	// is declared single. Multi-producer multi-consumer is not provided.
	ErrUnsupportedCardinality = errors.New("fifo: unsupported producer/consumer cardinality")
)

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

func checkElem[T any](elem *T) {
	if elem == nil {
		panic(ErrNilElement)
	}
}

func checkConsumer[T any](fn func(T)) {
	if fn == nil {
		panic(ErrNilFunc)
	}
}

func checkSupplier[T any](fn func() T) {
	if fn == nil {
		panic(ErrNilFunc)
	}
}

func checkLimit(limit int) {
	if limit < 0 {
		panic(ErrNegativeLimit)
	}
}
