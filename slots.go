// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

import (
	"math"

	"code.hybscloud.com/atomix"
)

const (
	// minCapacity is the smallest slot count any buffer is built with.
	minCapacity = 2

	// maxCapacity is the largest power of 2 an int can hold.
	maxCapacity = math.MaxInt>>1 + 1
)

// slot is one cell of a slot buffer.
// full == false is the empty sentinel; data is only meaningful while full.
type slot[T any] struct {
	full atomix.Bool
	data T
}

// store writes v and publishes the slot (release).
// The caller must own the slot and have observed it empty.
func (s *slot[T]) store(v *T) {
	s.data = *v
	s.full.StoreRelease(true)
}

// ready reports whether the slot holds a published value (acquire).
func (s *slot[T]) ready() bool {
	return s.full.LoadAcquire()
}

// take copies the value out, zeroes the cell so referenced objects can be
// collected, and hands the slot back to the producer side (release).
// The caller must own the slot and have observed it ready.
func (s *slot[T]) take() T {
	v := s.data
	var zero T
	s.data = zero
	s.full.StoreRelease(false)
	return v
}

// claim is take without zeroing. The stale value stays in the cell until
// the producer overwrites it, so a concurrent reader that loses the race
// still sees an element that was once enqueued.
// The caller must own the slot and have observed it ready.
func (s *slot[T]) claim() T {
	v := s.data
	s.full.StoreRelease(false)
	return v
}

// slotBuffer is a fixed-size circular array of slots addressed by
// monotonic indices. It has no concurrency control of its own.
type slotBuffer[T any] struct {
	slots []slot[T]
	mask  uint64
}

// newSlotBuffer allocates a buffer with capacity rounded up to the next
// power of two. Capacities below minCapacity round up to minCapacity.
func newSlotBuffer[T any](capacity int) slotBuffer[T] {
	n := roundToPow2(capacity)
	return slotBuffer[T]{
		slots: make([]slot[T], n),
		mask:  uint64(n - 1),
	}
}

func (b *slotBuffer[T]) capacity() int {
	return int(b.mask + 1)
}

func (b *slotBuffer[T]) size() uint64 {
	return b.mask + 1
}

// slotAt maps a monotonic index to its physical slot.
func (b *slotBuffer[T]) slotAt(index uint64) *slot[T] {
	return &b.slots[index&b.mask]
}
