// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
	"golang.org/x/sys/cpu"
)

// cacheLineSize is the target's cache line size, never less than 64 bytes.
const cacheLineSize = max(64, unsafe.Sizeof(cpu.CacheLinePad{}))

// pad is cache line padding to prevent false sharing.
type pad [cacheLineSize]byte

// index is a monotonic producer or consumer counter isolated on its own
// cache line. The leading pad separates it from whatever precedes it;
// structs embedding several indices end with a trailing pad.
//
// Which accessors are legal depends on the owner:
//   - load: owner thread only, when no other thread can have advanced it
//   - loadAcquire: any thread, observes the latest published value
//   - storeRelease: the sole writer of a single-owner index
//   - cas: contended indices (MPSC producer, SPMC consumer)
type index struct {
	_ pad
	v atomix.Uint64
}

func (i *index) load() uint64 {
	return i.v.LoadRelaxed()
}

func (i *index) loadAcquire() uint64 {
	return i.v.LoadAcquire()
}

func (i *index) storeRelease(v uint64) {
	i.v.StoreRelease(v)
}

func (i *index) cas(old, next uint64) bool {
	return i.v.CompareAndSwapAcqRel(old, next)
}

// snapshotLen returns producer - consumer from a consistent pair of reads.
// The consumer index is read on both sides of the producer read and the
// pair retried until it is stable, so the result is never negative.
// Bounded queues pass their capacity as limit; unbounded pass 0.
func snapshotLen(producer, consumer *index, limit uint64) int {
	after := consumer.loadAcquire()
	sw := spin.Wait{}
	for {
		before := after
		p := producer.loadAcquire()
		after = consumer.loadAcquire()
		if before == after {
			n := p - after
			if limit > 0 && n > limit {
				n = limit
			}
			return int(n)
		}
		sw.Once()
	}
}
