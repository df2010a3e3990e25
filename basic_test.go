// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/fifo"
)

// =============================================================================
// Bounded Queues - Basic Operations
// =============================================================================

// TestSPSCBasic fills a capacity-4 SPSC queue, overflows it once, then
// drains it in order.
func TestSPSCBasic(t *testing.T) {
	q := fifo.NewSPSC[string](4)

	if q.Cap() != 4 {
		t.Fatalf("Cap: got %d, want 4", q.Cap())
	}

	for _, s := range []string{"A", "B", "C", "D"} {
		v := s
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%s): %v", s, err)
		}
	}

	// Full queue returns ErrWouldBlock
	e := "E"
	if err := q.Enqueue(&e); !errors.Is(err, fifo.ErrWouldBlock) {
		t.Fatalf("Enqueue on full: got %v, want ErrWouldBlock", err)
	}

	// Dequeue in FIFO order
	for _, want := range []string{"A", "B", "C", "D"} {
		got, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
		if got != want {
			t.Fatalf("Dequeue: got %q, want %q", got, want)
		}
	}

	// Empty queue returns ErrWouldBlock
	if _, err := q.Dequeue(); !errors.Is(err, fifo.ErrWouldBlock) {
		t.Fatalf("Dequeue on empty: got %v, want ErrWouldBlock", err)
	}
}

// TestSPMCBasic tests basic SPMC (Single Producer, Multiple Consumer) operations.
func TestSPMCBasic(t *testing.T) {
	q := fifo.NewSPMC[int](3)

	if q.Cap() != 4 {
		t.Fatalf("Cap: got %d, want 4", q.Cap())
	}

	for i := range 4 {
		v := i + 100
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}

	v := 999
	if err := q.Enqueue(&v); !errors.Is(err, fifo.ErrWouldBlock) {
		t.Fatalf("Enqueue on full: got %v, want ErrWouldBlock", err)
	}

	for i := range 4 {
		val, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if val != i+100 {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, val, i+100)
		}
	}

	if _, err := q.Dequeue(); !errors.Is(err, fifo.ErrWouldBlock) {
		t.Fatalf("Dequeue on empty: got %v, want ErrWouldBlock", err)
	}
}

// TestFreshQueueEmpty checks that a new queue of every kind reports empty.
func TestFreshQueueEmpty(t *testing.T) {
	queues := []struct {
		name string
		q    fifo.Queue[int]
	}{
		{"SPSC", fifo.NewSPSC[int](8)},
		{"SPMC", fifo.NewSPMC[int](8)},
		{"MPSCUnbounded", fifo.NewMPSCUnbounded[int](8)},
	}

	for _, tt := range queues {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.q.Dequeue(); !errors.Is(err, fifo.ErrWouldBlock) {
				t.Fatalf("Dequeue: got %v, want ErrWouldBlock", err)
			}
			if _, err := tt.q.Peek(); !errors.Is(err, fifo.ErrWouldBlock) {
				t.Fatalf("Peek: got %v, want ErrWouldBlock", err)
			}
			if _, err := tt.q.RelaxedDequeue(); !errors.Is(err, fifo.ErrWouldBlock) {
				t.Fatalf("RelaxedDequeue: got %v, want ErrWouldBlock", err)
			}
			if _, err := tt.q.RelaxedPeek(); !errors.Is(err, fifo.ErrWouldBlock) {
				t.Fatalf("RelaxedPeek: got %v, want ErrWouldBlock", err)
			}
			if tt.q.Len() != 0 {
				t.Fatalf("Len: got %d, want 0", tt.q.Len())
			}
		})
	}
}

// TestBoundedExactlyCapacity checks that a capacity-N queue accepts exactly
// N elements before the (N+1)th fails, for both bounded kinds and both
// strong and relaxed enqueue.
func TestBoundedExactlyCapacity(t *testing.T) {
	for _, n := range []int{2, 4, 16, 128} {
		queues := map[string]fifo.Queue[int]{
			"SPSC": fifo.NewSPSC[int](n),
			"SPMC": fifo.NewSPMC[int](n),
		}
		for name, q := range queues {
			for _, relaxed := range []bool{false, true} {
				enqueue := q.Enqueue
				if relaxed {
					enqueue = q.RelaxedEnqueue
				}
				for i := range n {
					v := i
					if err := enqueue(&v); err != nil {
						t.Fatalf("%s(%d) relaxed=%v: Enqueue(%d): %v", name, n, relaxed, i, err)
					}
				}
				if q.Len() != n {
					t.Fatalf("%s(%d): Len: got %d, want %d", name, n, q.Len(), n)
				}
				v := -1
				if err := enqueue(&v); !errors.Is(err, fifo.ErrWouldBlock) {
					t.Fatalf("%s(%d) relaxed=%v: Enqueue on full: got %v, want ErrWouldBlock", name, n, relaxed, err)
				}
				for range n {
					if _, err := q.Dequeue(); err != nil {
						t.Fatalf("%s(%d): Dequeue: %v", name, n, err)
					}
				}
			}
		}
	}
}

// TestPeek tests that Peek returns the head without consuming it.
func TestPeek(t *testing.T) {
	queues := []struct {
		name string
		q    fifo.Queue[int]
	}{
		{"SPSC", fifo.NewSPSC[int](4)},
		{"SPMC", fifo.NewSPMC[int](4)},
		{"MPSCUnbounded", fifo.NewMPSCUnbounded[int](2)},
	}

	for _, tt := range queues {
		t.Run(tt.name, func(t *testing.T) {
			for i := range 3 {
				v := i + 1
				if err := tt.q.Enqueue(&v); err != nil {
					t.Fatalf("Enqueue(%d): %v", i, err)
				}
			}
			for i := range 3 {
				want := i + 1
				for _, peek := range []func() (int, error){tt.q.Peek, tt.q.RelaxedPeek} {
					got, err := peek()
					if err != nil {
						t.Fatalf("Peek: %v", err)
					}
					if got != want {
						t.Fatalf("Peek: got %d, want %d", got, want)
					}
				}
				if tt.q.Len() != 3-i {
					t.Fatalf("Len after Peek: got %d, want %d", tt.q.Len(), 3-i)
				}
				got, err := tt.q.Dequeue()
				if err != nil || got != want {
					t.Fatalf("Dequeue: got (%d, %v), want (%d, nil)", got, err, want)
				}
			}
		})
	}
}

// TestRelaxedOperations tests that relaxed operations agree with the strong
// ones when nothing is in flight.
func TestRelaxedOperations(t *testing.T) {
	queues := []struct {
		name string
		q    fifo.Queue[int]
	}{
		{"SPSC", fifo.NewSPSC[int](8)},
		{"SPMC", fifo.NewSPMC[int](8)},
		{"MPSCUnbounded", fifo.NewMPSCUnbounded[int](4)},
	}

	for _, tt := range queues {
		t.Run(tt.name, func(t *testing.T) {
			for i := range 8 {
				v := i
				if err := tt.q.RelaxedEnqueue(&v); err != nil {
					t.Fatalf("RelaxedEnqueue(%d): %v", i, err)
				}
			}
			for i := range 8 {
				got, err := tt.q.RelaxedDequeue()
				if err != nil {
					t.Fatalf("RelaxedDequeue(%d): %v", i, err)
				}
				if got != i {
					t.Fatalf("RelaxedDequeue: got %d, want %d", got, i)
				}
			}
			if _, err := tt.q.RelaxedDequeue(); !errors.Is(err, fifo.ErrWouldBlock) {
				t.Fatalf("RelaxedDequeue on empty: got %v, want ErrWouldBlock", err)
			}
		})
	}
}

// TestSPMCRelaxedEnqueueOccupiedSlot checks that RelaxedEnqueue fails on a
// full SPMC queue and succeeds again once the head is consumed.
func TestSPMCRelaxedEnqueueOccupiedSlot(t *testing.T) {
	q := fifo.NewSPMC[int](2)
	for i := range 2 {
		v := i
		if err := q.RelaxedEnqueue(&v); err != nil {
			t.Fatalf("RelaxedEnqueue(%d): %v", i, err)
		}
	}
	v := 2
	if err := q.RelaxedEnqueue(&v); !errors.Is(err, fifo.ErrWouldBlock) {
		t.Fatalf("RelaxedEnqueue on full: got %v, want ErrWouldBlock", err)
	}
	if _, err := q.Dequeue(); err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if err := q.RelaxedEnqueue(&v); err != nil {
		t.Fatalf("RelaxedEnqueue after Dequeue: %v", err)
	}
}

// =============================================================================
// Unbounded Queue - Basic Operations
// =============================================================================

// TestMPSCUnboundedBasic checks that the unbounded queue accepts many chunks
// worth of elements without ever reporting full.
func TestMPSCUnboundedBasic(t *testing.T) {
	q := fifo.NewMPSCUnbounded[int](4)

	if q.Cap() != fifo.Unbounded {
		t.Fatalf("Cap: got %d, want Unbounded", q.Cap())
	}
	if q.ChunkSize() != 4 {
		t.Fatalf("ChunkSize: got %d, want 4", q.ChunkSize())
	}

	const total = 4 * 250
	for i := range total {
		v := i
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	if q.Len() != total {
		t.Fatalf("Len: got %d, want %d", q.Len(), total)
	}

	for i := range total {
		val, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if val != i {
			t.Fatalf("Dequeue(%d): got %d", i, val)
		}
	}

	if _, err := q.Dequeue(); !errors.Is(err, fifo.ErrWouldBlock) {
		t.Fatalf("Dequeue on empty: got %v, want ErrWouldBlock", err)
	}
	if !q.IsEmpty() {
		t.Fatal("IsEmpty: got false after draining")
	}
}

// TestMPSCUnboundedInterleaved alternates producing and consuming across
// chunk boundaries so the consumer follows links while producers add more.
func TestMPSCUnboundedInterleaved(t *testing.T) {
	q := fifo.NewMPSCUnbounded[int](2)

	next, want := 0, 0
	for round := range 50 {
		for range round%5 + 1 {
			v := next
			next++
			if err := q.Enqueue(&v); err != nil {
				t.Fatalf("Enqueue(%d): %v", v, err)
			}
		}
		for range round % 4 {
			got, err := q.Dequeue()
			if errors.Is(err, fifo.ErrWouldBlock) {
				break
			}
			if got != want {
				t.Fatalf("round %d: got %d, want %d", round, got, want)
			}
			want++
		}
	}
	for want < next {
		got, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
		if got != want {
			t.Fatalf("got %d, want %d", got, want)
		}
		want++
	}
	if q.ProducerIndex() != uint64(next) || q.ConsumerIndex() != uint64(next) {
		t.Fatalf("indices: got (%d, %d), want (%d, %d)", q.ProducerIndex(), q.ConsumerIndex(), next, next)
	}
}

// =============================================================================
// Wraparound
// =============================================================================

// TestBoundedWraparound runs many fill/drain rounds so indices wrap the
// buffer many times.
func TestBoundedWraparound(t *testing.T) {
	queues := []struct {
		name string
		q    fifo.Queue[int]
	}{
		{"SPSC", fifo.NewSPSC[int](4)},
		{"SPMC", fifo.NewSPMC[int](4)},
	}

	for _, tt := range queues {
		t.Run(tt.name, func(t *testing.T) {
			for round := range 100 {
				for i := range 4 {
					v := round*100 + i
					if err := tt.q.Enqueue(&v); err != nil {
						t.Fatalf("round %d: Enqueue(%d): %v", round, i, err)
					}
				}
				for i := range 4 {
					got, err := tt.q.Dequeue()
					if err != nil {
						t.Fatalf("round %d: Dequeue: %v", round, err)
					}
					if got != round*100+i {
						t.Fatalf("round %d: got %d, want %d", round, got, round*100+i)
					}
				}
			}
		})
	}
}

// TestDequeueClearsReference checks that a dequeued slot no longer holds the
// element, so pointers stored in the queue do not outlive their dequeue.
func TestDequeueClearsReference(t *testing.T) {
	type payload struct{ b []byte }

	q := fifo.NewSPSC[*payload](2)
	p := &payload{b: make([]byte, 16)}
	if err := q.Enqueue(&p); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	got, err := q.Dequeue()
	if err != nil || got != p {
		t.Fatalf("Dequeue: got (%p, %v), want (%p, nil)", got, err, p)
	}
	if _, err := q.Peek(); !errors.Is(err, fifo.ErrWouldBlock) {
		t.Fatalf("Peek after Dequeue: got %v, want ErrWouldBlock", err)
	}
}

// =============================================================================
// Interface Compliance Tests
// =============================================================================

func TestQueueInterface(t *testing.T) {
	var _ fifo.Queue[int] = fifo.NewSPSC[int](8)
	var _ fifo.Queue[int] = fifo.NewSPMC[int](8)
	var _ fifo.Queue[int] = fifo.NewMPSCUnbounded[int](8)
	var _ fifo.Producer[string] = fifo.NewMPSCUnbounded[string](8)
	var _ fifo.Consumer[string] = fifo.NewSPMC[string](8)
}
