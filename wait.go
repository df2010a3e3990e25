// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

import (
	"context"
	"runtime"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// loopBatch is the per-iteration limit DrainLoop and FillLoop pass to
// Drain and Fill.
const loopBatch = 4096

// WaitStrategy decides how a DrainLoop or FillLoop idles after an
// iteration that made no progress.
//
// Idle receives the number of consecutive idle iterations so far (0 on the
// first) and returns the value to pass on the next idle iteration. Loops
// reset the counter to 0 whenever progress is made.
type WaitStrategy interface {
	Idle(idleCounter int) int
}

// WaitFunc adapts an ordinary function to WaitStrategy.
type WaitFunc func(idleCounter int) int

// Idle calls f(idleCounter).
func (f WaitFunc) Idle(idleCounter int) int {
	return f(idleCounter)
}

// ExitCondition is polled by DrainLoop and FillLoop once per iteration.
// The loop returns as soon as KeepRunning reports false.
type ExitCondition interface {
	KeepRunning() bool
}

// ExitFunc adapts an ordinary function to ExitCondition.
type ExitFunc func() bool

// KeepRunning calls f().
func (f ExitFunc) KeepRunning() bool {
	return f()
}

// ContextExit returns an ExitCondition that keeps running until ctx is
// done. Timeouts and cancellation are built with context.WithTimeout or
// context.WithCancel.
func ContextExit(ctx context.Context) ExitCondition {
	return ExitFunc(func() bool {
		return ctx.Err() == nil
	})
}

type spinWait struct {
	sw spin.Wait
}

func (w *spinWait) Idle(idleCounter int) int {
	if idleCounter == 0 {
		w.sw = spin.Wait{}
	}
	w.sw.Once()
	return idleCounter + 1
}

// SpinWait returns a WaitStrategy that issues CPU pause instructions.
// Suited to dedicated polling goroutines with latency budgets below the
// scheduler's. The returned value is stateful: one per loop.
func SpinWait() WaitStrategy {
	return &spinWait{}
}

// YieldWait returns a WaitStrategy that yields the processor on every
// idle iteration.
func YieldWait() WaitStrategy {
	return WaitFunc(func(idleCounter int) int {
		runtime.Gosched()
		return idleCounter + 1
	})
}

type backoffWait struct {
	b iox.Backoff
}

func (w *backoffWait) Idle(idleCounter int) int {
	if idleCounter == 0 {
		w.b.Reset()
	}
	w.b.Wait()
	return idleCounter + 1
}

// BackoffWait returns a WaitStrategy backed by [iox.Backoff], escalating
// from spinning to yielding to sleeping the longer the loop stays idle.
// The returned value is stateful: one per loop.
func BackoffWait() WaitStrategy {
	return &backoffWait{}
}

func checkLoopArgs(w WaitStrategy, exit ExitCondition) {
	if w == nil || exit == nil {
		panic(ErrNilFunc)
	}
}

// drainLoop drives drain until exit stops running.
func drainLoop[T any](drain func(func(T), int) int, consumer func(T), w WaitStrategy, exit ExitCondition) {
	idle := 0
	for exit.KeepRunning() {
		if drain(consumer, loopBatch) == 0 {
			idle = w.Idle(idle)
			continue
		}
		idle = 0
	}
}

// fillLoop drives fill until exit stops running.
func fillLoop[T any](fill func(func() T, int) int, supplier func() T, w WaitStrategy, exit ExitCondition) {
	idle := 0
	for exit.KeepRunning() {
		if fill(supplier, loopBatch) == 0 {
			idle = w.Idle(idle)
			continue
		}
		idle = 0
	}
}
