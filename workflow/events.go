package workflow

import (
	"log/slog"
	"sync"

	"github.com/deependr20/hrms-sub001/metrics"
)

// ProgressChanged is published after a task mutation that can affect
// parent or project aggregates has been committed.
type ProgressChanged struct {
	TaskID       uint
	ParentTaskID *uint
	ProjectID    *uint
}

// Bus is a small in-process event bus. Dispatch is synchronous within
// the publishing request; a panicking subscriber is contained so a
// best-effort consumer can never fail the triggering call.
type Bus struct {
	mu   sync.Mutex
	subs []func(ProgressChanged)
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(fn func(ProgressChanged)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

func (b *Bus) Publish(ev ProgressChanged) {
	b.mu.Lock()
	subs := make([]func(ProgressChanged), len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, fn := range subs {
		dispatch(fn, ev)
	}
}

func dispatch(fn func(ProgressChanged), ev ProgressChanged) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event subscriber panicked", "task_id", ev.TaskID, "panic", r)
			metrics.RollupFailures.WithLabelValues("panic").Inc()
		}
	}()
	fn(ev)
}
