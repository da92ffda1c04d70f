package location

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the settle time before a search is issued.
const DefaultDebounce = 300 * time.Millisecond

// Result is the outcome of one submitted task.
type Result[T any] struct {
	Seq   uint64
	Value T
	Err   error
}

// LatestWins debounces a stream of submissions and applies only the newest
// result. Each Submit supersedes every earlier one: a pending task is dropped,
// and a task already running is left to finish but its result is discarded if
// a newer submission was issued after it, whatever the completion order.
type LatestWins[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	seq     uint64
	timer   *time.Timer
	latest  *Result[T]
	onApply func(Result[T])
	stopped bool
}

// NewLatestWins creates a guard. onApply, when non-nil, is called with every
// applied result, serialized and in issue order. It runs under the guard's
// lock and must not call back into it.
func NewLatestWins[T any](delay time.Duration, onApply func(Result[T])) *LatestWins[T] {
	if delay < 0 {
		delay = 0
	}
	return &LatestWins[T]{delay: delay, onApply: onApply}
}

// Submit schedules task to run after the debounce delay and returns its sequence number.
func (l *LatestWins[T]) Submit(ctx context.Context, task func(context.Context) (T, error)) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	seq := l.seq
	if l.stopped {
		return seq
	}
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.delay, func() {
		if !l.current(seq) {
			return
		}
		v, err := task(ctx)
		l.apply(Result[T]{Seq: seq, Value: v, Err: err})
	})
	return seq
}

// Latest returns the most recently applied result.
func (l *LatestWins[T]) Latest() (Result[T], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.latest == nil {
		return Result[T]{}, false
	}
	return *l.latest, true
}

// Stop drops any pending task. Running tasks finish but are not applied.
func (l *LatestWins[T]) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	l.seq++
	if l.timer != nil {
		l.timer.Stop()
	}
}

func (l *LatestWins[T]) current(seq uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return seq == l.seq && !l.stopped
}

func (l *LatestWins[T]) apply(r Result[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if r.Seq != l.seq || l.stopped {
		return
	}
	l.latest = &r
	if l.onApply != nil {
		l.onApply(r)
	}
}
