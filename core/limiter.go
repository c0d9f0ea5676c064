package core

import (
	"errors"
	"fmt"
	"sync"
)

// ErrCallLimitExceeded is returned by CallLimiter.Acquire once the budget is spent.
var ErrCallLimitExceeded = errors.New("call limit exceeded")

// CallLimiter bounds the number of model calls made during one run.
type CallLimiter struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewCallLimiter creates a limiter allowing max calls. If max == 0, unlimited
// calls are allowed.
func NewCallLimiter(max int) *CallLimiter {
	return &CallLimiter{max: max}
}

// Acquire reserves one call. A refused call does not count.
func (l *CallLimiter) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.max > 0 && l.count >= l.max {
		return fmt.Errorf("%w: %d", ErrCallLimitExceeded, l.max)
	}
	l.count++

	return nil
}

// Count returns the number of calls acquired so far.
func (l *CallLimiter) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.count
}

// Remaining returns how many calls are left, or -1 when unlimited.
func (l *CallLimiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.max == 0 {
		return -1
	}

	return l.max - l.count
}
