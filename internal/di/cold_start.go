package di

import (
	"sync/atomic"
	"time"
)

// ColdStartTracker tracks whether an invocation is the first one served by
// this process
type ColdStartTracker struct {
	startedAt time.Time
	served    atomic.Bool
}

// NewColdStartTracker creates a tracker starting now
func NewColdStartTracker() *ColdStartTracker {
	return &ColdStartTracker{startedAt: time.Now()}
}

// GetTimeSinceColdStart returns the time since the process started
func (t *ColdStartTracker) GetTimeSinceColdStart() time.Duration {
	return time.Since(t.startedAt)
}

// MarkInvocation reports true exactly once, for the first invocation
func (t *ColdStartTracker) MarkInvocation() bool {
	return t.served.CompareAndSwap(false, true)
}
