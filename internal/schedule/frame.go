package schedule

import (
	"sync"
	"time"
)

// Coalescer runs at most one update per frame interval. Updates submitted
// within one frame replace each other; the latest one runs.
type Coalescer struct {
	run      sync.Mutex // held while an update runs
	mu       sync.Mutex
	interval time.Duration
	next     func()
	timer    *time.Timer
}

// NewCoalescer creates a coalescer with the given frame interval.
func NewCoalescer(interval time.Duration) *Coalescer {
	if interval <= 0 {
		interval = FrameInterval
	}
	return &Coalescer{interval: interval}
}

// Submit queues fn for the next frame.
func (c *Coalescer) Submit(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = fn
	if c.timer == nil {
		c.timer = time.AfterFunc(c.interval, c.tick)
	}
}

func (c *Coalescer) tick() {
	c.run.Lock()
	defer c.run.Unlock()
	c.mu.Lock()
	fn := c.next
	c.next = nil
	c.timer = nil
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Flush runs the queued update now, if any. It also waits for an update
// already running on the timer, so state read afterwards includes it.
func (c *Coalescer) Flush() bool {
	c.run.Lock()
	defer c.run.Unlock()
	c.mu.Lock()
	fn := c.next
	c.next = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
	return fn != nil
}
