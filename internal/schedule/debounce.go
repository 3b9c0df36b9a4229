// Package schedule provides the two timing primitives shared by the session:
// a named latest-wins debouncer and a per-frame coalescer.
package schedule

import (
	"sync"
	"time"
)

// Default delays for the debounced operations of a session.
const (
	UploadSettleDelay = 500 * time.Millisecond
	GestureDelay      = 180 * time.Millisecond
	FilterDelay       = 150 * time.Millisecond
	FrameInterval     = 16 * time.Millisecond
)

type pending struct {
	timer *time.Timer
	fn    func()
	gen   uint64
}

// Debouncer delays named operations. Triggering a name again before its
// delay elapses discards the earlier call; only the latest runs, once.
type Debouncer struct {
	mu      sync.Mutex
	ops     map[string]*pending
	gen     uint64
	stopped bool
}

// NewDebouncer creates an empty debouncer.
func NewDebouncer() *Debouncer {
	return &Debouncer{ops: make(map[string]*pending)}
}

// Trigger schedules fn under name after delay, replacing any pending call.
func (d *Debouncer) Trigger(name string, delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if p, ok := d.ops[name]; ok {
		p.timer.Stop()
	}
	d.gen++
	gen := d.gen
	p := &pending{fn: fn, gen: gen}
	p.timer = time.AfterFunc(delay, func() { d.fire(name, gen) })
	d.ops[name] = p
}

func (d *Debouncer) fire(name string, gen uint64) {
	d.mu.Lock()
	p, ok := d.ops[name]
	if !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.ops, name)
	d.mu.Unlock()
	p.fn()
}

// Pending reports whether name has a call waiting.
func (d *Debouncer) Pending(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.ops[name]
	return ok
}

// Cancel drops the pending call for name.
func (d *Debouncer) Cancel(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.ops[name]
	if ok {
		p.timer.Stop()
		delete(d.ops, name)
	}
	return ok
}

// Flush runs the pending call for name immediately on the caller's goroutine.
func (d *Debouncer) Flush(name string) bool {
	d.mu.Lock()
	p, ok := d.ops[name]
	if ok {
		p.timer.Stop()
		delete(d.ops, name)
	}
	d.mu.Unlock()
	if ok {
		p.fn()
	}
	return ok
}

// Stop cancels every pending call and ignores later triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for name, p := range d.ops {
		p.timer.Stop()
		delete(d.ops, name)
	}
	d.stopped = true
}
