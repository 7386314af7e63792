package schedule

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single execution of fn.
// Each Trigger restarts the delay timer; fn runs once the triggers go
// quiet for the full delay (trailing edge). A zero delay still defers
// execution to the timer goroutine rather than running inline, so
// Trigger never blocks on fn.
//
// Executions of fn are serialized: a timer callback and a Force never
// run fn concurrently with itself, and Stop waits for an in-flight
// execution before returning.
type Debouncer struct {
	// delay is the quiet period required before fn runs.
	delay time.Duration

	// fn is the function executed after the quiet period.
	fn func()

	// runMu serializes executions of fn.
	runMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	running sync.WaitGroup
	stopped bool
}

// NewDebouncer creates a Debouncer that runs fn after triggers have
// been quiet for delay.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{
		delay: delay,
		fn:    fn,
	}
}

// Trigger requests an execution of fn. Repeated triggers within the
// delay window collapse into one execution scheduled delay after the
// last trigger. Triggers after Stop are ignored.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.scheduleLocked()
}

// scheduleLocked arms a fresh timer under d.mu. Advancing the
// generation invalidates any expired timer whose callback has not run
// yet: without it, a trigger landing between timer expiry and the
// callback taking the lock would leave both the old callback and the
// re-armed timer live, executing fn twice for one coalesced burst.
func (d *Debouncer) scheduleLocked() {
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Force cancels any pending execution and runs fn immediately on the
// calling goroutine. It does nothing after Stop.
func (d *Debouncer) Force() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.running.Add(1)
	d.mu.Unlock()
	defer d.running.Done()

	d.runMu.Lock()
	defer d.runMu.Unlock()
	d.fn()
}

// Stop cancels any pending execution, waits for an in-flight fn to
// return, and makes all future triggers no-ops. Stop must not be
// called from within fn.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.running.Wait()
}

// fire runs on the timer goroutine once the quiet period elapses. A
// stale generation means the debouncer was re-armed, forced, or stopped
// after this timer expired; the execution belongs to the newer state.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.running.Add(1)
	d.mu.Unlock()
	defer d.running.Done()

	d.runMu.Lock()
	defer d.runMu.Unlock()
	d.fn()
}
