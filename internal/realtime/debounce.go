package realtime

import (
	"context"
	"log"
	"sync"
	"time"
)

// Debouncer coalesces bursts of invalidation signals into a single trailing
// refresh. At most one refresh runs at a time; signals arriving while one is
// in flight collapse into exactly one follow-up, never an unbounded queue.
type Debouncer struct {
	mu       sync.Mutex
	clock    Clock
	delay    time.Duration
	refresh  func(ctx context.Context) error
	timer    Timer
	running  bool
	trailing bool
}

func NewDebouncer(clock Clock, delay time.Duration, refresh func(ctx context.Context) error) *Debouncer {
	return &Debouncer{clock: clock, delay: delay, refresh: refresh}
}

// Schedule arms (or re-arms) the trailing refresh.
func (d *Debouncer) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		d.trailing = true
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.delay, d.fire)
}

// Flush runs any pending refresh immediately, synchronously. Used by tests
// and by shutdown paths.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.timer != nil || d.trailing
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.trailing = false
	d.mu.Unlock()
	if pending {
		d.run()
	}
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	if d.running {
		d.trailing = true
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()
	d.run()
}

func (d *Debouncer) run() {
	d.mu.Lock()
	if d.running {
		d.trailing = true
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	if err := d.refresh(context.Background()); err != nil {
		log.Printf("background refresh failed: %v", err)
	}

	d.mu.Lock()
	d.running = false
	again := d.trailing
	d.trailing = false
	if again && d.timer == nil {
		d.timer = d.clock.AfterFunc(d.delay, d.fire)
	}
	d.mu.Unlock()
}
