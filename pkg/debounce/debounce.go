package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDelay is the quiet period used when none is given.
const DefaultDelay = 300 * time.Millisecond

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithClock replaces the wall clock.
func WithClock(clock clockwork.Clock) Option {
	return func(d *Debouncer) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// WithDelay sets the quiet period. Non-positive values are ignored.
func WithDelay(delay time.Duration) Option {
	return func(d *Debouncer) {
		if delay > 0 {
			d.delay = delay
		}
	}
}

type pending struct {
	seq   uint64
	timer clockwork.Timer
}

// Debouncer runs a function once calls for the same key have stopped for the
// quiet period. Each key is debounced independently. Safe for concurrent use.
type Debouncer struct {
	clock clockwork.Clock
	delay time.Duration

	mu      sync.Mutex
	seq     uint64
	pending map[string]*pending
	stopped bool
}

// New creates a Debouncer.
func New(opts ...Option) *Debouncer {
	d := &Debouncer{
		clock:   clockwork.NewRealClock(),
		delay:   DefaultDelay,
		pending: make(map[string]*pending),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger schedules fn for key, replacing whatever was pending for it.
// It reports false after Stop.
func (d *Debouncer) Trigger(key string, fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return false
	}
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}

	d.seq++
	seq := d.seq
	p := &pending{seq: seq}
	p.timer = d.clock.AfterFunc(d.delay, func() {
		// A replaced timer may already be running; only the latest call wins.
		d.mu.Lock()
		cur, ok := d.pending[key]
		if !ok || cur.seq != seq || d.stopped {
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		d.mu.Unlock()

		fn()
	})
	d.pending[key] = p
	return true
}

// Cancel drops the pending call for key, if any.
func (d *Debouncer) Cancel(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pending[key]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(d.pending, key)
	return true
}

// Pending returns the number of keys with a scheduled call.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop cancels every pending call. Later Trigger calls are rejected.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, key)
	}
}
