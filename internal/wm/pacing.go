package wm

import (
	"time"

	"golang.org/x/time/rate"
)

// Default input pacing.
const (
	DefaultResizeDebounce = 80 * time.Millisecond
	DefaultFocusThrottle  = 100 * time.Millisecond
	DefaultPageThrottle   = 250 * time.Millisecond
)

// Debouncer implements a trailing-edge debounce on an event loop. Each burst
// event takes a new sequence number and schedules a flush carrying it; only
// the flush holding the latest number fires.
type Debouncer struct {
	seq uint64
}

// Next starts or extends a burst and returns the sequence number to flush with.
func (d *Debouncer) Next() uint64 {
	d.seq++
	return d.seq
}

// Current reports whether seq belongs to the last event of the burst.
func (d *Debouncer) Current(seq uint64) bool {
	return seq == d.seq
}

// Throttle is a leading-edge throttle: the first event passes and events
// within the following interval are dropped.
type Throttle struct {
	lim *rate.Limiter
	now func() time.Time
}

// NewThrottle returns a throttle admitting one event per interval. A
// non-positive interval admits everything.
func NewThrottle(interval time.Duration) *Throttle {
	t := &Throttle{now: time.Now}
	if interval > 0 {
		t.lim = rate.NewLimiter(rate.Every(interval), 1)
	}
	return t
}

// Allow reports whether an event arriving now may pass.
func (t *Throttle) Allow() bool {
	if t == nil || t.lim == nil {
		return true
	}
	return t.lim.AllowN(t.now(), 1)
}
