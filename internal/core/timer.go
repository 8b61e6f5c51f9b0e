package core

import "time"

// Interval fires at a steady period, driving the viewer's slideshow mode.
type Interval struct {
	period      time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewInterval constructs an Interval firing every period. Non-positive periods
// fall back to two seconds.
func NewInterval(period time.Duration) *Interval {
	iv := &Interval{now: time.Now}
	iv.SetPeriod(period)
	return iv
}

// SetPeriod changes the period. It is safe to call from the main loop.
func (iv *Interval) SetPeriod(period time.Duration) {
	if period <= 0 {
		period = 2 * time.Second
	}
	iv.period = period
}

// Period returns the current period.
func (iv *Interval) Period() time.Duration { return iv.period }

// Reset restarts the accumulator so the next firing is a full period away.
func (iv *Interval) Reset() {
	iv.accumulator = 0
	iv.last = iv.now()
}

// Due reports whether a full period has elapsed since the last firing.
func (iv *Interval) Due() bool {
	now := iv.now()
	if iv.last.IsZero() {
		iv.last = now
	}
	iv.accumulator += now.Sub(iv.last)
	iv.last = now
	if iv.accumulator >= iv.period {
		iv.accumulator -= iv.period
		if iv.accumulator >= iv.period {
			iv.accumulator = 0
		}
		return true
	}
	return false
}
