package session

import "time"

// DefaultOverlayDuration is how long the "wiping" flag stays raised after a reset
const DefaultOverlayDuration = 400 * time.Millisecond

// stopper is the part of *time.Timer the overlay needs
type stopper interface {
	Stop() bool
}

// Scheduler runs f once after d. It exists so tests can fire timers by hand.
type Scheduler func(d time.Duration, f func()) stopper

func afterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// overlay tracks the transition flag. Each raise bumps the generation and
// stops the pending timer, so only the latest raise can lower the flag.
// Callers hold the controller mutex.
type overlay struct {
	duration   time.Duration
	schedule   Scheduler
	active     bool
	generation uint64
	timer      stopper
}

// raise sets the flag and arms a timer that calls done with the raise's generation
func (o *overlay) raise(done func(gen uint64)) {
	o.generation++
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	if o.duration <= 0 {
		o.active = false
		return
	}
	o.active = true
	gen := o.generation
	o.timer = o.schedule(o.duration, func() { done(gen) })
}

// lower clears the flag if gen is still the latest raise
func (o *overlay) lower(gen uint64) bool {
	if gen != o.generation || !o.active {
		return false
	}
	o.active = false
	o.timer = nil
	return true
}

func (o *overlay) stop() {
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.active = false
}
