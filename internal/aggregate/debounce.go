// internal/aggregate/debounce.go
package aggregate

import "time"

// debounceState is the edge-detection state for one event kind.
type debounceState int

const (
	// debounceIdle: no marker seen; the next marker fires an event.
	debounceIdle debounceState = iota

	// debounceActive: the marker is still present in successive
	// frames; repeats do not fire again.
	debounceActive

	// debounceCooldown: the marker went away; a new marker fires
	// only once the minimum inter-event interval has elapsed.
	debounceCooldown
)

// Debounce collapses a marker that persists across frames into one
// event per physical occurrence. It is a pure edge detector driven by
// observations, decoupled from any loop timing.
type Debounce struct {
	minInterval time.Duration
	state       debounceState
	firedAt     time.Time
}

// NewDebounce creates an idle edge detector with the given minimum
// interval between fired events.
func NewDebounce(minInterval time.Duration) *Debounce {
	return &Debounce{minInterval: minInterval}
}

// Observe records whether the marker was present in the current frame
// and reports whether that observation fires a new event.
func (d *Debounce) Observe(present bool, now time.Time) bool {
	switch d.state {
	case debounceIdle:
		if present {
			d.state = debounceActive
			d.firedAt = now
			return true
		}

	case debounceActive:
		if !present {
			d.state = debounceCooldown
		}

	case debounceCooldown:
		if now.Sub(d.firedAt) < d.minInterval {
			return false
		}
		if present {
			d.state = debounceActive
			d.firedAt = now
			return true
		}
		d.state = debounceIdle
	}

	return false
}
