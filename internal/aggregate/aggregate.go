// internal/aggregate/aggregate.go
package aggregate

import (
	"strings"
	"sync"
	"time"

	"busmaster/internal/bus"
	"busmaster/internal/schema"
)

// ButtonMarker is the event marker token a peer appends to its
// response when its button was pressed since the last exchange.
const ButtonMarker = "+BTN PRESSED"

// Aggregator decodes fixed-size peer frames into operator lines and
// merges asynchronous event markers into them. Event state is owned
// here, behind a single guard; both the router and the poller feed
// frames through the same instance.
type Aggregator struct {
	mu      sync.Mutex
	button  *Debounce
	pending bool // latched button event, not yet surfaced
	now     func() time.Time
}

// New creates an aggregator. minInterval is the minimum spacing
// between two surfaced button events; markers repeating faster than
// that are treated as one press.
func New(minInterval time.Duration) *Aggregator {
	return &Aggregator{
		button: NewDebounce(minInterval),
		now:    time.Now,
	}
}

// Aggregate turns one raw response frame into one operator line.
//
// The frame is trimmed of padding, checked for a trailing event
// marker, and decoded against the peer's schema. A malformed frame
// fails as a whole; the event marker, if present, is still observed
// so the press is not lost with the frame.
//
// A latched event is appended to exactly one line and cleared in the
// same step. Two markers latched before being surfaced coalesce into
// one suffix, never a queue.
func (a *Aggregator) Aggregate(sch schema.Schema, raw []byte) (string, error) {
	payload := bus.TrimPayload(raw)

	payload, present := cutMarker(payload)
	a.observe(present)

	values, err := sch.Decode(payload)
	if err != nil {
		return "", err
	}

	line := sch.Format(values)
	if a.consume() {
		line += " " + ButtonMarker
	}
	return line, nil
}

// observe runs the marker observation through the edge detector and
// latches a fired event. Coalescing: latching while already pending
// is a no-op.
func (a *Aggregator) observe(present bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.button.Observe(present, a.now()) {
		a.pending = true
	}
}

// consume clears the latch and reports whether an event was pending.
// At-most-once: the caller surfaces the event on exactly the line it
// is formatting now.
func (a *Aggregator) consume() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.pending
	a.pending = false
	return p
}

// cutMarker strips a trailing event marker from the payload.
func cutMarker(payload string) (string, bool) {
	if !strings.HasSuffix(payload, ButtonMarker) {
		return payload, false
	}
	return strings.TrimRight(strings.TrimSuffix(payload, ButtonMarker), " "), true
}
