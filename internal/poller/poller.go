// internal/poller/poller.go
package poller

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"busmaster/internal/bus"
	"busmaster/internal/peer"
	"busmaster/internal/schema"
)

// ReadRequest is the payload sent to the sensor peer on every tick.
const ReadRequest = "READ"

// Transport is the exact bus contract the poller uses. TryRequest
// must fail fast with bus.ErrBusy instead of queueing, so a tick that
// loses the bus to an operator command is deferred, not stacked.
type Transport interface {
	TryRequest(addr byte, size int, payload []byte) ([]byte, error)
}

// Aggregator turns a raw response frame into one operator line.
type Aggregator interface {
	Aggregate(sch schema.Schema, raw []byte) (string, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Target   peer.Peer
	Interval time.Duration
}

// State is a snapshot of the poll state machine.
type State struct {
	Enabled  bool
	Interval time.Duration
	LastPoll time.Time
}

// Poller periodically reads the sensor peer while enabled.
// Two states: disabled (initial) and enabled. SENSORS enables, STOP
// disables; both are idempotent. Disabling never interrupts an
// in-flight transaction, it only stops further ticks from polling.
type Poller struct {
	cfg    Config
	bus    Transport
	agg    Aggregator
	out    chan<- string
	logger *slog.Logger

	mu       sync.Mutex
	enabled  bool
	lastPoll time.Time
}

// New creates a poller with immutable config. It starts disabled.
func New(cfg Config, tr Transport, agg Aggregator, out chan<- string, logger *slog.Logger) (*Poller, error) {
	if cfg.Target.Name == "" {
		return nil, errors.New("poller: target peer required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if tr == nil {
		return nil, errors.New("poller: transport required")
	}
	if agg == nil {
		return nil, errors.New("poller: aggregator required")
	}
	if out == nil {
		return nil, errors.New("poller: output channel required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{cfg: cfg, bus: tr, agg: agg, out: out, logger: logger}, nil
}

// Enable arms polling. Idempotent.
func (p *Poller) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = true
}

// Disable disarms polling. Idempotent; a no-op when already disabled.
func (p *Poller) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = false
}

// CurrentState returns a snapshot of the poll state.
func (p *Poller) CurrentState() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{Enabled: p.enabled, Interval: p.cfg.Interval, LastPoll: p.lastPoll}
}

// pollOnce issues one read transaction if the bus is free and emits
// the formatted line. Every per-tick failure is logged and swallowed;
// polling never halts on its own.
func (p *Poller) pollOnce() {
	raw, err := p.bus.TryRequest(p.cfg.Target.Address, p.cfg.Target.FrameSize, []byte(ReadRequest))

	switch {
	case errors.Is(err, bus.ErrBusy):
		// Operator transaction holds the bus; this tick is
		// deferred to the next interval.
		p.logger.Debug("bus busy, poll deferred", "peer", p.cfg.Target.Name)
		return
	case errors.Is(err, bus.ErrTimeout):
		p.logger.Warn("poll timeout", "peer", p.cfg.Target.Name)
		return
	case err != nil:
		p.logger.Warn("poll failed", "peer", p.cfg.Target.Name, "err", err)
		return
	}

	p.mu.Lock()
	p.lastPoll = time.Now()
	p.mu.Unlock()

	line, err := p.agg.Aggregate(p.cfg.Target.Report, raw)
	if err != nil {
		p.logger.Warn("poll frame rejected", "peer", p.cfg.Target.Name, "err", err)
		return
	}

	p.out <- line
}
