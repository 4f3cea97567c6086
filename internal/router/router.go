// internal/router/router.go
package router

import (
	"errors"
	"fmt"
	"strconv"

	"busmaster/internal/bus"
	"busmaster/internal/command"
	"busmaster/internal/peer"
	"busmaster/internal/schema"
)

// HelpLine is the reply to HELP. One line, like every other response.
const HelpLine = "CMDS: SERVO SET <0-180> | STEPPER MOVE <n> | RELAY ON|OFF | STATUS | SENSORS | STOP"

// Transport is the exact bus contract the router uses. Request queues
// on the bus lock, so an operator command issued during a poll tick
// waits for the bus instead of being dropped.
type Transport interface {
	Request(addr byte, size int, payload []byte) ([]byte, error)
}

// Aggregator turns a raw response frame into one operator line.
type Aggregator interface {
	Aggregate(sch schema.Schema, raw []byte) (string, error)
}

// PollControl is the slice of the poller the router drives.
// SENSORS and STOP mutate poll state locally and never reach the bus.
type PollControl interface {
	Enable()
	Disable()
}

// Router maps parsed operator commands to exactly one peer and one
// bus transaction, then hands the response to the aggregator.
type Router struct {
	actuator peer.Peer
	bus      Transport
	agg      Aggregator
	polls    PollControl
}

// New wires the router. A registry without an actuator peer is a
// configuration error and fatal at startup.
func New(reg *peer.Registry, tr Transport, agg Aggregator, polls PollControl) (*Router, error) {
	if tr == nil {
		return nil, errors.New("router: transport required")
	}
	if agg == nil {
		return nil, errors.New("router: aggregator required")
	}
	if polls == nil {
		return nil, errors.New("router: poll control required")
	}

	actuator, err := reg.Lookup(peer.Actuator)
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	return &Router{actuator: actuator, bus: tr, agg: agg, polls: polls}, nil
}

// Handle processes one operator line and always returns exactly one
// response line, success or failure. Routed commands block until the
// peer answers or the bus transaction times out; there is no
// automatic retry, re-issuing the command is the operator's call.
func (r *Router) Handle(line string) string {
	cmd, err := command.Parse(line)
	if err != nil {
		return "ERR CMD " + err.Error()
	}

	if cmd.Local() {
		return r.handleLocal(cmd)
	}

	payload, reply := r.translate(cmd)

	raw, err := r.bus.Request(r.actuator.Address, r.actuator.FrameSize, []byte(payload))
	switch {
	case errors.Is(err, bus.ErrTimeout):
		return "ERR TIMEOUT " + r.actuator.Name
	case err != nil:
		return "ERR BUS " + r.actuator.Name
	}

	out, err := r.agg.Aggregate(reply, raw)
	if err != nil {
		return "ERR BADFRAME " + r.actuator.Name
	}
	return out
}

// handleLocal executes commands the master answers itself.
func (r *Router) handleLocal(cmd command.Command) string {
	switch cmd.Verb {
	case command.VerbSensors:
		r.polls.Enable()
		return "OK SENSORS"
	case command.VerbStop:
		// Idempotent: same ack whether polling was active or not.
		r.polls.Disable()
		return "OK STOP"
	case command.VerbHelp:
		return HelpLine
	}
	return "ERR CMD unroutable command"
}

// translate builds the ASCII bus payload for a routed command and
// selects the schema its reply is decoded with.
func (r *Router) translate(cmd command.Command) (string, schema.Schema) {
	switch cmd.Verb {
	case command.VerbServoSet:
		return "SERVO SET " + strconv.Itoa(cmd.Value), schema.Ack
	case command.VerbStepperMove:
		return "STEPPER MOVE " + strconv.Itoa(cmd.Value), schema.Ack
	case command.VerbRelay:
		if cmd.On {
			return "RELAY ON", schema.Ack
		}
		return "RELAY OFF", schema.Ack
	case command.VerbStatus:
		return "STATUS", r.actuator.Report
	}
	// Parse never yields another verb for a routed command.
	return "STATUS", r.actuator.Report
}
