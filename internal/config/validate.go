// internal/config/validate.go
package config

import (
	"fmt"

	"busmaster/internal/schema"
)

// maxAddress is the highest valid 7-bit peer address.
const maxAddress = 0x7F

// requiredPeers are the logical names the orchestrator cannot run
// without: the router targets the actuator, the poller targets the
// sensor hub. A config missing either is fatal at startup.
var requiredPeers = []string{"actuator", "sensor-hub"}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration. Zero values that Normalize will
// default (baud rate, timeouts, frame sizes) are accepted here.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}

	m := &cfg.Master

	if m.Serial.Device == "" {
		return fmt.Errorf("config: serial.device is required")
	}
	if m.Serial.BaudRate < 0 {
		return fmt.Errorf("config: serial.baud_rate must be >= 0")
	}
	if m.Bus.TimeoutMs < 0 {
		return fmt.Errorf("config: bus.timeout_ms must be >= 0")
	}
	if m.Poll.IntervalMs < 0 {
		return fmt.Errorf("config: poll.interval_ms must be >= 0")
	}
	if m.Events.MinIntervalMs < 0 {
		return fmt.Errorf("config: events.min_interval_ms must be >= 0")
	}

	if len(m.Peers) == 0 {
		return fmt.Errorf("config: at least one peer is required")
	}

	names := make(map[string]struct{}, len(m.Peers))
	addrs := make(map[uint8]string, len(m.Peers))

	for _, p := range m.Peers {
		if p.Name == "" {
			return fmt.Errorf("config: peer with address %#x: name is required", p.Address)
		}
		if p.Address > maxAddress {
			return fmt.Errorf("config: peer %q: address %#x exceeds 7-bit range", p.Name, p.Address)
		}
		if p.FrameSize < 0 {
			return fmt.Errorf("config: peer %q: frame_size must be >= 0", p.Name)
		}
		if p.Schema == "" {
			return fmt.Errorf("config: peer %q: schema is required", p.Name)
		}
		if _, ok := schema.ByName(p.Schema); !ok {
			return fmt.Errorf("config: peer %q: unknown schema %q", p.Name, p.Schema)
		}

		if _, dup := names[p.Name]; dup {
			return fmt.Errorf("config: duplicate peer name %q", p.Name)
		}
		names[p.Name] = struct{}{}

		if owner, dup := addrs[p.Address]; dup {
			return fmt.Errorf("config: address %#x used by peers %q and %q", p.Address, owner, p.Name)
		}
		addrs[p.Address] = p.Name
	}

	for _, want := range requiredPeers {
		if _, ok := names[want]; !ok {
			return fmt.Errorf("config: required peer %q is not configured", want)
		}
	}

	return nil
}
