// internal/peer/peer.go
package peer

import (
	"fmt"

	"busmaster/internal/bus"
	"busmaster/internal/schema"
)

// Well-known peer names. The router needs the actuator and the poller
// needs the sensor hub; a config that omits either is rejected at
// startup, never discovered at dispatch time.
const (
	Actuator  = "actuator"
	SensorHub = "sensor-hub"
)

// Peer is one subordinate device on the shared bus.
// Static configuration, read-only at runtime.
type Peer struct {
	Name      string
	Address   byte // 7-bit bus address
	FrameSize int  // fixed response frame size in bytes
	Report    schema.Schema
}

// Registry maps logical peer names to bus peers.
type Registry struct {
	peers map[string]Peer
}

// NewRegistry builds a registry from a fixed peer set.
// Names and addresses must be unique; addresses must fit 7 bits.
func NewRegistry(peers ...Peer) (*Registry, error) {
	byName := make(map[string]Peer, len(peers))
	byAddr := make(map[byte]string, len(peers))

	for _, p := range peers {
		if p.Name == "" {
			return nil, fmt.Errorf("peer: name required (address %#x)", p.Address)
		}
		if p.Address > bus.MaxAddress {
			return nil, fmt.Errorf("peer %q: address %#x out of 7-bit range", p.Name, p.Address)
		}
		if p.FrameSize <= 0 {
			return nil, fmt.Errorf("peer %q: frame size must be > 0", p.Name)
		}
		if _, dup := byName[p.Name]; dup {
			return nil, fmt.Errorf("peer %q: duplicate name", p.Name)
		}
		if owner, dup := byAddr[p.Address]; dup {
			return nil, fmt.Errorf("peer %q: address %#x already used by %q", p.Name, p.Address, owner)
		}
		byName[p.Name] = p
		byAddr[p.Address] = p.Name
	}

	return &Registry{peers: byName}, nil
}

// Lookup resolves a logical peer name.
func (r *Registry) Lookup(name string) (Peer, error) {
	p, ok := r.peers[name]
	if !ok {
		return Peer{}, fmt.Errorf("peer: unknown peer %q", name)
	}
	return p, nil
}
