// internal/peer/builder.go
package peer

import (
	"fmt"

	"busmaster/internal/config"
	"busmaster/internal/schema"
)

// Build converts the validated, normalized peer configuration into a
// runtime registry. Unknown schema names are rejected here so that a
// misconfigured peer is fatal at startup, not at first use.
func Build(cfgPeers []config.PeerConfig) (*Registry, error) {
	peers := make([]Peer, 0, len(cfgPeers))

	for _, pc := range cfgPeers {
		sch, ok := schema.ByName(pc.Schema)
		if !ok {
			return nil, fmt.Errorf("peer %q: unknown schema %q", pc.Name, pc.Schema)
		}

		peers = append(peers, Peer{
			Name:      pc.Name,
			Address:   pc.Address,
			FrameSize: pc.FrameSize,
			Report:    sch,
		})
	}

	return NewRegistry(peers...)
}
