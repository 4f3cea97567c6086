// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run drives the tick loop until ctx is cancelled. The ticker runs
// for the process lifetime; ticks that arrive while polling is
// disabled do nothing, which makes STOP effective on or before the
// next scheduled tick without cancelling an in-flight transaction.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.mu.Lock()
			enabled := p.enabled
			p.mu.Unlock()

			if enabled {
				p.pollOnce()
			}
		}
	}
}
