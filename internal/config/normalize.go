// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultBaudRate      = 115200
	DefaultTimeoutMs     = 250 // response window; bounded so a dead peer cannot stall the bus
	DefaultIntervalMs    = 2000
	DefaultMinIntervalMs = 500
	DefaultFrameSize     = 32
)

// Normalize applies post-validation defaulting.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	m := &cfg.Master

	if m.Serial.BaudRate == 0 {
		m.Serial.BaudRate = DefaultBaudRate
	}
	if m.Bus.TimeoutMs == 0 {
		m.Bus.TimeoutMs = DefaultTimeoutMs
	}
	if m.Poll.IntervalMs == 0 {
		m.Poll.IntervalMs = DefaultIntervalMs
	}
	if m.Events.MinIntervalMs == 0 {
		m.Events.MinIntervalMs = DefaultMinIntervalMs
	}

	for i := range m.Peers {
		if m.Peers[i].FrameSize == 0 {
			m.Peers[i].FrameSize = DefaultFrameSize
		}
	}
}
