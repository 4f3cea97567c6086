// internal/bus/serial.go
package bus

import (
	"errors"
	"time"

	"github.com/goburrow/serial"
)

// SerialConfig is the minimal port config the master needs.
type SerialConfig struct {
	Device      string
	BaudRate    int
	ReadTimeout time.Duration
}

// OpenSerial opens the shared bus serial device. The port's own read
// timeout is set below the transport's response window so a silent
// peer surfaces as ErrTimeout rather than a wedged Read.
func OpenSerial(cfg SerialConfig) (serial.Port, error) {
	if cfg.Device == "" {
		return nil, errors.New("bus: serial device required")
	}
	if cfg.BaudRate <= 0 {
		return nil, errors.New("bus: baud rate must be > 0")
	}
	if cfg.ReadTimeout <= 0 {
		return nil, errors.New("bus: read timeout must be > 0")
	}

	return serial.Open(&serial.Config{
		Address:  cfg.Device,
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.ReadTimeout,
	})
}
