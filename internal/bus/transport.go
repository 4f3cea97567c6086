// internal/bus/transport.go
package bus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/goburrow/serial"
)

// ErrTimeout reports a peer that did not answer within the response
// window. The bus is released; the caller decides whether to retry.
var ErrTimeout = errors.New("bus: response timeout")

// ErrBusy reports that the bus is held by another transaction.
// Only TryRequest returns it; Request waits instead.
var ErrBusy = errors.New("bus: busy")

// Port is the byte-level device the transport drives. Reads are
// expected to return within the device's own read timeout.
type Port interface {
	io.ReadWriter
}

// Transport serializes request/response transactions on the shared
// half-duplex bus. There is exactly one master; at most one
// transaction is in flight at any instant, and a transaction is
// atomic: the frame write fully completes, then the response read
// fully completes, before the bus is released.
type Transport struct {
	mu      sync.Mutex
	port    Port
	timeout time.Duration
}

// NewTransport wraps a port with the single-master bus discipline.
func NewTransport(port Port, timeout time.Duration) (*Transport, error) {
	if port == nil {
		return nil, errors.New("bus: port required")
	}
	if timeout <= 0 {
		return nil, errors.New("bus: timeout must be > 0")
	}
	return &Transport{port: port, timeout: timeout}, nil
}

// Request performs one blocking transaction: write a frame to addr,
// then read exactly size response bytes. Callers queue on the bus
// lock, so a request issued while another transaction is in flight
// waits rather than being dropped.
func (t *Transport) Request(addr byte, size int, payload []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transact(addr, size, payload)
}

// TryRequest performs one transaction only if the bus is idle.
// It returns ErrBusy without touching the port when another
// transaction holds the bus. Background producers use this so an
// operator command keeps priority over a scheduled tick.
func (t *Transport) TryRequest(addr byte, size int, payload []byte) ([]byte, error) {
	if !t.mu.TryLock() {
		return nil, ErrBusy
	}
	defer t.mu.Unlock()
	return t.transact(addr, size, payload)
}

// transact runs one write + read cycle. Caller holds the bus lock.
func (t *Transport) transact(addr byte, size int, payload []byte) ([]byte, error) {
	if addr > MaxAddress {
		return nil, fmt.Errorf("bus: address %#x out of 7-bit range", addr)
	}
	if size <= 0 {
		return nil, errors.New("bus: frame size must be > 0")
	}

	// One Write call per frame: the address byte and the padded
	// payload must never be split across writes on the shared bus.
	frame := BuildFrame(addr, size, payload)
	if _, err := t.port.Write(frame); err != nil {
		return nil, fmt.Errorf("bus: frame write: %w", err)
	}

	return t.readResponse(size)
}

// readResponse reads exactly size bytes or fails with ErrTimeout.
// There is no framing delimiter and no checksum in this protocol, so
// a short read is indistinguishable from a dead peer; both surface
// as a timeout.
func (t *Transport) readResponse(size int) ([]byte, error) {
	buf := make([]byte, size)
	deadline := time.Now().Add(t.timeout)

	for got := 0; got < size; {
		if time.Now().After(deadline) {
			return nil, ErrTimeout
		}

		n, err := t.port.Read(buf[got:])
		got += n

		switch {
		case err == nil:
			continue
		case isTimeout(err):
			if got < size {
				return nil, ErrTimeout
			}
		default:
			return nil, fmt.Errorf("bus: response read: %w", err)
		}
	}

	return buf, nil
}

func isTimeout(err error) bool {
	return errors.Is(err, serial.ErrTimeout) || errors.Is(err, os.ErrDeadlineExceeded)
}
