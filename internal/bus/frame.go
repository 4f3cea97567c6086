// internal/bus/frame.go
package bus

import "bytes"

// MaxAddress is the highest valid peer address (7-bit addressing).
const MaxAddress = 0x7F

// BuildFrame packs a payload into one on-wire frame for a peer:
// a single address byte followed by exactly size payload bytes.
// The payload is zero-padded or truncated to the declared size, so a
// frame never carries a partial or oversized payload.
func BuildFrame(addr byte, size int, payload []byte) []byte {
	frame := make([]byte, 1+size)
	frame[0] = addr
	copy(frame[1:], payload) // truncates when payload > size
	return frame
}

// TrimPayload strips frame padding and line endings from a received
// payload. The result is the ASCII text the peer actually produced.
func TrimPayload(payload []byte) string {
	return string(bytes.TrimRight(payload, "\x00 \r\n"))
}
