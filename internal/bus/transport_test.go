// internal/bus/transport_test.go
package bus

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goburrow/serial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake port ----

// fakePort scripts one response per transaction and records every
// write call verbatim.
type fakePort struct {
	mu      sync.Mutex
	writes  [][]byte
	events  []byte // 'W' / 'R' sequence across transactions
	respond func(frame []byte) []byte
	readErr error

	pending []byte
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	buf := make([]byte, len(p))
	copy(buf, p)
	f.writes = append(f.writes, buf)
	f.events = append(f.events, 'W')

	if f.respond != nil {
		f.pending = f.respond(buf)
	}
	return len(p), nil
}

func (f *fakePort) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, 'R')

	if f.readErr != nil {
		return 0, f.readErr
	}
	if len(f.pending) == 0 {
		return 0, serial.ErrTimeout
	}

	n := copy(p, f.pending)
	f.pending = f.pending[n:]
	return n, nil
}

func echoOK(frame []byte) []byte {
	resp := make([]byte, len(frame)-1)
	copy(resp, "OK")
	return resp
}

// ---- tests ----

func TestRequest_PadsPayloadToFrameSize(t *testing.T) {
	port := &fakePort{respond: echoOK}
	tr, err := NewTransport(port, 50*time.Millisecond)
	require.NoError(t, err)

	resp, err := tr.Request(0x10, 32, []byte("STATUS"))
	require.NoError(t, err)
	assert.Len(t, resp, 32)

	require.Len(t, port.writes, 1)
	frame := port.writes[0]
	assert.Len(t, frame, 33, "address byte + padded payload")
	assert.Equal(t, byte(0x10), frame[0])
	assert.Equal(t, "STATUS", TrimPayload(frame[1:]))
}

func TestRequest_TruncatesOversizedPayload(t *testing.T) {
	port := &fakePort{respond: echoOK}
	tr, err := NewTransport(port, 50*time.Millisecond)
	require.NoError(t, err)

	_, err = tr.Request(0x10, 4, []byte("LONG PAYLOAD"))
	require.NoError(t, err)

	require.Len(t, port.writes, 1)
	assert.Len(t, port.writes[0], 5)
	assert.Equal(t, "LONG", string(port.writes[0][1:]))
}

func TestRequest_ReadsExactFrameSize(t *testing.T) {
	port := &fakePort{respond: func(frame []byte) []byte {
		resp := make([]byte, len(frame)-1)
		copy(resp, "SERVO=0 RELAY=OFF STEPPER=0")
		return resp
	}}
	tr, err := NewTransport(port, 50*time.Millisecond)
	require.NoError(t, err)

	resp, err := tr.Request(0x10, 32, []byte("STATUS"))
	require.NoError(t, err)
	require.Len(t, resp, 32)
	assert.Equal(t, "SERVO=0 RELAY=OFF STEPPER=0", TrimPayload(resp))
}

func TestRequest_TimeoutOnSilentPeer(t *testing.T) {
	port := &fakePort{} // no responder: every read times out
	tr, err := NewTransport(port, 20*time.Millisecond)
	require.NoError(t, err)

	_, err = tr.Request(0x10, 32, []byte("STATUS"))
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestRequest_TimeoutOnShortResponse(t *testing.T) {
	port := &fakePort{respond: func(frame []byte) []byte {
		return []byte("OK") // 2 bytes, then silence
	}}
	tr, err := NewTransport(port, 20*time.Millisecond)
	require.NoError(t, err)

	_, err = tr.Request(0x10, 32, []byte("STATUS"))
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestRequest_RejectsEightBitAddress(t *testing.T) {
	port := &fakePort{respond: echoOK}
	tr, err := NewTransport(port, 20*time.Millisecond)
	require.NoError(t, err)

	_, err = tr.Request(0x80, 32, []byte("STATUS"))
	require.Error(t, err)
	assert.Empty(t, port.writes, "invalid address must not touch the bus")
}

func TestRequest_PortErrorIsNotTimeout(t *testing.T) {
	port := &fakePort{readErr: errors.New("device unplugged")}
	tr, err := NewTransport(port, 20*time.Millisecond)
	require.NoError(t, err)

	_, err = tr.Request(0x10, 32, []byte("STATUS"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestTryRequest_BusyWhileRequestInFlight(t *testing.T) {
	inFlight := make(chan struct{})
	release := make(chan struct{})

	port := &fakePort{}
	blockOnce := sync.OnceFunc(func() {
		close(inFlight)
		<-release
	})
	port.respond = func(frame []byte) []byte {
		blockOnce()
		resp := make([]byte, len(frame)-1)
		copy(resp, "OK")
		return resp
	}

	tr, err := NewTransport(port, time.Second)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := tr.Request(0x10, 32, []byte("STATUS"))
		assert.NoError(t, err)
	}()

	<-inFlight
	_, err = tr.TryRequest(0x20, 32, []byte("READ"))
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	<-done

	// The deferred caller gets the bus once it is free.
	_, err = tr.TryRequest(0x20, 32, []byte("READ"))
	assert.NoError(t, err)
}

func TestTransactionsNeverInterleave(t *testing.T) {
	port := &fakePort{respond: echoOK}
	tr, err := NewTransport(port, time.Second)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, err := tr.Request(0x10, 32, []byte("STATUS"))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	// Every transaction is one full-frame write followed by its
	// reads; two writes never appear back to back and no write
	// carries a partial frame.
	for _, w := range port.writes {
		assert.Len(t, w, 33)
	}
	for i := 1; i < len(port.events); i++ {
		if port.events[i] == 'W' {
			assert.Equal(t, byte('R'), port.events[i-1], "write must follow a completed read")
		}
	}
}
