// internal/aggregate/aggregate_test.go
package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"busmaster/internal/schema"
)

// frame pads an ASCII payload to a 32-byte frame the way the
// transport delivers it.
func frame(payload string) []byte {
	buf := make([]byte, 32)
	copy(buf, payload)
	return buf
}

// newTestAggregator returns an aggregator with a controllable clock.
func newTestAggregator(minInterval time.Duration) (*Aggregator, *time.Time) {
	a := New(minInterval)
	now := time.Unix(1000, 0)
	a.now = func() time.Time { return now }
	return a, &now
}

func TestAggregate_PlainAck(t *testing.T) {
	a, _ := newTestAggregator(time.Second)

	line, err := a.Aggregate(schema.Ack, frame("OK SERVO"))
	require.NoError(t, err)
	assert.Equal(t, "OK SERVO", line)
}

func TestAggregate_StatusLine(t *testing.T) {
	a, _ := newTestAggregator(time.Second)

	line, err := a.Aggregate(schema.ActuatorStatus, frame("SERVO=180 RELAY=OFF STEPPER=0"))
	require.NoError(t, err)
	assert.Equal(t, "SERVO=180 RELAY=OFF STEPPER=0", line)
}

func TestAggregate_MarkerSurfacedOnSameLine(t *testing.T) {
	a, _ := newTestAggregator(time.Second)

	line, err := a.Aggregate(schema.Ack, frame("OK SERVO +BTN PRESSED"))
	require.NoError(t, err)
	assert.Equal(t, "OK SERVO +BTN PRESSED", line)
}

func TestAggregate_MarkerDoesNotPersist(t *testing.T) {
	a, now := newTestAggregator(time.Second)

	_, err := a.Aggregate(schema.Ack, frame("OK RELAY ON +BTN PRESSED"))
	require.NoError(t, err)

	*now = now.Add(2 * time.Second)
	line, err := a.Aggregate(schema.Ack, frame("OK RELAY OFF"))
	require.NoError(t, err)
	assert.Equal(t, "OK RELAY OFF", line, "event must surface at most once")
}

func TestAggregate_MarkerOnStatusFrame(t *testing.T) {
	a, _ := newTestAggregator(time.Second)

	line, err := a.Aggregate(schema.ActuatorStatus, frame("SERVO=90 RELAY=ON STEPPER=5 +BTN PRESSED"))
	require.NoError(t, err)
	assert.Equal(t, "SERVO=90 RELAY=ON STEPPER=5 +BTN PRESSED", line)
}

func TestAggregate_BadFrameFailsWhole(t *testing.T) {
	a, _ := newTestAggregator(time.Second)

	_, err := a.Aggregate(schema.ActuatorStatus, frame("SERVO=90 RELAY=BROKEN STEPPER=5"))
	var de *schema.DecodeError
	require.ErrorAs(t, err, &de)
}

func TestAggregate_MarkerSurvivesBadFrame(t *testing.T) {
	a, now := newTestAggregator(time.Second)

	// Marker arrives on a frame whose fields fail to parse.
	_, err := a.Aggregate(schema.ActuatorStatus, frame("SERVO=?? RELAY=ON STEPPER=0 +BTN PRESSED"))
	require.Error(t, err)

	// The press is latched and coalesces onto the next good line.
	*now = now.Add(2 * time.Second)
	line, err := a.Aggregate(schema.Ack, frame("OK STEPPER"))
	require.NoError(t, err)
	assert.Equal(t, "OK STEPPER +BTN PRESSED", line)
}

func TestAggregate_RepeatedMarkerCoalesces(t *testing.T) {
	a, now := newTestAggregator(10 * time.Second)

	// Marker held across consecutive frames inside the debounce
	// window counts as a single press.
	line, err := a.Aggregate(schema.Ack, frame("OK SERVO +BTN PRESSED"))
	require.NoError(t, err)
	assert.Equal(t, "OK SERVO +BTN PRESSED", line)

	*now = now.Add(time.Second)
	line, err = a.Aggregate(schema.Ack, frame("OK SERVO +BTN PRESSED"))
	require.NoError(t, err)
	assert.Equal(t, "OK SERVO", line)
}

func TestAggregate_NewPressAfterCooldown(t *testing.T) {
	a, now := newTestAggregator(time.Second)

	_, err := a.Aggregate(schema.Ack, frame("OK SERVO +BTN PRESSED"))
	require.NoError(t, err)

	// Marker released.
	*now = now.Add(2 * time.Second)
	_, err = a.Aggregate(schema.Ack, frame("OK SERVO"))
	require.NoError(t, err)

	// Pressed again well past the minimum interval.
	*now = now.Add(2 * time.Second)
	line, err := a.Aggregate(schema.Ack, frame("OK RELAY ON +BTN PRESSED"))
	require.NoError(t, err)
	assert.Equal(t, "OK RELAY ON +BTN PRESSED", line)
}
