// internal/aggregate/debounce_test.go
package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebounce_RisingEdgeFires(t *testing.T) {
	d := NewDebounce(time.Second)
	now := time.Unix(0, 0)

	assert.False(t, d.Observe(false, now))
	assert.True(t, d.Observe(true, now.Add(time.Second)))
}

func TestDebounce_HeldMarkerFiresOnce(t *testing.T) {
	d := NewDebounce(time.Second)
	now := time.Unix(0, 0)

	assert.True(t, d.Observe(true, now))
	for i := 1; i <= 5; i++ {
		assert.False(t, d.Observe(true, now.Add(time.Duration(i)*time.Second)))
	}
}

func TestDebounce_CooldownSuppressesBounce(t *testing.T) {
	d := NewDebounce(time.Second)
	now := time.Unix(0, 0)

	assert.True(t, d.Observe(true, now))

	// Release and re-press inside the minimum interval: a bounce.
	assert.False(t, d.Observe(false, now.Add(200*time.Millisecond)))
	assert.False(t, d.Observe(true, now.Add(400*time.Millisecond)))
	assert.False(t, d.Observe(false, now.Add(600*time.Millisecond)))
}

func TestDebounce_RefiresAfterInterval(t *testing.T) {
	d := NewDebounce(time.Second)
	now := time.Unix(0, 0)

	assert.True(t, d.Observe(true, now))
	assert.False(t, d.Observe(false, now.Add(100*time.Millisecond)))

	assert.True(t, d.Observe(true, now.Add(1500*time.Millisecond)))
}

func TestDebounce_ReturnsToIdle(t *testing.T) {
	d := NewDebounce(time.Second)
	now := time.Unix(0, 0)

	assert.True(t, d.Observe(true, now))
	assert.False(t, d.Observe(false, now.Add(100*time.Millisecond)))

	// Quiet observation past the interval drains cooldown to idle.
	assert.False(t, d.Observe(false, now.Add(2*time.Second)))
	assert.True(t, d.Observe(true, now.Add(3*time.Second)))
}
