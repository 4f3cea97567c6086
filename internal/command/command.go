// internal/command/command.go
package command

// Verb identifies one operator command.
type Verb int

const (
	VerbServoSet Verb = iota
	VerbStepperMove
	VerbRelay
	VerbStatus
	VerbSensors
	VerbStop
	VerbHelp
)

// Servo travel limits. These mirror the actuator's own clamping
// policy so the operator and the device always agree on the value
// actually applied.
const (
	ServoMin = 0
	ServoMax = 180
)

// Command is one parsed operator command. Immutable once parsed:
// created by Parse, consumed by the router, then discarded.
type Command struct {
	Verb Verb

	// Value carries the numeric argument for VerbServoSet (angle,
	// already clamped) and VerbStepperMove (signed step count).
	Value int

	// On carries the VerbRelay argument.
	On bool
}

// Local reports whether the command is handled by the master itself
// and never reaches the bus.
func (c Command) Local() bool {
	switch c.Verb {
	case VerbSensors, VerbStop, VerbHelp:
		return true
	}
	return false
}
