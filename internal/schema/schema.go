// internal/schema/schema.go
package schema

// Kind selects how a field's value is parsed and printed.
type Kind int

const (
	// KindInt is a plain decimal integer.
	KindInt Kind = iota

	// KindFloat is a decimal number with optional fraction.
	KindFloat

	// KindEnum is one of a fixed set of tokens.
	KindEnum

	// KindEventAge is seconds since an event, -1 when none.
	// Ages at or beyond StaleAfterSeconds are normalized to -1.
	KindEventAge

	// KindAck consumes the whole payload verbatim.
	// A schema with a single KindAck field describes a free-text
	// acknowledgement rather than a keyed record.
	KindAck
)

// StaleAfterSeconds is the age at which an event report counts as "none".
// Protocol-locked; MUST NOT be configurable.
const StaleAfterSeconds = 1000

// Field is one named slot in a frame payload.
type Field struct {
	Name string
	Kind Kind
	Enum []string // KindEnum only
}

// Schema is the declarative shape of one peer's response payload.
// Decoding and formatting are driven by the field list only, so a new
// peer needs a new Schema value, not new code.
type Schema struct {
	Name   string
	Fields []Field
}

// FieldValue is one decoded field. Exactly one of the value members
// is meaningful, selected by Field.Kind.
type FieldValue struct {
	Field Field

	Int   int
	Float float64
	Text  string // KindEnum token or KindAck text
}

// ---- BUILT-IN SCHEMAS ----

// ActuatorStatus describes the actuator's STATUS reply:
//
//	SERVO=<n> RELAY=<ON|OFF> STEPPER=<n>
var ActuatorStatus = Schema{
	Name: "actuator-status",
	Fields: []Field{
		{Name: "SERVO", Kind: KindInt},
		{Name: "RELAY", Kind: KindEnum, Enum: []string{"ON", "OFF"}},
		{Name: "STEPPER", Kind: KindInt},
	},
}

// SensorReport describes the sensor-hub's periodic reply:
//
//	T=<f> H=<f> P=<int> C=<int|-1>
var SensorReport = Schema{
	Name: "sensor-report",
	Fields: []Field{
		{Name: "T", Kind: KindFloat},
		{Name: "H", Kind: KindFloat},
		{Name: "P", Kind: KindInt},
		{Name: "C", Kind: KindEventAge},
	},
}

// Ack describes a one-line textual acknowledgement (e.g. "OK SERVO").
var Ack = Schema{
	Name:   "ack",
	Fields: []Field{{Kind: KindAck}},
}

// builtin is the lookup table used by configuration binding.
// Ack is deliberately absent: it is not a peer report schema.
var builtin = map[string]Schema{
	ActuatorStatus.Name: ActuatorStatus,
	SensorReport.Name:   SensorReport,
}

// ByName resolves a schema referenced from configuration.
func ByName(name string) (Schema, bool) {
	s, ok := builtin[name]
	return s, ok
}
