// internal/schema/decode.go
package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// DecodeError reports a payload that does not match its schema.
type DecodeError struct {
	Schema string
	Field  string // empty when the payload shape itself is wrong
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema %s: %s", e.Schema, e.Reason)
	}
	return fmt.Sprintf("schema %s: field %s: %s", e.Schema, e.Field, e.Reason)
}

// Decode parses a trimmed payload against the schema.
// All-or-nothing: any mismatch fails the whole payload, never a
// partially populated result.
func (s Schema) Decode(payload string) ([]FieldValue, error) {
	// Free-text acknowledgement.
	if len(s.Fields) == 1 && s.Fields[0].Kind == KindAck {
		if payload == "" {
			return nil, &DecodeError{Schema: s.Name, Reason: "empty payload"}
		}
		return []FieldValue{{Field: s.Fields[0], Text: payload}}, nil
	}

	tokens := strings.Fields(payload)
	if len(tokens) != len(s.Fields) {
		return nil, &DecodeError{
			Schema: s.Name,
			Reason: fmt.Sprintf("expected %d fields, got %d", len(s.Fields), len(tokens)),
		}
	}

	values := make([]FieldValue, 0, len(s.Fields))

	for i, f := range s.Fields {
		key, raw, ok := strings.Cut(tokens[i], "=")
		if !ok || key != f.Name {
			return nil, &DecodeError{
				Schema: s.Name,
				Field:  f.Name,
				Reason: fmt.Sprintf("expected %s=<value>, got %q", f.Name, tokens[i]),
			}
		}

		fv := FieldValue{Field: f}

		switch f.Kind {
		case KindInt:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, &DecodeError{Schema: s.Name, Field: f.Name, Reason: "not an integer"}
			}
			fv.Int = n

		case KindFloat:
			x, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, &DecodeError{Schema: s.Name, Field: f.Name, Reason: "not a number"}
			}
			fv.Float = x

		case KindEnum:
			if !contains(f.Enum, raw) {
				return nil, &DecodeError{
					Schema: s.Name,
					Field:  f.Name,
					Reason: fmt.Sprintf("%q not in %v", raw, f.Enum),
				}
			}
			fv.Text = raw

		case KindEventAge:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, &DecodeError{Schema: s.Name, Field: f.Name, Reason: "not an integer"}
			}
			// Negative or stale both mean "no recent event".
			if n < 0 || n >= StaleAfterSeconds {
				n = -1
			}
			fv.Int = n

		default:
			return nil, &DecodeError{Schema: s.Name, Field: f.Name, Reason: "unsupported field kind"}
		}

		values = append(values, fv)
	}

	return values, nil
}

// Format renders decoded values back into one operator-facing line.
// Layout is protocol-locked: field order is the schema's declaration
// order. No IO. No side effects.
func (s Schema) Format(values []FieldValue) string {
	var b strings.Builder

	for i, v := range values {
		if i > 0 {
			b.WriteByte(' ')
		}

		if v.Field.Kind == KindAck {
			b.WriteString(v.Text)
			continue
		}

		b.WriteString(v.Field.Name)
		b.WriteByte('=')

		switch v.Field.Kind {
		case KindInt, KindEventAge:
			b.WriteString(strconv.Itoa(v.Int))
		case KindFloat:
			b.WriteString(strconv.FormatFloat(v.Float, 'g', -1, 64))
		case KindEnum:
			b.WriteString(v.Text)
		}
	}

	return b.String()
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
