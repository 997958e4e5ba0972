package message

import "fmt"

// Sample is one decoded sample envelope from the sample topic: arbitrary
// key-value pairs, of which the monitor reads the stream name and one
// configured timestamp field.
type Sample map[string]interface{}

// streamField names the envelope field that routes a sample to its stream.
const streamField = "stream"

// RawTimestamp is a timestamp as it arrived on the wire: either a numeric
// value of unknown unit or a textual datetime. Unit inference and parsing
// happen downstream in the rate calculator, on whole windows, not here.
type RawTimestamp struct {
	Numeric float64
	Text    string
	IsText  bool
}

// Stream returns the sample's stream name.
func (s Sample) Stream() (string, bool) {
	val, exists := s[streamField]
	if !exists || val == nil {
		return "", false
	}
	name, ok := val.(string)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// Timestamp extracts the raw timestamp from the named field. JSON numbers
// come back numeric, strings come back textual; any other type (or a
// missing/null field) fails.
func (s Sample) Timestamp(field string) (RawTimestamp, bool) {
	val, exists := s[field]
	if !exists || val == nil {
		return RawTimestamp{}, false
	}

	switch v := val.(type) {
	case float64:
		return RawTimestamp{Numeric: v}, true
	case int:
		return RawTimestamp{Numeric: float64(v)}, true
	case int64:
		return RawTimestamp{Numeric: float64(v)}, true
	case string:
		if v == "" {
			return RawTimestamp{}, false
		}
		return RawTimestamp{Text: v, IsText: true}, true
	default:
		return RawTimestamp{}, false
	}
}

// FieldSnippet returns a truncated string rendering of a field, for log
// context on malformed samples.
func (s Sample) FieldSnippet(field string, maxLength int) string {
	value, exists := s[field]
	if !exists {
		return "<missing>"
	}

	str := fmt.Sprintf("%v", value)
	if maxLength <= 0 {
		return "..."
	}
	if len(str) > maxLength {
		return str[:maxLength] + "..."
	}
	return str
}
