package date

import (
	"encoding/json"
	"fmt"
	"time"

	"go.yaml.in/yaml/v3"
)

// momentLayouts are tried in order when parsing a Moment. The minute-precision
// forms match what browser datetime-local inputs produce.
var momentLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// Moment is a point in time used for reminders. Values without a zone are
// interpreted in the local timezone.
type Moment struct {
	time.Time
}

// ParseMoment parses an RFC 3339 timestamp or a local "YYYY-MM-DDTHH:MM" value.
func ParseMoment(s string) (Moment, error) {
	for _, layout := range momentLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return Moment{t}, nil
		}
	}
	return Moment{}, fmt.Errorf("invalid date-time %q: expected YYYY-MM-DDTHH:MM", s)
}

// String returns the moment as RFC 3339.
func (m Moment) String() string {
	return m.Format(time.RFC3339)
}

// MarshalYAML implements yaml.Marshaler.
func (m Moment) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// UnmarshalYAML implements yaml.v3 Unmarshaler. Malformed values decode to the
// zero Moment.
func (m *Moment) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseMoment(value.Value)
	if err != nil {
		*m = Moment{}
		return nil
	}
	*m = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m Moment) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Moment) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*m = Moment{}
		return nil
	}
	parsed, err := ParseMoment(s)
	if err != nil {
		*m = Moment{}
		return nil
	}
	*m = parsed
	return nil
}
