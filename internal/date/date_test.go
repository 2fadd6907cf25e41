package date

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestParse(t *testing.T) {
	d, err := Parse("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, New(2024, time.May, 1), d)

	_, err = Parse("2024-02-30")
	assert.Error(t, err)

	_, err = Parse("05/01/2024")
	assert.Error(t, err)
}

func TestAddMonthsRollsOver(t *testing.T) {
	tests := []struct {
		from string
		n    int
		want string
	}{
		{"2024-01-31", 1, "2024-03-02"},
		{"2023-01-31", 1, "2023-03-03"},
		{"2024-03-15", 1, "2024-04-15"},
		{"2024-12-10", 2, "2025-02-10"},
	}
	for _, tt := range tests {
		d, err := Parse(tt.from)
		require.NoError(t, err)
		assert.Equal(t, tt.want, d.AddMonths(tt.n).String(), "%s + %d months", tt.from, tt.n)
	}
}

func TestAddDaysAcrossYear(t *testing.T) {
	assert.Equal(t, "2025-01-02", New(2024, time.December, 31).AddDays(2).String())
	assert.Equal(t, "2024-02-29", New(2024, time.February, 22).AddWeeks(1).String())
}

func TestCompare(t *testing.T) {
	a := New(2024, time.May, 1)
	b := New(2024, time.May, 2)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.After(a))
	assert.True(t, a.Equal(New(2024, time.May, 1)))
	assert.Equal(t, 1, a.DaysUntil(b))
	assert.Equal(t, -1, b.DaysUntil(a))
}

func TestOfIgnoresClock(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	ts := time.Date(2024, time.May, 1, 23, 59, 0, 0, loc)
	assert.Equal(t, New(2024, time.May, 1), Of(ts))
}

func TestMalformedDateDecodesToZero(t *testing.T) {
	var v struct {
		Due *Date `yaml:"due" json:"due"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("due: not-a-date\n"), &v))
	require.NotNil(t, v.Due)
	assert.Nil(t, Valid(v.Due))

	v.Due = nil
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2024-13-01"}`), &v))
	assert.Nil(t, Valid(v.Due))

	v.Due = nil
	require.NoError(t, json.Unmarshal([]byte(`{"due":null}`), &v))
	assert.Nil(t, v.Due)
}

func TestDateRoundTripYAML(t *testing.T) {
	in := struct {
		Due Date `yaml:"due"`
	}{Due: New(2024, time.May, 3)}

	data, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-05-03")

	var out struct {
		Due Date `yaml:"due"`
	}
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.True(t, in.Due.Equal(out.Due))
}

func TestParseMoment(t *testing.T) {
	m, err := ParseMoment("2024-05-01T09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, m.Hour())
	assert.Equal(t, 30, m.Minute())
	assert.Equal(t, time.Local, m.Location())

	m, err = ParseMoment("2024-05-01T09:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, m.Location())

	_, err = ParseMoment("tomorrow morning")
	assert.Error(t, err)
}
