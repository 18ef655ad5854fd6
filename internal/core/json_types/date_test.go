package json_types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalFormats(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"только дата", `"2026-09-03"`, "2026-09-03"},
		{"дата со временем без таймзоны", `"2026-09-03T14:30:00"`, "2026-09-03"},
		{"RFC3339", `"2026-09-03T14:30:00+08:00"`, "2026-09-03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var date Date
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &date))
			assert.Equal(t, tt.want, date.Date.Format("2006-01-02"))
		})
	}
}

func TestDate_UnmarshalInvalid(t *testing.T) {
	var date Date
	assert.Error(t, json.Unmarshal([]byte(`"03.09.2026"`), &date))
}

func TestDate_MarshalRoundTrip(t *testing.T) {
	var date Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-09-03T14:30:00"`), &date))

	raw, err := json.Marshal(date)
	require.NoError(t, err)
	assert.Equal(t, `"2026-09-03"`, string(raw))
}

func TestDateTimeOrEmpty(t *testing.T) {
	var dt DateTimeOrEmpty
	require.NoError(t, json.Unmarshal([]byte(`null`), &dt))
	assert.True(t, dt.Date.IsZero())

	raw, err := json.Marshal(dt)
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))

	require.NoError(t, json.Unmarshal([]byte(`"2026-09-03T14:30:00"`), &dt))
	assert.False(t, dt.Date.IsZero())
}
