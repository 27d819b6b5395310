package frontend_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorstore/sensorstore/frontend"
	"github.com/sensorstore/sensorstore/store"
)

func setup(t *testing.T) *frontend.Dispatcher {
	t.Helper()

	s, err := store.NewStore(t.TempDir())
	if err != nil {
		t.Fatal("failed to create a store. err=" + err.Error())
	}
	t.Cleanup(func() { s.Close() })

	return frontend.NewDispatcher(s, time.UTC)
}

func TestDispatchLogThenGet(t *testing.T) {
	d := setup(t)

	assert.Equal(t, "OK", d.Dispatch("LOG|temp01|2024-01-01T00:00:00|21.5"))
	assert.Equal(t, "OK", d.Dispatch("LOG|temp01|2024-01-01T00:05:00|22.0"))

	assert.Equal(t,
		"2;2024-01-01T00:00:00|21.5;2024-01-01T00:05:00|22.0",
		d.Dispatch("GET|temp01|2"))

	// Clamped to the records on disk.
	assert.Equal(t,
		"2;2024-01-01T00:00:00|21.5;2024-01-01T00:05:00|22.0",
		d.Dispatch("GET|temp01|100"))

	assert.Equal(t, "0", d.Dispatch("GET|temp01|0"))

	assert.Equal(t,
		"1;2024-01-01T00:05:00|22.0",
		d.Dispatch("GET|temp01|1"))
}

func TestDispatchErrors(t *testing.T) {
	d := setup(t)
	require.Equal(t, "OK", d.Dispatch("LOG|s1|2024-01-01T00:00:00|1.0"))

	tests := []struct {
		name  string
		frame string
		want  string
	}{
		{"unknown sensor", "GET|unknown|1", "ERROR|INVALID_SENSOR_ID"},
		{"unparsable count", "GET|s1|abc", "ERROR|INVALID_NUM_RECORDS"},
		{"negative count", "GET|s1|-1", "ERROR|INVALID_NUM_RECORDS"},
		{"get too few fields", "GET|s1", "ERROR|MALFORMED_COMMAND"},
		{"get too many fields", "GET|s1|1|extra", "ERROR|MALFORMED_COMMAND"},
		{"log too few fields", "LOG|s1|2024-01-01T00:00:00", "ERROR|MALFORMED_COMMAND"},
		{"log too many fields", "LOG|s1|2024-01-01T00:00:00|1.0|extra", "ERROR|MALFORMED_COMMAND"},
		{"bad timestamp", "LOG|s1|2024-01-01 00:00:00|1.0", "ERROR|INVALID_TIMESTAMP"},
		{"bad value", "LOG|s1|2024-01-01T00:00:00|abc", "ERROR|INVALID_VALUE"},
		{"non-finite value", "LOG|s1|2024-01-01T00:00:00|NaN", "ERROR|INVALID_VALUE"},
		{"empty sensor id", "LOG||2024-01-01T00:00:00|1.0", "ERROR|INVALID_SENSOR_ID"},
		{"oversize sensor id",
			"LOG|a23456789012345678901234567890123|2024-01-01T00:00:00|1.0",
			"ERROR|INVALID_SENSOR_ID"},
		{"unknown verb", "PUT|s1|1", "ERROR|UNKNOWN_COMMAND"},
		{"junk", "hello there", "ERROR|UNKNOWN_COMMAND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Dispatch(tt.frame))
		})
	}
}

func TestDispatchTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.Nil(t, err)

	s, err := store.NewStore(t.TempDir())
	require.Nil(t, err)
	t.Cleanup(func() { s.Close() })
	d := frontend.NewDispatcher(s, tokyo)

	// The civil time written is the civil time read back, whatever the zone.
	assert.Equal(t, "OK", d.Dispatch("LOG|temp01|2024-06-01T09:30:00|1.5"))
	assert.Equal(t, "1;2024-06-01T09:30:00|1.5", d.Dispatch("GET|temp01|1"))
}
