package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorstore/sensorstore/utils"
)

func TestParseConfig(t *testing.T) {
	data := []byte(`
root_directory: /var/lib/sensorstore
listen_port: "5555"
timezone: UTC
log_level: info
read_timeout: 30
`)
	cfg, err := utils.ParseConfig(data)
	require.Nil(t, err)
	assert.Equal(t, "/var/lib/sensorstore", cfg.RootDirectory)
	assert.Equal(t, "5555", cfg.ListenPort)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, time.Duration(0), cfg.WriteTimeout)
}

func TestParseConfigErrors(t *testing.T) {
	_, err := utils.ParseConfig([]byte(`listen_port: "5555"`))
	assert.NotNil(t, err)

	_, err = utils.ParseConfig([]byte(`root_directory: /data`))
	assert.NotNil(t, err)

	_, err = utils.ParseConfig([]byte("root_directory: /data\nlisten_port: \"5555\"\ntimezone: Mars/Olympus"))
	assert.NotNil(t, err)

	_, err = utils.ParseConfig([]byte(`{not yaml`))
	assert.NotNil(t, err)
}

func TestTimestampRoundTrip(t *testing.T) {
	epoch, err := utils.ParseTimestamp("2024-01-01T00:05:00", time.UTC)
	require.Nil(t, err)
	assert.Equal(t, int64(1704067500), epoch)
	assert.Equal(t, "2024-01-01T00:05:00", utils.FormatTimestamp(epoch, time.UTC))

	_, err = utils.ParseTimestamp("2024-01-01 00:05:00", time.UTC)
	assert.NotNil(t, err)
	_, err = utils.ParseTimestamp("not-a-time", time.UTC)
	assert.NotNil(t, err)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "21.5", utils.FormatValue(21.5))
	assert.Equal(t, "22.0", utils.FormatValue(22))
	assert.Equal(t, "-0.25", utils.FormatValue(-0.25))
	assert.Equal(t, "1e-300", utils.FormatValue(1e-300))
}

func TestParseValue(t *testing.T) {
	v, err := utils.ParseValue("21.5")
	require.Nil(t, err)
	assert.Equal(t, 21.5, v)

	for _, bad := range []string{"", "abc", "NaN", "+Inf", "-Inf"} {
		_, err := utils.ParseValue(bad)
		assert.NotNil(t, err, "expected error for %q", bad)
	}
}
