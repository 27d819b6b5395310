package io_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorstore/sensorstore/utils/io"
)

func TestRecordRoundTrip(t *testing.T) {
	recs := []io.Record{
		{SensorID: "temp01", Epoch: 1704067200, Value: 21.5},
		{SensorID: "hum-basement-02", Epoch: 0, Value: 0},
		{SensorID: strings.Repeat("x", io.SensorIDLength), Epoch: -63113904000, Value: -273.15},
		{SensorID: "p", Epoch: 1, Value: 1e-300},
	}
	for _, in := range recs {
		block, err := io.EncodeRecord(in)
		require.Nil(t, err)
		require.Len(t, block, io.RecordLength)

		out, err := io.DecodeRecord(block)
		require.Nil(t, err)
		assert.Equal(t, in, out)
	}
}

func TestEncodeRejectsBadSensorID(t *testing.T) {
	_, err := io.EncodeRecord(io.Record{SensorID: strings.Repeat("x", io.SensorIDLength+1)})
	assert.NotNil(t, err)

	_, err = io.EncodeRecord(io.Record{SensorID: ""})
	assert.NotNil(t, err)
}

func TestDecodeRejectsWrongSize(t *testing.T) {
	for _, n := range []int{0, 1, io.RecordLength - 1, io.RecordLength + 1, 2 * io.RecordLength} {
		_, err := io.DecodeRecord(make([]byte, n))
		assert.NotNil(t, err, "expected error for %d byte block", n)
	}
}
