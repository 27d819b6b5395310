// Package io implements the fixed-width binary record format used by the
// sensor log files. Every record occupies exactly RecordLength bytes on disk,
// which is what allows a tail read to seek directly to the last N records
// without an index.
package io

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// SensorIDLength is the fixed width of the identifier field.
	SensorIDLength = 32
	epochLength    = 8
	valueLength    = 8
	// RecordLength is the encoded size of one record.
	RecordLength = SensorIDLength + epochLength + valueLength
)

// Record is one decoded sample.
type Record struct {
	SensorID string
	Epoch    int64
	Value    float64
}

type OversizeSensorIDError string

func (msg OversizeSensorIDError) Error() string {
	return fmt.Sprintf("%s: sensor id longer than %d bytes", string(msg), SensorIDLength)
}

type EmptySensorIDError string

func (msg EmptySensorIDError) Error() string {
	return fmt.Sprintf("%s: empty sensor id", string(msg))
}

type WrongSizeError string

func (msg WrongSizeError) Error() string {
	return fmt.Sprintf("%s: wrong record block length", string(msg))
}

// EncodeRecord serializes rec into a RecordLength-sized block. The layout is
// little-endian: identifier bytes NUL-padded to SensorIDLength, epoch seconds
// as int64, value as IEEE-754 float64 bits.
func EncodeRecord(rec Record) ([]byte, error) {
	if rec.SensorID == "" {
		return nil, EmptySensorIDError("encode")
	}
	if len(rec.SensorID) > SensorIDLength {
		return nil, OversizeSensorIDError(rec.SensorID)
	}
	buf := make([]byte, RecordLength)
	copy(buf[:SensorIDLength], rec.SensorID)
	binary.LittleEndian.PutUint64(buf[SensorIDLength:], uint64(rec.Epoch))
	binary.LittleEndian.PutUint64(buf[SensorIDLength+epochLength:], math.Float64bits(rec.Value))
	return buf, nil
}

// DecodeRecord deserializes one block. The block length must be exactly
// RecordLength; anything else means the caller sliced a log file incorrectly
// or the file is corrupt.
func DecodeRecord(block []byte) (Record, error) {
	if len(block) != RecordLength {
		return Record{}, WrongSizeError(fmt.Sprintf("%d bytes", len(block)))
	}
	idField := block[:SensorIDLength]
	if i := bytes.IndexByte(idField, 0); i != -1 {
		idField = idField[:i]
	}
	return Record{
		SensorID: string(idField),
		Epoch:    int64(binary.LittleEndian.Uint64(block[SensorIDLength:])),
		Value:    math.Float64frombits(binary.LittleEndian.Uint64(block[SensorIDLength+epochLength:])),
	}, nil
}
