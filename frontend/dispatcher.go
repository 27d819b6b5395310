// Package frontend implements the wire protocol: a TCP listener, a
// per-connection session loop, and the dispatcher that maps command frames to
// store operations.
//
// Commands are pipe-delimited text frames terminated by CRLF:
//
//	LOG|<sensor_id>|<timestamp>|<value>
//	GET|<sensor_id>|<count>
//
// Every frame is answered with exactly one response line. Timestamps use the
// format 2006-01-02T15:04:05 in the server's configured timezone.
package frontend

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sensorstore/sensorstore/store"
	"github.com/sensorstore/sensorstore/utils"
	"github.com/sensorstore/sensorstore/utils/log"
)

// Response lines. Error codes are part of the wire protocol.
const (
	RespOK                = "OK"
	RespUnknownCommand    = "ERROR|UNKNOWN_COMMAND"
	RespMalformedCommand  = "ERROR|MALFORMED_COMMAND"
	RespInvalidSensorID   = "ERROR|INVALID_SENSOR_ID"
	RespInvalidTimestamp  = "ERROR|INVALID_TIMESTAMP"
	RespInvalidValue      = "ERROR|INVALID_VALUE"
	RespInvalidNumRecords = "ERROR|INVALID_NUM_RECORDS"
	RespCorruptLog        = "ERROR|CORRUPT_LOG"
	RespStorageFailure    = "ERROR|STORAGE_FAILURE"
)

const (
	logFieldCount = 4
	getFieldCount = 3
)

// Dispatcher turns one command frame into one response line. It is stateless
// per call and safe for concurrent use by all sessions.
type Dispatcher struct {
	store    *store.Store
	timezone *time.Location
}

func NewDispatcher(s *store.Store, timezone *time.Location) *Dispatcher {
	if timezone == nil {
		timezone = time.UTC
	}
	return &Dispatcher{store: s, timezone: timezone}
}

// Dispatch handles one frame, with the delimiter already stripped.
func (d *Dispatcher) Dispatch(frame string) string {
	parts := strings.Split(frame, "|")
	switch parts[0] {
	case "LOG":
		return d.handleLog(parts)
	case "GET":
		return d.handleGet(parts)
	default:
		return RespUnknownCommand
	}
}

func (d *Dispatcher) handleLog(parts []string) string {
	if len(parts) != logFieldCount {
		return RespMalformedCommand
	}
	sensorID, timestamp, value := parts[1], parts[2], parts[3]

	epoch, err := utils.ParseTimestamp(timestamp, d.timezone)
	if err != nil {
		return RespInvalidTimestamp
	}
	val, err := utils.ParseValue(value)
	if err != nil {
		return RespInvalidValue
	}

	if err := d.store.Append(sensorID, epoch, val); err != nil {
		var invalidID store.InvalidSensorIDError
		if errors.As(err, &invalidID) {
			return RespInvalidSensorID
		}
		log.Error("append to %s failed: %v", sensorID, err)
		return RespStorageFailure
	}
	return RespOK
}

func (d *Dispatcher) handleGet(parts []string) string {
	if len(parts) != getFieldCount {
		return RespMalformedCommand
	}
	sensorID, count := parts[1], parts[2]

	n, err := strconv.Atoi(count)
	if err != nil || n < 0 {
		return RespInvalidNumRecords
	}

	records, err := d.store.Tail(sensorID, n)
	if err != nil {
		var (
			notFound  store.SensorNotFoundError
			invalidID store.InvalidSensorIDError
			corrupt   store.CorruptLogError
			shortRead store.ShortReadError
		)
		switch {
		case errors.As(err, &notFound), errors.As(err, &invalidID):
			return RespInvalidSensorID
		case errors.As(err, &corrupt), errors.As(err, &shortRead):
			log.Error("tail of %s failed: %v", sensorID, err)
			return RespCorruptLog
		default:
			log.Error("tail of %s failed: %v", sensorID, err)
			return RespStorageFailure
		}
	}

	var sb strings.Builder
	sb.WriteString(strconv.Itoa(len(records)))
	for _, rec := range records {
		sb.WriteByte(';')
		sb.WriteString(utils.FormatTimestamp(rec.Epoch, d.timezone))
		sb.WriteByte('|')
		sb.WriteString(utils.FormatValue(rec.Value))
	}
	return sb.String()
}
