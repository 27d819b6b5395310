package store

import (
	"fmt"
)

type SensorNotFoundError string

func (msg SensorNotFoundError) Error() string {
	return fmt.Sprintf("%s: no log for sensor", string(msg))
}

type InvalidSensorIDError string

func (msg InvalidSensorIDError) Error() string {
	return fmt.Sprintf("%q: invalid sensor id", string(msg))
}

// CorruptLogError reports a log whose byte length is not a multiple of the
// record length. A correct writer never produces this state.
type CorruptLogError string

func (msg CorruptLogError) Error() string {
	return fmt.Sprintf("%s: log length is not a multiple of the record length", string(msg))
}

type ShortReadError string

func (msg ShortReadError) Error() string {
	return fmt.Sprintf("%s: unexpectedly short read", string(msg))
}

// IOError covers filesystem failures opening, writing, or syncing a sensor
// log. Fatal to the operation, not to the process.
type IOError string

func (msg IOError) Error() string {
	return string(msg)
}
