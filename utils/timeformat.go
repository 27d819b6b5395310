package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the wire format for timestamps on both ingestion and
// retrieval. It carries no offset; the configured Timezone decides how the
// civil time maps to epoch seconds.
const TimestampLayout = "2006-01-02T15:04:05"

// ParseTimestamp converts wire-format text to epoch seconds in loc.
func ParseTimestamp(text string, loc *time.Location) (int64, error) {
	t, err := time.ParseInLocation(TimestampLayout, text, loc)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// FormatTimestamp renders epoch seconds as wire-format text in loc.
func FormatTimestamp(epoch int64, loc *time.Location) string {
	return time.Unix(epoch, 0).In(loc).Format(TimestampLayout)
}

// ParseValue parses a sample value. Inf and NaN are rejected: there is no
// wire representation for them on the way back out.
func ParseValue(text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", text)
	}
	return v, nil
}

// FormatValue renders a sample value with the shortest decimal representation
// that round-trips. Integral values keep a trailing ".0" so the value field of
// a response is always recognizably a float.
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
