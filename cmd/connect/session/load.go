package session

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/sensorstore/sensorstore/utils"
)

// csvSample is one row of a bulk-load file. Timestamp and value stay textual
// so a bad row is reported and skipped instead of aborting the whole file.
type csvSample struct {
	SensorID  string `csv:"sensor_id"`
	Timestamp string `csv:"timestamp"`
	Value     string `csv:"value"`
}

// load bulk-ingests samples from a CSV file: \load <path>
// The file needs a header row with sensor_id, timestamp and value columns.
func (c *Client) load(line string) {
	args := strings.Fields(line)[1:]
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "ERROR: usage: \\load <path-to-csv>\n")
		return
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return
	}
	defer f.Close()

	var samples []csvSample
	if err = gocsv.UnmarshalFile(f, &samples); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: parse %s: %v\n", args[0], err)
		return
	}

	start := time.Now()
	loaded := 0
	for i, sample := range samples {
		rowNum := i + 2 // header plus 1-based
		epoch, err := utils.ParseTimestamp(sample.Timestamp, c.timezone)
		if err != nil {
			fmt.Fprintf(os.Stderr, "row %d: bad timestamp %q, skipped\n", rowNum, sample.Timestamp)
			continue
		}
		value, err := utils.ParseValue(sample.Value)
		if err != nil {
			fmt.Fprintf(os.Stderr, "row %d: bad value %q, skipped\n", rowNum, sample.Value)
			continue
		}
		if err = c.conn.Log(sample.SensorID, time.Unix(epoch, 0), value); err != nil {
			fmt.Fprintf(os.Stderr, "row %d: %v, skipped\n", rowNum, err)
			continue
		}
		loaded++
	}

	// nolint:forbidigo // CLI output needs fmt.Println
	fmt.Printf("loaded %d/%d samples\n", loaded, len(samples))
	c.printTiming(start)
}
