package session

import (
	"fmt"
	"strings"
)

// functionHelp prints helpful information about specific commands.
func (c *Client) functionHelp(line string) {
	args := strings.Split(line, " ")
	args = args[1:] // chop off the first word which should be "help"
	var helpKey string
	if len(args) == 0 || args[0] == "" {
		helpKey = "help"
	} else {
		helpKey = strings.TrimPrefix(args[0], `\`)
	}
	switch helpKey {
	case "log":
		fmt.Println(`
	The log command appends one sample to a sensor's log.

	Syntax:

		>> \log <sensor_id> <timestamp> <value>

	- Example:

		>> \log temp01 2024-01-01T00:00:00 21.5`)

	case "get":
		fmt.Println(`
	The get command displays the most recent samples of a sensor, oldest first.

	Syntax:

		>> \get <sensor_id> <count>

	- Example:

		>> \get temp01 10`)

	case "load":
		fmt.Println(`
	The load command bulk-ingests samples from a csv file.

	Syntax:

		>> \load <csv input file>

	The file needs a header row naming the sensor_id, timestamp and value
	columns. Rows that fail to parse are skipped and reported.

	- Example file:

		sensor_id,timestamp,value
		temp01,2024-01-01T00:00:00,21.5
		temp01,2024-01-01T00:05:00,22.0`)

	case "timing":
		fmt.Println(`
	The timing command toggles the printing of command execution time.`)

	default:
		fmt.Println(`
	Usage:

		>> \log <sensor_id> <timestamp> <value>  append one sample
		>> \get <sensor_id> <count>              show a sensor's latest samples
		>> \load <csv file>                      bulk-ingest samples from csv
		>> \timing                               toggle timing output
		>> \help <command>                       show detailed help
		>> \quit                                 exit the session`)
	}
}
