// Package session
// This file is the hub of the `session` package. The `Client` struct defined
// here manages the server connection and has the responsibility of
// interpreting user inputs.
package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/sensorstore/sensorstore/frontend/client"
	"github.com/sensorstore/sensorstore/utils"
)

func NewClient(conn *client.Client, url string, timezone *time.Location) *Client {
	return &Client{
		conn:     conn,
		url:      url,
		timezone: timezone,
	}
}

type Client struct {
	conn     *client.Client
	url      string
	timezone *time.Location
	// timing flag determines to print command execution time.
	timing bool
}

// Read kicks off the buffer reading process.
func (c *Client) Read() error {
	// Build reader.
	r, err := newReader()
	if err != nil {
		return err
	}
	defer r.Close()

	fmt.Fprintf(os.Stderr, "connected to %s (timestamps in %s)\n", c.url, c.timezone)
	fmt.Fprintf(os.Stderr, "Type `\\help` to see command options\n")

	// User input evaluation loop.
EVAL:
	for {
		// Read input.
		line, err := r.Readline()

		// Terminate evaluation.
		if errors.Is(err, io.EOF) {
			break EVAL
		}

		// Printed interrupt prompt.
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}

		// Print error.
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			continue
		}

		// Remove leading/trailing spaces.
		line = strings.Trim(line, " ")

		// Evaluate.
		switch {
		case strings.HasPrefix(line, `\timing`):
			c.timing = !c.timing
		case strings.HasPrefix(line, `\log`):
			c.log(line)
		case strings.HasPrefix(line, `\get`):
			c.get(line)
		case strings.HasPrefix(line, `\load`):
			c.load(line)
		case strings.HasPrefix(line, `\help`) || strings.HasPrefix(line, `\?`):
			c.functionHelp(line)
		case line == "help":
			c.functionHelp(`\help`)
		// Quit.
		case line == `\stop`, line == `\quit`, line == `\q`, line == `exit`:
			break EVAL
		// Nothing to do.
		case line == "":
			continue EVAL
		default:
			fmt.Fprintf(os.Stderr, "ERROR: unknown command, type `\\help`\n")
		}
	}

	return nil
}

func newReader() (*readline.Instance, error) {
	// Determine history file path.
	usr, err := user.Current()
	if err != nil {
		return nil, errors.New("unable to obtain home directory")
	}
	history := filepath.Join(usr.HomeDir, ".sensorstoreReaderHistory")

	// Register commands with autocompletion.
	autoComplete := readline.NewPrefixCompleter(
		readline.PcItem(`\log`),
		readline.PcItem(`\get`),
		readline.PcItem(`\load`),
		readline.PcItem(`\timing`),
		readline.PcItem(`\help`),
		readline.PcItem(`\quit`),
		readline.PcItem(`\q`),
		readline.PcItem(`\?`),
		readline.PcItem(`\stop`),
	)

	// Build config.
	config := &readline.Config{
		Prompt:          "\033[31m»\033[0m ",
		HistoryFile:     history,
		AutoComplete:    autoComplete,
		InterruptPrompt: "\nInterrupt, Press Ctrl+D to exit",
		EOFPrompt:       "exit",
	}

	// return reader.
	return readline.NewEx(config)
}

// log sends one sample: \log <sensor_id> <timestamp> <value>
func (c *Client) log(line string) {
	args := strings.Fields(line)[1:]
	const logArgLen = 3
	if len(args) != logArgLen {
		fmt.Fprintf(os.Stderr, "ERROR: usage: \\log <sensor_id> <timestamp> <value>\n")
		return
	}

	epoch, err := utils.ParseTimestamp(args[1], c.timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: bad timestamp, want %s\n", utils.TimestampLayout)
		return
	}
	value, err := utils.ParseValue(args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: bad value %q\n", args[2])
		return
	}

	start := time.Now()
	if err = c.conn.Log(args[0], time.Unix(epoch, 0), value); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return
	}
	c.printTiming(start)
}

// get retrieves samples: \get <sensor_id> <count>
func (c *Client) get(line string) {
	args := strings.Fields(line)[1:]
	const getArgLen = 2
	if len(args) != getArgLen {
		fmt.Fprintf(os.Stderr, "ERROR: usage: \\get <sensor_id> <count>\n")
		return
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: bad count %q\n", args[1])
		return
	}

	start := time.Now()
	points, err := c.conn.Get(args[0], n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return
	}

	for _, p := range points {
		// nolint:forbidigo // CLI output needs fmt.Println
		fmt.Printf("%s  %s\n", p.Time.In(c.timezone).Format(utils.TimestampLayout), utils.FormatValue(p.Value))
	}
	// nolint:forbidigo // CLI output needs fmt.Println
	fmt.Printf("(%d rows)\n", len(points))
	c.printTiming(start)
}

func (c *Client) printTiming(start time.Time) {
	if c.timing {
		// nolint:forbidigo // CLI output needs fmt.Println
		fmt.Printf("Elapsed: %s\n", time.Since(start))
	}
}
