// Package client implements a Go client for the sensorstore wire protocol.
package client

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/sensorstore/sensorstore/utils"
)

// Point is one retrieved sample.
type Point struct {
	Time  time.Time
	Value float64
}

// ServerError is an ERROR|<code> response line from the server.
type ServerError struct {
	Code string
}

func (e *ServerError) Error() string {
	return "server error: " + e.Code
}

type Client struct {
	conn     net.Conn
	r        *bufio.Reader
	timezone *time.Location
}

// Dial connects to a sensorstore server at "host:port". Timestamps sent and
// received are interpreted in timezone, which must match the server's
// configuration; nil means UTC.
func Dial(addr string, timezone *time.Location) (*Client, error) {
	if timezone == nil {
		timezone = time.UTC
	}
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn:     conn,
		r:        bufio.NewReader(conn),
		timezone: timezone,
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) roundTrip(frame string) (string, error) {
	if _, err := c.conn.Write([]byte(frame + "\r\n")); err != nil {
		return "", err
	}
	line, err := c.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	resp := strings.TrimRight(line, "\r\n")
	if code, ok := strings.CutPrefix(resp, "ERROR|"); ok {
		return "", &ServerError{Code: code}
	}
	return resp, nil
}

// Log appends one sample to the sensor's log.
func (c *Client) Log(sensorID string, t time.Time, value float64) error {
	frame := fmt.Sprintf("LOG|%s|%s|%s",
		sensorID,
		t.In(c.timezone).Format(utils.TimestampLayout),
		utils.FormatValue(value))
	resp, err := c.roundTrip(frame)
	if err != nil {
		return err
	}
	if resp != "OK" {
		return fmt.Errorf("unexpected response %q", resp)
	}
	return nil
}

// Get returns the sensor's most recent n samples, oldest first.
func (c *Client) Get(sensorID string, n int) ([]Point, error) {
	resp, err := c.roundTrip(fmt.Sprintf("GET|%s|%d", sensorID, n))
	if err != nil {
		return nil, err
	}

	fields := strings.Split(resp, ";")
	count, err := strconv.Atoi(fields[0])
	if err != nil || count != len(fields)-1 {
		return nil, fmt.Errorf("malformed response %q", resp)
	}

	points := make([]Point, 0, count)
	for _, pair := range fields[1:] {
		ts, val, ok := strings.Cut(pair, "|")
		if !ok {
			return nil, fmt.Errorf("malformed record %q", pair)
		}
		epoch, err := utils.ParseTimestamp(ts, c.timezone)
		if err != nil {
			return nil, fmt.Errorf("malformed timestamp %q", ts)
		}
		value, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed value %q", val)
		}
		points = append(points, Point{Time: time.Unix(epoch, 0).In(c.timezone), Value: value})
	}
	return points, nil
}
