package connect

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sensorstore/sensorstore/cmd/connect/session"
	"github.com/sensorstore/sensorstore/frontend/client"
)

const (
	usage   = "connect"
	short   = "Open an interactive session with a running sensorstore server"
	long    = "This command opens an interactive session with a running sensorstore server"
	example = "sensorstore connect --url <address>"

	// Flags.
	urlFlag    = "url"
	defaultURL = "localhost:5555"
	urlDesc    = "network address of the server at \"hostname:port\""
	tzFlag     = "timezone"
	defaultTZ  = "UTC"
	tzDesc     = "timezone used to interpret timestamps, must match the server configuration"
)

var (
	// Cmd is the connect command.
	Cmd = &cobra.Command{
		Use:        usage,
		Short:      short,
		Long:       long,
		SuggestFor: []string{"open", "conn"},
		Example:    example,
		Args:       validateArgs,
		RunE:       executeConnect,
	}

	// url set via flag for the server address.
	url string
	// timezone name set via flag.
	timezone string
)

func init() {
	Cmd.Flags().StringVarP(&url, urlFlag, "u", defaultURL, urlDesc)
	Cmd.Flags().StringVarP(&timezone, tzFlag, "t", defaultTZ, tzDesc)
}

// validateArgs returns an error that prevents cmd execution if
// the custom validation fails.
func validateArgs(_ *cobra.Command, _ []string) error {
	const colonSeparatedURLSliceLen = 2
	if len(strings.Split(url, ":")) != colonSeparatedURLSliceLen {
		return errors.New("incorrect URL, need \"hostname:port\"")
	}
	return nil
}

// executeConnect implements the connect command.
func executeConnect(cmd *cobra.Command, _ []string) error {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return errors.New("invalid timezone")
	}

	cmd.SilenceUsage = true

	conn, err := client.Dial(url, loc)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Enter command loop.
	return session.NewClient(conn, url, loc).Read()
}
