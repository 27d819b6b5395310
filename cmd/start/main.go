package start

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sensorstore/sensorstore/frontend"
	"github.com/sensorstore/sensorstore/store"
	"github.com/sensorstore/sensorstore/utils"
	"github.com/sensorstore/sensorstore/utils/log"
)

const (
	usage                 = "start"
	short                 = "Start a sensorstore server"
	long                  = "This command starts a sensorstore server"
	example               = "sensorstore start --config <path>"
	defaultConfigFilePath = "./sensorstore.yml"
	configDesc            = "set the path for the sensorstore YAML configuration file"
)

var (
	// Cmd is the start command.
	Cmd = &cobra.Command{
		Use:        usage,
		Short:      short,
		Long:       long,
		Aliases:    []string{"s"},
		SuggestFor: []string{"boot", "up"},
		Example:    example,
		RunE:       executeStart,
	}
	// configFilePath set flag for a path to the config file.
	configFilePath string
)

// nolint:gochecknoinits // cobra's standard way to initialize flags
func init() {
	Cmd.Flags().StringVarP(&configFilePath, "config", "c", defaultConfigFilePath, configDesc)
}

// executeStart implements the start command.
func executeStart(cmd *cobra.Command, _ []string) error {
	// Attempt to read config file.
	data, err := os.ReadFile(configFilePath)
	if err != nil {
		return fmt.Errorf("failed to read configuration file error: %w", err)
	}

	// Don't output command usage if args are correct
	cmd.SilenceUsage = true

	// Log config location.
	log.Info("using %v for configuration", configFilePath)

	// Attempt to set configuration.
	config, err := utils.ParseConfig(data)
	if err != nil {
		return fmt.Errorf("failed to parse configuration file error: %w", err)
	}
	config.StartTime = time.Now()

	// Initialize sensorstore services.
	// --------------------------------
	log.Info("initializing sensorstore...")

	startTime := time.Now()
	s, err := store.NewStore(config.RootDirectory)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	log.Info("opened store at %s with %d known sensors (%s)",
		config.RootDirectory, len(s.Sensors()), time.Since(startTime))

	srv := frontend.NewServer(s, config)
	if err = srv.Listen(config.ListenPort); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("initiating graceful shutdown...")
		srv.Shutdown()
	}()

	if err = srv.Serve(); err != nil {
		return err
	}

	if err = s.Close(); err != nil {
		log.Error("failed to close store: %v", err)
	}
	log.Info("exiting...")
	return nil
}
