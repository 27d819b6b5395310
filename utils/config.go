package utils

import (
	"errors"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/sensorstore/sensorstore/utils/log"
)

type Config struct {
	RootDirectory string
	ListenPort    string
	Timezone      *time.Location
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	StartTime     time.Time
}

// ParseConfig sets configuration from the contents of a YAML config file.
func ParseConfig(data []byte) (*Config, error) {
	var aux struct {
		RootDirectory string `yaml:"root_directory"`
		ListenPort    string `yaml:"listen_port"`
		Timezone      string `yaml:"timezone"`
		LogLevel      string `yaml:"log_level"`
		ReadTimeout   int    `yaml:"read_timeout"`
		WriteTimeout  int    `yaml:"write_timeout"`
	}

	if err := yaml.Unmarshal(data, &aux); err != nil {
		return nil, err
	}

	if aux.RootDirectory == "" {
		return nil, errors.New("invalid root directory")
	}

	if aux.ListenPort == "" {
		return nil, errors.New("invalid listen port")
	}

	m := &Config{
		RootDirectory: aux.RootDirectory,
		ListenPort:    aux.ListenPort,
		ReadTimeout:   time.Duration(aux.ReadTimeout) * time.Second,
		WriteTimeout:  time.Duration(aux.WriteTimeout) * time.Second,
	}

	// Giving "" to LoadLocation will be UTC anyway, which is our default too.
	var err error
	m.Timezone, err = time.LoadLocation(aux.Timezone)
	if err != nil {
		return nil, errors.New("invalid timezone")
	}

	if aux.LogLevel != "" {
		switch strings.ToLower(aux.LogLevel) {
		case "fatal":
			log.SetLevel(log.FATAL)
		case "error":
			log.SetLevel(log.ERROR)
		case "warning":
			log.SetLevel(log.WARNING)
		case "debug":
			log.SetLevel(log.DEBUG)
		case "info":
			log.SetLevel(log.INFO)
		default:
			log.Warn("unknown log_level %q, using info", aux.LogLevel)
		}
	}

	return m, nil
}
