package main

import (
	"os"

	"github.com/sensorstore/sensorstore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
