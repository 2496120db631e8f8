package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/autoscope-io/autoscope/cmd/ascope-hub/app"
)

func main() {
	if err := app.NewHubCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
