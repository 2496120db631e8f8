package main

import (
	"os"

	"github.com/autoscope-io/autoscope/cmd/ascope-agent/app"
)

func main() {
	if err := app.NewAgentCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
