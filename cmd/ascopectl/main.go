package main

import (
	"fmt"
	"os"

	"github.com/autoscope-io/autoscope/cmd/ascopectl/app"
)

func main() {
	if err := app.NewCtlCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
