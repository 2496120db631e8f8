package app

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/autoscope-io/autoscope/cmd/ascope-agent/app/options"
	"github.com/autoscope-io/autoscope/pkg/log"
)

const commandDesc = `The ascope-agent plays a YAML scenario profile against an MQTT broker:
initial data values, periodic updates and scripted fault events for the
entities an ascope-hub serves. Edits to the profile are picked up without a
restart.`

// NewAgentCommand builds the ascope-agent root command.
func NewAgentCommand() *cobra.Command {
	opts := options.NewAgentOptions()

	cmd := &cobra.Command{
		Use:          "ascope-agent",
		Short:        "Play a diagnostics scenario profile",
		Long:         commandDesc,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}

			log.Init(opts.Log)
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := opts.Config()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			a, err := cfg.NewAgent()
			if err != nil {
				return fmt.Errorf("failed to create agent: %w", err)
			}

			return a.Run(ctx)
		},
	}

	opts.AddFlags(cmd.Flags())
	return cmd
}
