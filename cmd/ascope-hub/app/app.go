package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/autoscope-io/autoscope/cmd/ascope-hub/app/options"
	"github.com/autoscope-io/autoscope/pkg/log"
	pkgoptions "github.com/autoscope-io/autoscope/pkg/options"
)

const commandDesc = `The ascope-hub server is the vehicle diagnostics resource hub. It loads a
static topology from a seed document, ingests live data and fault events over
MQTT, and exposes entities, data values, fault memory and bulk artifacts
through a read-oriented HTTP API.`

// NewHubCommand builds the ascope-hub root command.
func NewHubCommand() *cobra.Command {
	opts := options.NewHubOptions()
	var configFile string

	cmd := &cobra.Command{
		Use:          "ascope-hub",
		Short:        "Launch the Autoscope diagnostics hub",
		Long:         commandDesc,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd.Flags(), configFile, opts); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to the ascope-hub configuration file.")
	opts.AddFlags(cmd.Flags())
	return cmd
}

// loadConfig unmarshals the config file over the defaults, then restores
// every flag the user set explicitly so precedence stays
// flags > config file > defaults.
func loadConfig(fs *pflag.FlagSet, configFile string, opts *options.HubOptions) error {
	if configFile == "" {
		return nil
	}

	set := map[string]string{}
	fs.Visit(func(f *pflag.Flag) {
		set[f.Name] = f.Value.String()
	})

	if err := pkgoptions.LoadConfigFile(configFile, opts); err != nil {
		return err
	}

	for name, value := range set {
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("failed to restore flag --%s: %w", name, err)
		}
	}
	return nil
}

func run(cmd *cobra.Command, opts *options.HubOptions) error {
	log.Init(opts.Log)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := opts.Config()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	h, err := cfg.NewHub()
	if err != nil {
		return fmt.Errorf("failed to create hub: %w", err)
	}

	log.Info("Starting ascope-hub", "pid", os.Getpid())
	return h.Run(ctx)
}
