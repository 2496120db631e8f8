package options

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/autoscope-io/autoscope/internal/agent"
	"github.com/autoscope-io/autoscope/pkg/log"
	"github.com/autoscope-io/autoscope/pkg/options"
)

// AgentOptions aggregates every option group of the ascope-agent.
type AgentOptions struct {
	MqttOptions *options.MqttOptions `json:"mqtt" mapstructure:"mqtt"`
	ProfilePath string               `json:"profile" mapstructure:"profile"`
	Log         *log.Options         `json:"log" mapstructure:"log"`
}

func NewAgentOptions() *AgentOptions {
	return &AgentOptions{
		MqttOptions: options.NewMqttOptions(),
		ProfilePath: "profile.yaml",
		Log:         log.NewOptions(),
	}
}

func (o *AgentOptions) AddFlags(fs *pflag.FlagSet) {
	o.MqttOptions.AddFlags(fs, "mqtt")
	fs.StringVar(&o.ProfilePath, "profile", o.ProfilePath, "Path to the scenario profile to play.")
	o.Log.AddFlags(fs)
}

func (o *AgentOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	// The hub treats an empty broker as "MQTT disabled"; the agent has no
	// other transport, so here it is required.
	if o.MqttOptions.Broker == "" {
		errs = append(errs, fmt.Errorf("--mqtt.broker is required"))
	}
	if o.ProfilePath == "" {
		errs = append(errs, fmt.Errorf("--profile is required"))
	}
	return errors.Join(errs...)
}

func (o *AgentOptions) Config() (*agent.Config, error) {
	return &agent.Config{
		MqttOptions: o.MqttOptions,
		ProfilePath: o.ProfilePath,
	}, nil
}
