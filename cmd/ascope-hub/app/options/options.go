package options

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/autoscope-io/autoscope/internal/hub"
	"github.com/autoscope-io/autoscope/pkg/log"
	"github.com/autoscope-io/autoscope/pkg/options"
)

// HubOptions aggregates every option group of the ascope-hub server.
type HubOptions struct {
	HttpOptions *options.HttpOptions `json:"http" mapstructure:"http"`
	MqttOptions *options.MqttOptions `json:"mqtt" mapstructure:"mqtt"`
	S3Options   *options.S3Options   `json:"s3" mapstructure:"s3"`
	BulkOptions *options.BulkOptions `json:"bulk" mapstructure:"bulk"`
	SeedOptions *options.SeedOptions `json:"seed" mapstructure:"seed"`
	Log         *log.Options         `json:"log" mapstructure:"log"`
}

func NewHubOptions() *HubOptions {
	return &HubOptions{
		HttpOptions: options.NewHttpOptions(),
		MqttOptions: options.NewMqttOptions(),
		S3Options:   options.NewS3Options(),
		BulkOptions: options.NewBulkOptions(),
		SeedOptions: options.NewSeedOptions(),
		Log:         log.NewOptions(),
	}
}

func (o *HubOptions) AddFlags(fs *pflag.FlagSet) {
	o.HttpOptions.AddFlags(fs, "http")
	o.MqttOptions.AddFlags(fs, "mqtt")
	o.S3Options.AddFlags(fs, "s3")
	o.BulkOptions.AddFlags(fs, "bulk")
	o.SeedOptions.AddFlags(fs, "seed")
	o.Log.AddFlags(fs)
}

func (o *HubOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.BulkOptions.Validate()...)
	errs = append(errs, o.SeedOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return errors.Join(errs...)
}

func (o *HubOptions) Config() (*hub.Config, error) {
	return &hub.Config{
		HttpOptions: o.HttpOptions,
		MqttOptions: o.MqttOptions,
		S3Options:   o.S3Options,
		BulkOptions: o.BulkOptions,
		SeedOptions: o.SeedOptions,
	}, nil
}
