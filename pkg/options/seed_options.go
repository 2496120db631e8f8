package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

var _ IOptions = (*SeedOptions)(nil)

// SeedOptions locates the YAML document describing the entity graph.
type SeedOptions struct {
	Path string `json:"path" mapstructure:"path"`
}

func NewSeedOptions() *SeedOptions {
	return &SeedOptions{
		Path: "seed.yaml",
	}
}

func (o *SeedOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.Path == "" {
		errors = append(errors, fmt.Errorf("seed.path must not be empty"))
	}

	return errors
}

func (o *SeedOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Path, "seed.path", o.Path, "Path to the YAML seed document describing the entity graph.")
}
