package options

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

var _ IOptions = (*BulkOptions)(nil)

// BulkOptions configures the bulk-data filesystem roots. BaseDir is the
// directory that contains one subdirectory per architecture, each holding
// per-entity category directories.
type BulkOptions struct {
	BaseDir string `json:"base-dir" mapstructure:"base-dir"`
}

func NewBulkOptions() *BulkOptions {
	return &BulkOptions{
		BaseDir: "/var/lib/autoscope/bulk",
	}
}

func (o *BulkOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.BaseDir == "" {
		errors = append(errors, fmt.Errorf("bulk.base-dir must not be empty"))
	} else if info, err := os.Stat(o.BaseDir); err == nil && !info.IsDir() {
		errors = append(errors, fmt.Errorf("bulk.base-dir %q is not a directory", o.BaseDir))
	}

	return errors
}

func (o *BulkOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.BaseDir, "bulk.base-dir", o.BaseDir, "Base directory holding the per-architecture bulk-data roots.")
}
