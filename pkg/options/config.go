package options

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadConfigFile reads a YAML/JSON config file and unmarshals it over the
// defaults already present in target. Flags parsed afterwards still win, so
// precedence is flags > config file > defaults.
func LoadConfigFile(path string, target any) error {
	if path == "" {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	if err := v.Unmarshal(target); err != nil {
		return fmt.Errorf("failed to unmarshal config file %q: %w", path, err)
	}

	return nil
}
