package agent

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/autoscope-io/autoscope/internal/hub/core/model"
)

// Duration adds YAML support for the "5s" / "1m30s" notation.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q", node.Line, raw)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped standard duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Profile is the YAML document the agent plays: per entity, a set of
// initial current-data values, periodic updates and scripted fault events.
type Profile struct {
	Entities []EntityProfile `yaml:"entities"`
}

type EntityProfile struct {
	ID      string                 `yaml:"id"`
	Initial map[string]model.Value `yaml:"initial"`
	Updates []UpdateProfile        `yaml:"updates"`
	Faults  []FaultEvent           `yaml:"faults"`
}

// UpdateProfile publishes one key on a fixed interval, cycling through the
// listed values.
type UpdateProfile struct {
	Key      string        `yaml:"key"`
	Interval Duration      `yaml:"interval"`
	Values   []model.Value `yaml:"values"`
}

// FaultEvent publishes one fault record after a delay from playback start.
type FaultEvent struct {
	After    Duration `yaml:"after"`
	Code     string   `yaml:"code"`
	Name     string   `yaml:"name"`
	Severity int      `yaml:"severity"`
	Status   string   `yaml:"status"`
}

// LoadProfile reads and validates a profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %q: %w", path, err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes and validates a profile document.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Profile) validate() error {
	var errs []error
	for _, e := range p.Entities {
		if e.ID == "" {
			errs = append(errs, fmt.Errorf("profile entity without id"))
			continue
		}
		for _, u := range e.Updates {
			if u.Key == "" {
				errs = append(errs, fmt.Errorf("entity %q: update without key", e.ID))
			}
			if u.Interval <= 0 {
				errs = append(errs, fmt.Errorf("entity %q key %q: interval must be positive", e.ID, u.Key))
			}
			if len(u.Values) == 0 {
				errs = append(errs, fmt.Errorf("entity %q key %q: at least one value is required", e.ID, u.Key))
			}
		}
		for _, f := range e.Faults {
			if f.Code == "" {
				errs = append(errs, fmt.Errorf("entity %q: fault event without code", e.ID))
			}
			if !model.AggregatedStatus(f.Status).Valid() {
				errs = append(errs, fmt.Errorf("entity %q fault %q: invalid status %q", e.ID, f.Code, f.Status))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid profile:\n%w", err)
	}
	return nil
}
