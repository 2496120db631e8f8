// Package arch maps architecture tags to bulk-data filesystem layouts.
//
// Different ECU families expose structurally different bulk-data taxonomies
// (fault_memory/calibration for AUTOSAR Classic vs models/maps/recordings for
// an ADAS Linux stack). Centralizing the tag -> {root, allowed categories}
// mapping keeps the allow-list enforceable in one place instead of per
// entity.
package arch

import (
	"fmt"
	"slices"

	"github.com/autoscope-io/autoscope/internal/hub/core/model"
)

// Spec describes one architecture: its root directory (relative to the bulk
// base directory) and the bulk-data categories entities of this architecture
// may expose.
type Spec struct {
	Tag        string
	Root       string
	Categories []string
}

// Registry is the static architecture table. It is populated at startup and
// read-only afterwards, so lookups need no locking.
type Registry struct {
	specs map[string]Spec
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]Spec)}
}

// Builtin returns the registry preloaded with the four supported ECU
// families. Seed documents may override or extend these entries.
func Builtin() *Registry {
	r := NewRegistry()
	builtins := []Spec{
		{Tag: "posix", Root: "posix", Categories: []string{"logs", "configs", "crashreports"}},
		{Tag: "autosar_classic", Root: "classic", Categories: []string{"fault_memory", "calibration"}},
		{Tag: "autosar_adaptive", Root: "adaptive", Categories: []string{"persistency", "logs", "execution_manifests"}},
		{Tag: "adas_linux", Root: "adas", Categories: []string{"models", "maps", "recordings"}},
	}
	for _, s := range builtins {
		// Builtin specs are well-formed by construction.
		_ = r.Register(s)
	}
	return r
}

// Register adds or replaces an architecture spec. Replacing keeps the
// original registration order.
func (r *Registry) Register(s Spec) error {
	if s.Tag == "" {
		return fmt.Errorf("architecture tag must not be empty")
	}
	if s.Root == "" {
		return fmt.Errorf("architecture %q: root directory must not be empty", s.Tag)
	}
	if len(s.Categories) == 0 {
		return fmt.Errorf("architecture %q: at least one bulk-data category is required", s.Tag)
	}

	s.Categories = slices.Clone(s.Categories)
	if _, exists := r.specs[s.Tag]; !exists {
		r.order = append(r.order, s.Tag)
	}
	r.specs[s.Tag] = s
	return nil
}

// ResolveRoot returns the root directory for an architecture tag, relative
// to the bulk base directory.
func (r *Registry) ResolveRoot(tag string) (string, error) {
	s, ok := r.specs[tag]
	if !ok {
		return "", fmt.Errorf("%w: %q", model.ErrUnknownArchitecture, tag)
	}
	return s.Root, nil
}

// AllowedCategories returns the bulk-data categories permitted for an
// architecture tag.
func (r *Registry) AllowedCategories(tag string) ([]string, error) {
	s, ok := r.specs[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownArchitecture, tag)
	}
	return slices.Clone(s.Categories), nil
}

// Allows reports whether the architecture permits the category.
func (r *Registry) Allows(tag, category string) (bool, error) {
	s, ok := r.specs[tag]
	if !ok {
		return false, fmt.Errorf("%w: %q", model.ErrUnknownArchitecture, tag)
	}
	return slices.Contains(s.Categories, category), nil
}

// Known reports whether the tag is registered.
func (r *Registry) Known(tag string) bool {
	_, ok := r.specs[tag]
	return ok
}

// Tags returns the registered tags in registration order.
func (r *Registry) Tags() []string {
	return slices.Clone(r.order)
}
