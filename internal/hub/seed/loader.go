// Package seed loads the YAML document describing the entity graph and
// builds the validated entity store and architecture registry from it.
//
// Validation is all-or-nothing: every violation found is reported in one
// joined error and the hub refuses to start on an inconsistent graph.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/autoscope-io/autoscope/internal/hub/core/arch"
	"github.com/autoscope-io/autoscope/internal/hub/core/model"
	"github.com/autoscope-io/autoscope/internal/hub/core/store"
)

// Document is the top-level seed file shape.
type Document struct {
	// Architectures optionally overrides or extends the built-in table.
	Architectures []ArchitectureDoc `yaml:"architectures"`
	Areas         []AreaDoc         `yaml:"areas"`
	Components    []ComponentDoc    `yaml:"components"`
	Apps          []AppDoc          `yaml:"apps"`
	Functions     []FunctionDoc     `yaml:"functions"`
}

type ArchitectureDoc struct {
	Tag        string   `yaml:"tag"`
	Root       string   `yaml:"root"`
	Categories []string `yaml:"categories"`
}

type AreaDoc struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Components []string `yaml:"components"`
}

type ComponentDoc struct {
	ID             string                 `yaml:"id"`
	Name           string                 `yaml:"name"`
	Architecture   string                 `yaml:"architecture"`
	IdentData      map[string]model.Value `yaml:"ident_data"`
	CurrentData    map[string]model.Value `yaml:"current_data"`
	SysInfo        map[string]model.Value `yaml:"sys_info"`
	BulkCategories []string               `yaml:"bulk_categories"`
	Faults         []FaultDoc             `yaml:"faults"`
}

type AppDoc struct {
	ID             string                 `yaml:"id"`
	Name           string                 `yaml:"name"`
	Host           string                 `yaml:"host"`
	Data           map[string]model.Value `yaml:"data"`
	BulkCategories []string               `yaml:"bulk_categories"`
	Faults         []FaultDoc             `yaml:"faults"`
}

type FunctionDoc struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Participants []string `yaml:"participants"`
}

type FaultDoc struct {
	Code            string `yaml:"code"`
	Name            string `yaml:"name"`
	Severity        int    `yaml:"severity"`
	Status          string `yaml:"status"`
	OccurrenceCount int    `yaml:"occurrenceCount"`
}

// Load reads, parses and validates a seed file.
func Load(path string) (*store.Store, *arch.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read seed file %q: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, nil, err
	}
	return Build(doc)
}

// Parse decodes a seed document. Unknown fields are rejected so typos in the
// seed surface at startup instead of silently dropping configuration.
func Parse(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed document: %w", err)
	}
	return &doc, nil
}

// Build constructs the entity store and architecture registry from a parsed
// document, validating the full graph before anything is put into service.
func Build(doc *Document) (*store.Store, *arch.Registry, error) {
	var errs []error

	registry := arch.Builtin()
	for _, a := range doc.Architectures {
		if err := registry.Register(arch.Spec{Tag: a.Tag, Root: a.Root, Categories: a.Categories}); err != nil {
			errs = append(errs, err)
		}
	}

	st := store.New()

	componentIDs := make(map[string]bool, len(doc.Components))
	for _, c := range doc.Components {
		componentIDs[c.ID] = true
	}

	// Areas own the membership link; components carry back-references only.
	// Back-references are collected in area seed order.
	areaRefs := make(map[string][]string)
	for _, a := range doc.Areas {
		for _, cid := range a.Components {
			if !componentIDs[cid] {
				errs = append(errs, fmt.Errorf("area %q: member component %q does not exist", a.ID, cid))
				continue
			}
			areaRefs[cid] = append(areaRefs[cid], a.ID)
		}
		if err := st.AddArea(model.Area{
			ID:                 a.ID,
			Name:               a.Name,
			MemberComponentIDs: slices.Clone(a.Components),
		}); err != nil {
			errs = append(errs, err)
		}
	}

	for _, c := range doc.Components {
		errs = append(errs, validateArchitecture(registry, "component", c.ID, c.Architecture, c.BulkCategories)...)

		faults, ferrs := buildFaults("component", c.ID, c.Faults)
		errs = append(errs, ferrs...)

		if err := st.AddComponent(model.Component{
			ID:           c.ID,
			Name:         c.Name,
			Architecture: c.Architecture,
			AreaIDs:      areaRefs[c.ID],
			Data: model.DataSet{
				Ident:   c.IdentData,
				Current: c.CurrentData,
				SysInfo: c.SysInfo,
			},
			BulkCategories: slices.Clone(c.BulkCategories),
			Faults:         faults,
		}); err != nil {
			errs = append(errs, err)
		}
	}

	archOf := make(map[string]string, len(doc.Components))
	for _, c := range doc.Components {
		archOf[c.ID] = c.Architecture
	}

	for _, a := range doc.Apps {
		if !componentIDs[a.Host] {
			errs = append(errs, fmt.Errorf("app %q: host component %q does not exist", a.ID, a.Host))
		} else {
			// Apps inherit their host's architecture for bulk-data layout.
			errs = append(errs, validateArchitecture(registry, "app", a.ID, archOf[a.Host], a.BulkCategories)...)
		}

		faults, ferrs := buildFaults("app", a.ID, a.Faults)
		errs = append(errs, ferrs...)

		if err := st.AddApp(model.App{
			ID:              a.ID,
			Name:            a.Name,
			HostComponentID: a.Host,
			Data:            model.DataSet{Ident: a.Data},
			BulkCategories:  slices.Clone(a.BulkCategories),
			Faults:          faults,
		}); err != nil {
			errs = append(errs, err)
		}
	}

	for _, f := range doc.Functions {
		if len(f.Participants) == 0 {
			errs = append(errs, fmt.Errorf("function %q: at least one participant is required", f.ID))
		}
		for _, cid := range f.Participants {
			if !componentIDs[cid] {
				errs = append(errs, fmt.Errorf("function %q: participant component %q does not exist", f.ID, cid))
			}
		}
		if err := st.AddFunction(model.Function{
			ID:                      f.ID,
			Name:                    f.Name,
			ParticipantComponentIDs: slices.Clone(f.Participants),
		}); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, nil, fmt.Errorf("invalid seed document:\n%w", err)
	}
	return st, registry, nil
}

// validateArchitecture checks the tag is registered and the declared bulk
// categories are a subset of what the architecture allows.
func validateArchitecture(registry *arch.Registry, kind, id, tag string, categories []string) []error {
	if !registry.Known(tag) {
		return []error{fmt.Errorf("%s %q: %w: %q", kind, id, model.ErrUnknownArchitecture, tag)}
	}

	var errs []error
	allowed, _ := registry.AllowedCategories(tag)
	for _, c := range categories {
		if !slices.Contains(allowed, c) {
			errs = append(errs, fmt.Errorf("%s %q: bulk category %q not allowed for architecture %q", kind, id, c, tag))
		}
	}
	return errs
}

func buildFaults(kind, ownerID string, docs []FaultDoc) ([]model.Fault, []error) {
	var errs []error
	faults := make([]model.Fault, 0, len(docs))
	for _, f := range docs {
		status := model.AggregatedStatus(f.Status)
		if !status.Valid() {
			errs = append(errs, fmt.Errorf("%s %q fault %q: invalid status %q", kind, ownerID, f.Code, f.Status))
			continue
		}
		count := f.OccurrenceCount
		if count == 0 {
			count = 1
		}
		faults = append(faults, model.Fault{
			Code:            f.Code,
			Name:            f.Name,
			Severity:        f.Severity,
			Status:          model.FaultStatus{AggregatedStatus: status},
			OwnerEntityID:   ownerID,
			OccurrenceCount: count,
		})
	}
	if len(faults) == 0 {
		faults = nil
	}
	return faults, errs
}
