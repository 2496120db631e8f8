package model

import "time"

// AggregatedStatus is the diagnostic-domain status vocabulary for a fault.
type AggregatedStatus string

const (
	FaultActive    AggregatedStatus = "active"
	FaultInactive  AggregatedStatus = "inactive"
	FaultPending   AggregatedStatus = "pending"
	FaultConfirmed AggregatedStatus = "confirmed"
)

// Valid reports whether s is one of the four domain statuses.
func (s AggregatedStatus) Valid() bool {
	switch s {
	case FaultActive, FaultInactive, FaultPending, FaultConfirmed:
		return true
	}
	return false
}

// FaultStatus wraps the aggregated status so the wire form matches the
// diagnostic resource model ({"status": {"aggregatedStatus": "active"}}).
type FaultStatus struct {
	AggregatedStatus AggregatedStatus `json:"aggregatedStatus" yaml:"aggregatedStatus"`
}

// Fault is a single diagnostic trouble code instance. The engine never
// mutates faults; it only filters and projects them.
type Fault struct {
	Code            string      `json:"code" yaml:"code"`
	Name            string      `json:"faultName" yaml:"name"`
	Severity        int         `json:"severity" yaml:"severity"`
	Status          FaultStatus `json:"status" yaml:"status"`
	OwnerEntityID   string      `json:"ownerEntityId,omitempty" yaml:"owner,omitempty"`
	DetectedAt      time.Time   `json:"detectedAt,omitempty" yaml:"detectedAt,omitempty"`
	OccurrenceCount int         `json:"occurrenceCount,omitempty" yaml:"occurrenceCount,omitempty"`
}

// FaultFilter narrows a fault listing. Zero fields match everything.
type FaultFilter struct {
	// Status matches the aggregated status exactly when non-empty.
	Status AggregatedStatus

	// Severity matches exactly when non-nil. Source severities are discrete
	// categories, not a continuum, so no threshold semantics.
	Severity *int

	// Scope is reserved for sub-entity scoping. Entities without a finer
	// scope concept treat it as a pass-through no-op.
	Scope string
}

// Matches reports whether the fault passes the filter.
func (f FaultFilter) Matches(fault Fault) bool {
	if f.Status != "" && fault.Status.AggregatedStatus != f.Status {
		return false
	}
	if f.Severity != nil && fault.Severity != *f.Severity {
		return false
	}
	return true
}
