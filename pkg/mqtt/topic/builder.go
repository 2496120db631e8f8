package topic

import (
	"fmt"
	"strings"
)

// Segments defining the standard topic layout.
// These act as the protocol contract between the hub's ingest plane and the
// live-data publishers (ascope-agent or a real vehicle gateway). Changing
// these values breaks compatibility with deployed publishers.
const (
	// SegmentData carries current-data updates for one entity.
	// Structure: {root}/data/{entityID}
	// Payload: {"key": "...", "value": <scalar>}
	SegmentData = "data"

	// SegmentFault carries fault records for one entity.
	// Structure: {root}/fault/{entityID}
	// Payload: a single Fault document in JSON.
	SegmentFault = "fault"
)

// Builder encapsulates the construction of MQTT topic strings so the
// namespace root is decided in exactly one place.
type Builder struct {
	// root is the base namespace for all topics (e.g. "sovd/v1").
	root string
}

// NewBuilder creates a Builder with the specified root namespace.
func NewBuilder(root string) *Builder {
	return &Builder{root: root}
}

// Data returns the current-data update topic for one entity.
func (b *Builder) Data(entityID string) string {
	return b.build(SegmentData, entityID)
}

// DataWildcard returns the filter the hub subscribes to for ALL data updates.
// Result: {root}/data/+
func (b *Builder) DataWildcard() string {
	return b.build(SegmentData, Wildcard)
}

// Fault returns the fault ingest topic for one entity.
func (b *Builder) Fault(entityID string) string {
	return b.build(SegmentFault, entityID)
}

// FaultWildcard returns the filter the hub subscribes to for ALL fault events.
// Result: {root}/fault/+
func (b *Builder) FaultWildcard() string {
	return b.build(SegmentFault, Wildcard)
}

// EntityID extracts the entity identifier from a concrete topic, i.e. the
// final topic level. Returns "" for topics that do not follow the layout.
func EntityID(topic string) string {
	idx := strings.LastIndex(topic, "/")
	if idx < 0 || idx == len(topic)-1 {
		return ""
	}
	return topic[idx+1:]
}

// build constructs the final topic string.
// Pattern: {root}/{segment}/{identifier}
func (b *Builder) build(segment, id string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, segment, id)
}
