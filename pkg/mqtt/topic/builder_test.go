package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderTopics(t *testing.T) {
	b := NewBuilder("sovd/v1")

	assert.Equal(t, "sovd/v1/data/Brakes", b.Data("Brakes"))
	assert.Equal(t, "sovd/v1/data/+", b.DataWildcard())
	assert.Equal(t, "sovd/v1/fault/Brakes", b.Fault("Brakes"))
	assert.Equal(t, "sovd/v1/fault/+", b.FaultWildcard())
}

func TestEntityID(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"sovd/v1/data/Brakes", "Brakes"},
		{"sovd/v1/fault/BrakeMonitor", "BrakeMonitor"},
		{"sovd/v1/data/", ""},
		{"no-slashes", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EntityID(tt.topic), "topic %q", tt.topic)
	}
}

func TestBuilderRoundTrip(t *testing.T) {
	b := NewBuilder("fleet/test")
	assert.Equal(t, "Engine", EntityID(b.Data("Engine")))
	assert.Equal(t, "Engine", EntityID(b.Fault("Engine")))
}
