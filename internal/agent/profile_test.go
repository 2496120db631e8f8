package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoscope-io/autoscope/internal/hub/core/model"
)

const validProfile = `
entities:
  - id: Brakes
    initial:
      TempC: 48
      PressureBar: 4.2
    updates:
      - key: TempC
        interval: 5s
        values: [48, 52, 55]
    faults:
      - after: 10s
        code: P0572
        name: Brake Switch A Circuit Low
        severity: 1
        status: pending
  - id: Engine
    updates:
      - key: CoolantTempC
        interval: 10s
        values: [82, 90]
`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(validProfile))
	require.NoError(t, err)
	require.Len(t, p.Entities, 2)

	brakes := p.Entities[0]
	assert.Equal(t, "Brakes", brakes.ID)
	assert.True(t, brakes.Initial["TempC"].Equal(model.IntValue(48)))
	assert.True(t, brakes.Initial["PressureBar"].Equal(model.FloatValue(4.2)))

	require.Len(t, brakes.Updates, 1)
	assert.Equal(t, 5*time.Second, brakes.Updates[0].Interval.Std())
	require.Len(t, brakes.Updates[0].Values, 3)

	require.Len(t, brakes.Faults, 1)
	assert.Equal(t, 10*time.Second, brakes.Faults[0].After.Std())
	assert.Equal(t, "pending", brakes.Faults[0].Status)
}

func TestParseProfileRejectsUnknownFields(t *testing.T) {
	_, err := ParseProfile([]byte("entities:\n  - id: X\n    initail: {a: 1}\n"))
	assert.Error(t, err)
}

func TestProfileValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			"missing entity id",
			"entities:\n  - initial: {a: 1}\n",
			"entity without id",
		},
		{
			"zero interval",
			"entities:\n  - id: X\n    updates:\n      - key: a\n        values: [1]\n",
			"interval must be positive",
		},
		{
			"empty values",
			"entities:\n  - id: X\n    updates:\n      - key: a\n        interval: 1s\n        values: []\n",
			"at least one value is required",
		},
		{
			"missing update key",
			"entities:\n  - id: X\n    updates:\n      - interval: 1s\n        values: [1]\n",
			"update without key",
		},
		{
			"fault without code",
			"entities:\n  - id: X\n    faults:\n      - after: 1s\n        status: active\n",
			"fault event without code",
		},
		{
			"invalid fault status",
			"entities:\n  - id: X\n    faults:\n      - code: P1\n        status: flaky\n",
			`invalid status "flaky"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile("/nonexistent/profile.yaml")
	assert.Error(t, err)
}
