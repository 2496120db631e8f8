package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoscope-io/autoscope/internal/hub/core/model"
)

const validSeed = `
architectures:
  - tag: rtos_custom
    root: rtos
    categories: [traces]
areas:
  - id: Chassis
    name: Chassis Zone
    components: [Brakes, Steering]
  - id: Powertrain
    name: Powertrain Zone
    components: [Brakes]
components:
  - id: Brakes
    name: Brake Control Unit
    architecture: autosar_classic
    ident_data: {PartNumber: BRK-2024-ABS}
    current_data: {TempC: 48}
    sys_info: {Vendor: Example AG}
    bulk_categories: [fault_memory]
    faults:
      - code: P0571
        name: Brake Switch A Circuit
        severity: 2
        status: active
  - id: Steering
    name: Steering Control Unit
    architecture: autosar_adaptive
    bulk_categories: [persistency, logs]
apps:
  - id: BrakeMonitor
    name: Brake Monitor Daemon
    host: Brakes
    data: {Version: 1.4.2}
    bulk_categories: [fault_memory]
functions:
  - id: EmergencyStop
    name: Emergency Stop
    participants: [Brakes, Steering]
`

func TestBuildValidSeed(t *testing.T) {
	doc, err := Parse([]byte(validSeed))
	require.NoError(t, err)

	st, registry, err := Build(doc)
	require.NoError(t, err)

	// Custom architecture registered alongside the builtins.
	assert.True(t, registry.Known("rtos_custom"))
	assert.True(t, registry.Known("posix"))

	brakes, err := st.GetComponent("Brakes")
	require.NoError(t, err)
	assert.Equal(t, []string{"Chassis", "Powertrain"}, brakes.AreaIDs)
	assert.True(t, brakes.Data.Ident["PartNumber"].Equal(model.StringValue("BRK-2024-ABS")))
	assert.True(t, brakes.Data.Current["TempC"].Equal(model.IntValue(48)))

	require.Len(t, brakes.Faults, 1)
	assert.Equal(t, "Brakes", brakes.Faults[0].OwnerEntityID)
	assert.Equal(t, 1, brakes.Faults[0].OccurrenceCount)
	assert.Equal(t, model.FaultActive, brakes.Faults[0].Status.AggregatedStatus)

	app, err := st.GetApp("BrakeMonitor")
	require.NoError(t, err)
	assert.Equal(t, "Brakes", app.HostComponentID)

	fn, err := st.GetFunction("EmergencyStop")
	require.NoError(t, err)
	assert.Equal(t, []string{"Brakes", "Steering"}, fn.ParticipantComponentIDs)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("components:\n  - id: X\n    nam: typo\n"))
	assert.Error(t, err)
}

func TestBuildCollectsAllViolations(t *testing.T) {
	doc, err := Parse([]byte(`
areas:
  - id: Chassis
    name: Chassis Zone
    components: [Ghost]
components:
  - id: Brakes
    name: Brake Control Unit
    architecture: vxworks
    bulk_categories: [fault_memory]
  - id: Steering
    name: Steering Control Unit
    architecture: autosar_classic
    bulk_categories: [models]
    faults:
      - code: X1
        status: flaky
apps:
  - id: Orphan
    name: Orphan App
    host: Ghost
functions:
  - id: Empty
    name: No Participants
    participants: []
`))
	require.NoError(t, err)

	_, _, err = Build(doc)
	require.Error(t, err)

	// Every violation is reported in the one joined error.
	msg := err.Error()
	assert.Contains(t, msg, "invalid seed document")
	assert.Contains(t, msg, `member component "Ghost" does not exist`)
	assert.Contains(t, msg, "vxworks")
	assert.Contains(t, msg, `bulk category "models" not allowed`)
	assert.Contains(t, msg, `invalid status "flaky"`)
	assert.Contains(t, msg, `host component "Ghost" does not exist`)
	assert.Contains(t, msg, "at least one participant is required")
}

func TestBuildUnknownArchitectureSentinel(t *testing.T) {
	doc, err := Parse([]byte(`
components:
  - id: X
    name: X
    architecture: vxworks
`))
	require.NoError(t, err)

	_, _, err = Build(doc)
	assert.ErrorIs(t, err, model.ErrUnknownArchitecture)
}

func TestBuildRejectsDuplicateIDs(t *testing.T) {
	doc, err := Parse([]byte(`
components:
  - id: Brakes
    name: One
    architecture: posix
  - id: Brakes
    name: Two
    architecture: posix
`))
	require.NoError(t, err)

	_, _, err = Build(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate component id "Brakes"`)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load("/nonexistent/seed.yaml")
	assert.Error(t, err)
}
