package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoscope-io/autoscope/internal/hub/core/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New()

	require.NoError(t, s.AddComponent(model.Component{
		ID:           "Brakes",
		Name:         "Brake Control Unit",
		Architecture: "autosar_classic",
		AreaIDs:      []string{"Chassis", "Powertrain"},
		Data: model.DataSet{
			Ident:   map[string]model.Value{"PartNumber": model.StringValue("BRK-2024-ABS")},
			Current: map[string]model.Value{"TempC": model.IntValue(48)},
		},
	}))
	require.NoError(t, s.AddComponent(model.Component{
		ID:           "Steering",
		Name:         "Steering Control Unit",
		Architecture: "autosar_adaptive",
		AreaIDs:      []string{"Chassis"},
	}))
	require.NoError(t, s.AddArea(model.Area{
		ID:                 "Chassis",
		Name:               "Chassis Zone",
		MemberComponentIDs: []string{"Brakes", "Steering"},
	}))
	require.NoError(t, s.AddArea(model.Area{
		ID:                 "Powertrain",
		Name:               "Powertrain Zone",
		MemberComponentIDs: []string{"Brakes"},
	}))
	require.NoError(t, s.AddApp(model.App{
		ID:              "BrakeMonitor",
		Name:            "Brake Monitor Daemon",
		HostComponentID: "Brakes",
	}))
	require.NoError(t, s.AddFunction(model.Function{
		ID:                      "EmergencyStop",
		Name:                    "Emergency Stop",
		ParticipantComponentIDs: []string{"Brakes", "Steering"},
	}))

	return s
}

func TestAddRejectsDuplicates(t *testing.T) {
	s := newTestStore(t)

	assert.Error(t, s.AddComponent(model.Component{ID: "Brakes"}))
	assert.Error(t, s.AddArea(model.Area{ID: "Chassis"}))
	assert.Error(t, s.AddApp(model.App{ID: "BrakeMonitor"}))
	assert.Error(t, s.AddFunction(model.Function{ID: "EmergencyStop"}))
	assert.Error(t, s.AddComponent(model.Component{}))
}

func TestLookupsNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetComponent("Gearbox")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.GetArea("Roof")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.GetApp("nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.GetFunction("nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestManyToManyMembership(t *testing.T) {
	s := newTestStore(t)

	// Brakes belongs to both areas and appears once per containing area.
	chassis, err := s.ComponentsInArea("Chassis")
	require.NoError(t, err)
	require.Len(t, chassis, 2)
	assert.Equal(t, "Brakes", chassis[0].ID)
	assert.Equal(t, "Steering", chassis[1].ID)

	powertrain, err := s.ComponentsInArea("Powertrain")
	require.NoError(t, err)
	require.Len(t, powertrain, 1)
	assert.Equal(t, "Brakes", powertrain[0].ID)

	areas, err := s.AreasForComponent("Brakes")
	require.NoError(t, err)
	require.Len(t, areas, 2)
	assert.Equal(t, "Chassis", areas[0].ID)
	assert.Equal(t, "Powertrain", areas[1].ID)
}

func TestAppsOnComponent(t *testing.T) {
	s := newTestStore(t)

	apps, err := s.AppsOnComponent("Brakes")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "BrakeMonitor", apps[0].ID)

	apps, err = s.AppsOnComponent("Steering")
	require.NoError(t, err)
	assert.Empty(t, apps)

	_, err = s.AppsOnComponent("Gearbox")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSetCurrentDataVisibility(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SetCurrentData("Brakes", "TempC", model.IntValue(55)))

	c, err := s.GetComponent("Brakes")
	require.NoError(t, err)
	assert.True(t, c.Data.Current["TempC"].Equal(model.IntValue(55)))

	// Apps start with no current bucket; the first write creates it.
	require.NoError(t, s.SetCurrentData("BrakeMonitor", "Uptime", model.IntValue(7)))
	a, err := s.GetApp("BrakeMonitor")
	require.NoError(t, err)
	assert.True(t, a.Data.Current["Uptime"].Equal(model.IntValue(7)))

	err = s.SetCurrentData("Gearbox", "x", model.IntValue(1))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSnapshotsAreDetached(t *testing.T) {
	s := newTestStore(t)

	before, err := s.GetComponent("Brakes")
	require.NoError(t, err)

	require.NoError(t, s.SetCurrentData("Brakes", "TempC", model.IntValue(90)))

	// The earlier snapshot must not see the later write.
	assert.True(t, before.Data.Current["TempC"].Equal(model.IntValue(48)))
}

func TestAppendFaultStampsOwner(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AppendFault("Brakes", model.Fault{
		Code:   "P0571",
		Status: model.FaultStatus{AggregatedStatus: model.FaultActive},
	}))

	c, err := s.GetComponent("Brakes")
	require.NoError(t, err)
	require.Len(t, c.Faults, 1)
	assert.Equal(t, "Brakes", c.Faults[0].OwnerEntityID)

	err = s.AppendFault("Gearbox", model.Fault{Code: "X"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListingsKeepSeedOrder(t *testing.T) {
	s := newTestStore(t)

	comps := s.Components()
	require.Len(t, comps, 2)
	assert.Equal(t, "Brakes", comps[0].ID)
	assert.Equal(t, "Steering", comps[1].ID)

	areas := s.Areas()
	require.Len(t, areas, 2)
	assert.Equal(t, "Chassis", areas[0].ID)
	assert.Equal(t, "Powertrain", areas[1].ID)
}
