package service

import (
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"github.com/autoscope-io/autoscope/internal/hub/core/arch"
	"github.com/autoscope-io/autoscope/internal/hub/core/model"
	"github.com/autoscope-io/autoscope/internal/hub/core/store"
)

// newTestService builds the shared fixture: two areas, three components, one
// app and one function, over an in-memory bulk filesystem and no archive.
func newTestService(t *testing.T) (*Service, billy.Filesystem) {
	t.Helper()

	s := store.New()
	require.NoError(t, s.AddComponent(model.Component{
		ID:           "Brakes",
		Name:         "Brake Control Unit",
		Architecture: "autosar_classic",
		AreaIDs:      []string{"Chassis"},
		Data: model.DataSet{
			Ident:   map[string]model.Value{"PartNumber": model.StringValue("BRK-2024-ABS")},
			Current: map[string]model.Value{"TempC": model.IntValue(48)},
			SysInfo: map[string]model.Value{"Vendor": model.StringValue("Example AG")},
		},
		BulkCategories: []string{"fault_memory"},
		Faults: []model.Fault{
			{
				Code:          "P0571",
				Name:          "Brake Switch A Circuit",
				Severity:      2,
				Status:        model.FaultStatus{AggregatedStatus: model.FaultActive},
				OwnerEntityID: "Brakes",
			},
			{
				Code:          "P0572",
				Name:          "Brake Switch A Circuit Low",
				Severity:      1,
				Status:        model.FaultStatus{AggregatedStatus: model.FaultPending},
				OwnerEntityID: "Brakes",
			},
		},
	}))
	require.NoError(t, s.AddComponent(model.Component{
		ID:             "Steering",
		Name:           "Steering Control Unit",
		Architecture:   "autosar_adaptive",
		AreaIDs:        []string{"Chassis"},
		BulkCategories: []string{"persistency", "logs"},
	}))
	require.NoError(t, s.AddComponent(model.Component{
		ID:             "Engine",
		Name:           "Engine Control Unit",
		Architecture:   "posix",
		BulkCategories: []string{"logs"},
	}))
	require.NoError(t, s.AddArea(model.Area{
		ID:                 "Chassis",
		Name:               "Chassis Zone",
		MemberComponentIDs: []string{"Brakes", "Steering"},
	}))
	require.NoError(t, s.AddApp(model.App{
		ID:              "BrakeMonitor",
		Name:            "Brake Monitor Daemon",
		HostComponentID: "Brakes",
		Data: model.DataSet{
			Ident: map[string]model.Value{"Version": model.StringValue("1.4.2")},
		},
		BulkCategories: []string{"fault_memory"},
	}))
	require.NoError(t, s.AddFunction(model.Function{
		ID:                      "EmergencyStop",
		Name:                    "Emergency Stop",
		ParticipantComponentIDs: []string{"Brakes", "Steering"},
	}))

	fs := memfs.New()
	return New(s, arch.Builtin(), fs, nil), fs
}

// writeBulkFile creates one artifact under the in-memory bulk tree.
func writeBulkFile(t *testing.T, fs billy.Filesystem, path, content string) {
	t.Helper()
	require.NoError(t, util.WriteFile(fs, path, []byte(content), 0o644))
}
