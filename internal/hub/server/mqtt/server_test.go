package mqtt

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoscope-io/autoscope/internal/hub/core/arch"
	"github.com/autoscope-io/autoscope/internal/hub/core/model"
	"github.com/autoscope-io/autoscope/internal/hub/core/service"
	"github.com/autoscope-io/autoscope/internal/hub/core/store"
	"github.com/autoscope-io/autoscope/pkg/mqtt/topic"
)

func newIngestServer(t *testing.T) (*Server, *service.Service) {
	t.Helper()

	st := store.New()
	require.NoError(t, st.AddComponent(model.Component{
		ID:           "Brakes",
		Name:         "Brake Control Unit",
		Architecture: "autosar_classic",
	}))

	svc := service.New(st, arch.Builtin(), memfs.New(), nil)
	return NewServer(nil, topic.NewBuilder("sovd/v1"), svc), svc
}

func TestHandleDataAppliesUpdate(t *testing.T) {
	srv, svc := newIngestServer(t)

	srv.handleData(context.Background(), "sovd/v1/data/Brakes", []byte(`{"key":"TempC","value":55}`))

	v, err := svc.GetData(model.CollectionComponents, "Brakes", "TempC")
	require.NoError(t, err)
	assert.Equal(t, int64(55), v.Any())
}

func TestHandleDataDropsBadInput(t *testing.T) {
	srv, svc := newIngestServer(t)

	// None of these must reach the store or panic.
	srv.handleData(context.Background(), "sovd/v1/data/Brakes", []byte(`not json`))
	srv.handleData(context.Background(), "sovd/v1/data/Brakes", []byte(`{"value":1}`))
	srv.handleData(context.Background(), "sovd/v1/data/Brakes", []byte(`{"key":"Nested","value":{"x":1}}`))
	srv.handleData(context.Background(), "sovd/v1/data/", []byte(`{"key":"TempC","value":1}`))
	srv.handleData(context.Background(), "sovd/v1/data/Gearbox", []byte(`{"key":"TempC","value":1}`))

	entries, err := svc.ListData(model.CollectionComponents, "Brakes")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHandleFaultAppendsRecord(t *testing.T) {
	srv, svc := newIngestServer(t)

	srv.handleFault(context.Background(), "sovd/v1/fault/Brakes",
		[]byte(`{"code":"P0571","faultName":"Brake Switch A Circuit","severity":2,"status":{"aggregatedStatus":"active"}}`))

	faults, err := svc.GetFaults(model.CollectionComponents, "Brakes", model.FaultFilter{})
	require.NoError(t, err)
	require.Len(t, faults, 1)
	assert.Equal(t, "P0571", faults[0].Code)
	assert.Equal(t, "Brakes", faults[0].OwnerEntityID)
	// A missing detection time is stamped on ingest.
	assert.False(t, faults[0].DetectedAt.IsZero())
}

func TestHandleFaultDropsBadInput(t *testing.T) {
	srv, svc := newIngestServer(t)

	srv.handleFault(context.Background(), "sovd/v1/fault/Brakes", []byte(`not json`))
	srv.handleFault(context.Background(), "sovd/v1/fault/Brakes", []byte(`{"severity":2}`))
	srv.handleFault(context.Background(), "sovd/v1/fault/Brakes", []byte(`{"code":"X","status":{"aggregatedStatus":"flaky"}}`))
	srv.handleFault(context.Background(), "sovd/v1/fault/Gearbox", []byte(`{"code":"X","status":{"aggregatedStatus":"active"}}`))

	faults, err := svc.GetFaults(model.CollectionComponents, "Brakes", model.FaultFilter{})
	require.NoError(t, err)
	assert.Empty(t, faults)
}
