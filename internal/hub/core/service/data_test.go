package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoscope-io/autoscope/internal/hub/core/model"
)

func TestGetDataPriorityShadowing(t *testing.T) {
	svc, _ := newTestService(t)

	// A key present in identData and currentData resolves to identData.
	require.NoError(t, svc.SetCurrentData("Brakes", "PartNumber", model.StringValue("OVERWRITTEN")))

	v, err := svc.GetData(model.CollectionComponents, "Brakes", "PartNumber")
	require.NoError(t, err)
	assert.Equal(t, "BRK-2024-ABS", v.String())

	// currentData shadows sysInfo the same way.
	require.NoError(t, svc.SetCurrentData("Brakes", "Vendor", model.StringValue("Live AG")))
	v, err = svc.GetData(model.CollectionComponents, "Brakes", "Vendor")
	require.NoError(t, err)
	assert.Equal(t, "Live AG", v.String())
}

func TestGetDataFallsThroughCategories(t *testing.T) {
	svc, _ := newTestService(t)

	v, err := svc.GetData(model.CollectionComponents, "Brakes", "TempC")
	require.NoError(t, err)
	assert.Equal(t, int64(48), v.Any())

	v, err = svc.GetData(model.CollectionComponents, "Brakes", "Vendor")
	require.NoError(t, err)
	assert.Equal(t, "Example AG", v.String())
}

func TestGetDataNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetData(model.CollectionComponents, "Brakes", "NoSuchKey")
	assert.ErrorIs(t, err, model.ErrDataNotFound)

	// Areas carry no data at all.
	_, err = svc.GetData(model.CollectionAreas, "Chassis", "TempC")
	assert.ErrorIs(t, err, model.ErrDataNotFound)

	_, err = svc.GetData(model.CollectionComponents, "Gearbox", "TempC")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListDataOrderAndTagging(t *testing.T) {
	svc, _ := newTestService(t)

	entries, err := svc.ListData(model.CollectionComponents, "Brakes")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Categories in priority order, keys sorted within each category.
	assert.Equal(t, "PartNumber", entries[0].ID)
	assert.Equal(t, model.CategoryIdent, entries[0].Category)
	assert.Equal(t, "TempC", entries[1].ID)
	assert.Equal(t, model.CategoryCurrent, entries[1].Category)
	assert.Equal(t, "Vendor", entries[2].ID)
	assert.Equal(t, model.CategorySysInfo, entries[2].Category)
}

func TestListDataShadowedKeysStillListed(t *testing.T) {
	svc, _ := newTestService(t)

	require.NoError(t, svc.SetCurrentData("Brakes", "PartNumber", model.StringValue("LIVE")))

	entries, err := svc.ListData(model.CollectionComponents, "Brakes")
	require.NoError(t, err)

	var sources []model.DataCategory
	for _, e := range entries {
		if e.ID == "PartNumber" {
			sources = append(sources, e.Category)
		}
	}
	assert.Equal(t, []model.DataCategory{model.CategoryIdent, model.CategoryCurrent}, sources)
}

func TestListDataEmptyEntity(t *testing.T) {
	svc, _ := newTestService(t)

	entries, err := svc.ListData(model.CollectionFunctions, "EmergencyStop")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}
