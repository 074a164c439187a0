package repository

import (
	"testing"

	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupManufacturerTest(t *testing.T) (ManufacturerRepository, ToolRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewManufacturerRepository(testDB), NewToolRepository(testDB)
}

func TestManufacturerRepository_ToolAssociation(t *testing.T) {
	repo, toolRepo := setupManufacturerTest(t)

	printer := &model.Tool{Name: "3D Printer", Description: "d"}
	laser := &model.Tool{Name: "Laser Cutter", Description: "d"}
	require.NoError(t, toolRepo.Create(printer))
	require.NoError(t, toolRepo.Create(laser))

	acme := &model.Manufacturer{Name: "Acme", Description: "d"}
	require.NoError(t, repo.Create(acme))
	require.NoError(t, repo.ReplaceTools(acme, []model.Tool{*printer}))

	other := &model.Manufacturer{Name: "Other", Description: "d"}
	require.NoError(t, repo.Create(other))
	require.NoError(t, repo.ReplaceTools(other, []model.Tool{*laser}))

	t.Run("tool filter narrows the listing", func(t *testing.T) {
		manufacturers, _, err := repo.FindWithFilter(ManufacturerFilter{
			ListFilter: ListFilter{Paginate: true, Page: 1, Limit: 10},
			ToolIDs:    []uint{printer.ID},
		})
		require.NoError(t, err)
		require.Len(t, manufacturers, 1)
		assert.Equal(t, "Acme", manufacturers[0].Name)
	})

	t.Run("tools are preloaded on lookup", func(t *testing.T) {
		found, err := repo.FindByID(acme.ID)
		require.NoError(t, err)
		require.Len(t, found.Tools, 1)
		assert.Equal(t, printer.ID, found.Tools[0].ID)
	})

	t.Run("replace swaps the association", func(t *testing.T) {
		require.NoError(t, repo.ReplaceTools(acme, []model.Tool{*laser}))

		found, err := repo.FindByID(acme.ID)
		require.NoError(t, err)
		require.Len(t, found.Tools, 1)
		assert.Equal(t, laser.ID, found.Tools[0].ID)
	})
}

func TestManufacturerRepository_List(t *testing.T) {
	repo, _ := setupManufacturerTest(t)

	require.NoError(t, repo.Create(&model.Manufacturer{Name: "Beta Corp", Description: "d"}))
	require.NoError(t, repo.Create(&model.Manufacturer{Name: "Alpha Inc", Description: "d"}))

	manufacturers, page, err := repo.FindWithFilter(ManufacturerFilter{
		ListFilter: ListFilter{Paginate: true, Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, manufacturers, 2)
	assert.Equal(t, int64(2), page.Total)
	// Ordered by name
	assert.Equal(t, "Alpha Inc", manufacturers[0].Name)
	assert.Equal(t, "Beta Corp", manufacturers[1].Name)
}
