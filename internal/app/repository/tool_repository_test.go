package repository

import (
	"fmt"
	"testing"

	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupToolTest(t *testing.T) ToolRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewToolRepository(testDB)
}

func TestToolRepository_Pagination(t *testing.T) {
	repo := setupToolTest(t)

	for i := 1; i <= 15; i++ {
		tool := &model.Tool{Name: fmt.Sprintf("Tool %02d", i), Description: "d"}
		require.NoError(t, repo.Create(tool))
	}

	t.Run("first page with defaults", func(t *testing.T) {
		tools, page, err := repo.FindWithFilter(ListFilter{Page: 1, Limit: 10, Paginate: true})
		require.NoError(t, err)
		assert.Len(t, tools, 10)
		assert.Equal(t, int64(15), page.Total)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("second page carries the remainder", func(t *testing.T) {
		tools, page, err := repo.FindWithFilter(ListFilter{Page: 2, Limit: 10, Paginate: true})
		require.NoError(t, err)
		assert.Len(t, tools, 5)
		assert.Equal(t, 2, page.Page)
	})

	t.Run("pagination off returns everything", func(t *testing.T) {
		tools, page, err := repo.FindWithFilter(ListFilter{Paginate: false})
		require.NoError(t, err)
		assert.Len(t, tools, 15)
		assert.Equal(t, 1, page.TotalPages)
	})
}

func TestToolRepository_NameFilter(t *testing.T) {
	repo := setupToolTest(t)

	require.NoError(t, repo.Create(&model.Tool{Name: "3D Printer", Description: "d"}))
	require.NoError(t, repo.Create(&model.Tool{Name: "Laser Cutter", Description: "d"}))

	tools, _, err := repo.FindWithFilter(ListFilter{Name: "laser", Paginate: true, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "Laser Cutter", tools[0].Name)
}

func TestToolRepository_SoftDeleteScope(t *testing.T) {
	repo := setupToolTest(t)

	tool := &model.Tool{Name: "Mill", Description: "d"}
	require.NoError(t, repo.Create(tool))
	require.NoError(t, repo.SoftDelete(tool.ID, 1))

	// Hidden from the default scope
	tools, _, err := repo.FindWithFilter(ListFilter{Paginate: true, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, tools, 0)

	_, err = repo.FindByID(tool.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Visible again with the explicit deleted override
	deleted := true
	inactive := false
	tools, _, err = repo.FindWithFilter(ListFilter{Deleted: &deleted, Active: &inactive, Paginate: true, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, tools, 1)

	// Deleting twice reports not found
	err = repo.SoftDelete(tool.ID, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestToolRepository_ExistsByName(t *testing.T) {
	repo := setupToolTest(t)

	tool := &model.Tool{Name: "Lathe", Description: "d"}
	require.NoError(t, repo.Create(tool))

	exists, err := repo.ExistsByName("lathe", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	// The row itself is excluded when editing
	exists, err = repo.ExistsByName("Lathe", tool.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByName("Press", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}
