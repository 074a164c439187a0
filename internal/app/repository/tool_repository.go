package repository

import (
	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/pkg/logger"
	"gorm.io/gorm"
)

type ToolRepository interface {
	Create(tool *model.Tool) error
	FindWithFilter(filter ListFilter) ([]model.Tool, PageInfo, error)
	FindByID(id uint) (*model.Tool, error)
	FindByIDs(ids []uint) ([]model.Tool, error)
	ExistsByName(name string, excludeID uint) (bool, error)
	Update(tool *model.Tool) error
	SoftDelete(id, editorID uint) error
}

type toolRepository struct {
	db *gorm.DB
}

func NewToolRepository(db *gorm.DB) ToolRepository {
	return &toolRepository{db: db}
}

func (r *toolRepository) Create(tool *model.Tool) error {
	logger.Debug("Creating tool in database", map[string]interface{}{
		"name": tool.Name,
	})

	if err := r.db.Create(tool).Error; err != nil {
		logger.Error("Failed to create tool in database", err, map[string]interface{}{
			"name": tool.Name,
		})
		return err
	}
	return nil
}

func (r *toolRepository) FindWithFilter(filter ListFilter) ([]model.Tool, PageInfo, error) {
	query := applyScope(r.db.Model(&model.Tool{}), "tools", filter)

	query, page, err := paginate(query, filter)
	if err != nil {
		return nil, PageInfo{}, err
	}

	var tools []model.Tool
	if err := query.Order("tools.name ASC").Find(&tools).Error; err != nil {
		logger.Error("Failed to list tools", err, nil)
		return nil, PageInfo{}, err
	}
	return tools, page, nil
}

func (r *toolRepository) FindByID(id uint) (*model.Tool, error) {
	var tool model.Tool
	err := r.db.Where("is_deleted = ?", false).First(&tool, id).Error
	if err != nil {
		return nil, err
	}
	return &tool, nil
}

// FindByIDs loads the live tools for the given ids, in any order. Callers
// compare lengths to detect ids that do not resolve.
func (r *toolRepository) FindByIDs(ids []uint) ([]model.Tool, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tools []model.Tool
	err := r.db.Where("id IN ? AND is_deleted = ?", ids, false).Find(&tools).Error
	if err != nil {
		return nil, err
	}
	return tools, nil
}

func (r *toolRepository) ExistsByName(name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&model.Tool{}).
		Where("LOWER(name) = LOWER(?) AND is_deleted = ?", name, false)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *toolRepository) Update(tool *model.Tool) error {
	logger.Debug("Updating tool in database", map[string]interface{}{
		"id": tool.ID,
	})

	err := r.db.Save(tool).Error
	if err != nil {
		logger.Error("Failed to update tool in database", err, map[string]interface{}{
			"id": tool.ID,
		})
	}
	return err
}

func (r *toolRepository) SoftDelete(id, editorID uint) error {
	err := softDelete(r.db, &model.Tool{}, id, editorID)
	if err != nil {
		logger.Error("Failed to delete tool", err, map[string]interface{}{
			"id": id,
		})
	}
	return err
}
