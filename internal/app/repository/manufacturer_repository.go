package repository

import (
	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/pkg/logger"
	"gorm.io/gorm"
)

// ManufacturerFilter extends the common listing filter with tool membership.
type ManufacturerFilter struct {
	ListFilter
	ToolIDs []uint
}

type ManufacturerRepository interface {
	Create(manufacturer *model.Manufacturer) error
	FindWithFilter(filter ManufacturerFilter) ([]model.Manufacturer, PageInfo, error)
	FindByID(id uint) (*model.Manufacturer, error)
	ExistsByName(name string, excludeID uint) (bool, error)
	Update(manufacturer *model.Manufacturer) error
	ReplaceTools(manufacturer *model.Manufacturer, tools []model.Tool) error
	SoftDelete(id, editorID uint) error
}

type manufacturerRepository struct {
	db *gorm.DB
}

func NewManufacturerRepository(db *gorm.DB) ManufacturerRepository {
	return &manufacturerRepository{db: db}
}

func (r *manufacturerRepository) Create(manufacturer *model.Manufacturer) error {
	logger.Debug("Creating manufacturer in database", map[string]interface{}{
		"name": manufacturer.Name,
	})

	if err := r.db.Create(manufacturer).Error; err != nil {
		logger.Error("Failed to create manufacturer in database", err, map[string]interface{}{
			"name": manufacturer.Name,
		})
		return err
	}
	return nil
}

func (r *manufacturerRepository) FindWithFilter(filter ManufacturerFilter) ([]model.Manufacturer, PageInfo, error) {
	query := applyScope(r.db.Model(&model.Manufacturer{}), "manufacturers", filter.ListFilter)

	if len(filter.ToolIDs) > 0 {
		query = query.
			Joins("JOIN manufacturer_tools ON manufacturer_tools.manufacturer_id = manufacturers.id").
			Where("manufacturer_tools.tool_id IN ?", filter.ToolIDs).
			Distinct("manufacturers.*")
	}

	query, page, err := paginate(query, filter.ListFilter)
	if err != nil {
		return nil, PageInfo{}, err
	}

	var manufacturers []model.Manufacturer
	if err := query.Preload("Tools").Order("manufacturers.name ASC").Find(&manufacturers).Error; err != nil {
		logger.Error("Failed to list manufacturers", err, nil)
		return nil, PageInfo{}, err
	}
	return manufacturers, page, nil
}

func (r *manufacturerRepository) FindByID(id uint) (*model.Manufacturer, error) {
	var manufacturer model.Manufacturer
	err := r.db.Preload("Tools").
		Where("is_deleted = ?", false).
		First(&manufacturer, id).Error
	if err != nil {
		return nil, err
	}
	return &manufacturer, nil
}

func (r *manufacturerRepository) ExistsByName(name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&model.Manufacturer{}).
		Where("LOWER(name) = LOWER(?) AND is_deleted = ?", name, false)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *manufacturerRepository) Update(manufacturer *model.Manufacturer) error {
	logger.Debug("Updating manufacturer in database", map[string]interface{}{
		"id": manufacturer.ID,
	})

	err := r.db.Omit("Tools").Save(manufacturer).Error
	if err != nil {
		logger.Error("Failed to update manufacturer in database", err, map[string]interface{}{
			"id": manufacturer.ID,
		})
	}
	return err
}

// ReplaceTools swaps the manufacturer's tool associations in one shot.
func (r *manufacturerRepository) ReplaceTools(manufacturer *model.Manufacturer, tools []model.Tool) error {
	if err := r.db.Model(manufacturer).Association("Tools").Replace(tools); err != nil {
		logger.Error("Failed to replace manufacturer tools", err, map[string]interface{}{
			"id": manufacturer.ID,
		})
		return err
	}
	manufacturer.Tools = tools
	return nil
}

func (r *manufacturerRepository) SoftDelete(id, editorID uint) error {
	err := softDelete(r.db, &model.Manufacturer{}, id, editorID)
	if err != nil {
		logger.Error("Failed to delete manufacturer", err, map[string]interface{}{
			"id": id,
		})
	}
	return err
}
