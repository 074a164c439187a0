package repository

import (
	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductFilter extends the common listing filter with references to the
// owning manufacturer and tool family.
type ProductFilter struct {
	ListFilter
	ManufacturerIDs []uint
	ToolIDs         []uint
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindWithFilter(filter ProductFilter) ([]model.Product, PageInfo, error)
	FindByID(id uint) (*model.Product, error)
	ExistsByName(name string, excludeID uint) (bool, error)
	Update(product *model.Product) error
	SoftDelete(id, editorID uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name": product.Name,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, PageInfo, error) {
	query := applyScope(r.db.Model(&model.Product{}), "products", filter.ListFilter)

	if len(filter.ManufacturerIDs) > 0 {
		query = query.Where("products.manufacturer_id IN ?", filter.ManufacturerIDs)
	}
	if len(filter.ToolIDs) > 0 {
		query = query.Where("products.tool_id IN ?", filter.ToolIDs)
	}

	query, page, err := paginate(query, filter.ListFilter)
	if err != nil {
		return nil, PageInfo{}, err
	}

	var products []model.Product
	err = query.
		Preload("Manufacturer").
		Preload("Tool").
		Order("products.name ASC").
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to list products", err, nil)
		return nil, PageInfo{}, err
	}
	return products, page, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.
		Preload("Manufacturer").
		Preload("Tool").
		Where("is_deleted = ?", false).
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) ExistsByName(name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&model.Product{}).
		Where("LOWER(name) = LOWER(?) AND is_deleted = ?", name, false)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"id": product.ID,
	})

	err := r.db.Omit("Manufacturer", "Tool").Save(product).Error
	if err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"id": product.ID,
		})
	}
	return err
}

func (r *productRepository) SoftDelete(id, editorID uint) error {
	err := softDelete(r.db, &model.Product{}, id, editorID)
	if err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"id": id,
		})
	}
	return err
}
