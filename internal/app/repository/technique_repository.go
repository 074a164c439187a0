package repository

import (
	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/pkg/logger"
	"gorm.io/gorm"
)

type TechniqueRepository interface {
	Create(technique *model.Technique) error
	FindWithFilter(filter ListFilter) ([]model.Technique, PageInfo, error)
	FindByID(id uint) (*model.Technique, error)
	ExistsByName(name string, excludeID uint) (bool, error)
	Update(technique *model.Technique) error
	SoftDelete(id, editorID uint) error
}

type techniqueRepository struct {
	db *gorm.DB
}

func NewTechniqueRepository(db *gorm.DB) TechniqueRepository {
	return &techniqueRepository{db: db}
}

func (r *techniqueRepository) Create(technique *model.Technique) error {
	logger.Debug("Creating technique in database", map[string]interface{}{
		"name": technique.Name,
	})

	if err := r.db.Create(technique).Error; err != nil {
		logger.Error("Failed to create technique in database", err, map[string]interface{}{
			"name": technique.Name,
		})
		return err
	}
	return nil
}

func (r *techniqueRepository) FindWithFilter(filter ListFilter) ([]model.Technique, PageInfo, error) {
	query := applyScope(r.db.Model(&model.Technique{}), "techniques", filter)

	query, page, err := paginate(query, filter)
	if err != nil {
		return nil, PageInfo{}, err
	}

	var techniques []model.Technique
	if err := query.Order("techniques.name ASC").Find(&techniques).Error; err != nil {
		logger.Error("Failed to list techniques", err, nil)
		return nil, PageInfo{}, err
	}
	return techniques, page, nil
}

func (r *techniqueRepository) FindByID(id uint) (*model.Technique, error) {
	var technique model.Technique
	err := r.db.Where("is_deleted = ?", false).First(&technique, id).Error
	if err != nil {
		return nil, err
	}
	return &technique, nil
}

func (r *techniqueRepository) ExistsByName(name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&model.Technique{}).
		Where("LOWER(name) = LOWER(?) AND is_deleted = ?", name, false)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *techniqueRepository) Update(technique *model.Technique) error {
	logger.Debug("Updating technique in database", map[string]interface{}{
		"id": technique.ID,
	})

	err := r.db.Save(technique).Error
	if err != nil {
		logger.Error("Failed to update technique in database", err, map[string]interface{}{
			"id": technique.ID,
		})
	}
	return err
}

func (r *techniqueRepository) SoftDelete(id, editorID uint) error {
	err := softDelete(r.db, &model.Technique{}, id, editorID)
	if err != nil {
		logger.Error("Failed to delete technique", err, map[string]interface{}{
			"id": id,
		})
	}
	return err
}
