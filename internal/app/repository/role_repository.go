package repository

import (
	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/pkg/logger"
	"gorm.io/gorm"
)

type RoleRepository interface {
	Create(role *model.Role) error
	FindByNumber(number int) (*model.Role, error)
	ExistsByNumber(number int) (bool, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(role *model.Role) error {
	if err := r.db.Create(role).Error; err != nil {
		logger.Error("Failed to create role in database", err, map[string]interface{}{
			"number": role.Number,
		})
		return err
	}
	return nil
}

func (r *roleRepository) FindByNumber(number int) (*model.Role, error) {
	var role model.Role
	err := r.db.Where("number = ? AND is_deleted = ?", number, false).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) ExistsByNumber(number int) (bool, error) {
	var count int64
	err := r.db.Model(&model.Role{}).
		Where("number = ? AND is_deleted = ?", number, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
