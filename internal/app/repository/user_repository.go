package repository

import (
	"time"

	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	ExistsByEmailAndRole(email string, roleID uint) (bool, error)
	Update(user *model.User) error
	UpdatePassword(id uint, passwordHash string, editorID uint) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}

	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Role").Where("is_deleted = ?", false).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Role").
		Where("email = ? AND is_deleted = ?", email, false).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmailAndRole(email string, roleID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("email = ? AND role_id = ? AND is_deleted = ? AND is_active = ?", email, roleID, false, true).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count users by email and role", err, map[string]interface{}{
			"email": email,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

// UpdatePassword sets the new hash, stamps PasswordChangedAt and the audit
// fields, and returns the fresh row.
func (r *userRepository) UpdatePassword(id uint, passwordHash string, editorID uint) (*model.User, error) {
	now := time.Now()
	err := r.db.Model(&model.User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"password_hash":       passwordHash,
			"password_changed_at": now,
			"last_edit_at":        now,
			"last_edit_by":        editorID,
		}).Error
	if err != nil {
		logger.Error("Failed to update user password in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return r.FindByID(id)
}
