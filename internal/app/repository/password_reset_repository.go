package repository

import (
	"time"

	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/pkg/logger"
	"gorm.io/gorm"
)

type PasswordResetRepository interface {
	Create(reset *model.PasswordReset) error
	// FindActiveByToken locates a redeemable reset for the user: matching
	// token, active, unused, unexpired.
	FindActiveByToken(userID uint, token string, now time.Time) (*model.PasswordReset, error)
	// FindUsedExcept returns every consumed reset of the user other than the
	// given one, feeding the password-reuse check.
	FindUsedExcept(userID, exceptID uint) ([]model.PasswordReset, error)
	MarkUsed(id uint, newPasswordHash string) error
	Deactivate(id uint) error
}

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(reset *model.PasswordReset) error {
	logger.Debug("Creating password reset in database", map[string]interface{}{
		"user_id": reset.UserID,
	})

	if err := r.db.Create(reset).Error; err != nil {
		logger.Error("Failed to create password reset in database", err, map[string]interface{}{
			"user_id": reset.UserID,
		})
		return err
	}
	return nil
}

func (r *passwordResetRepository) FindActiveByToken(userID uint, token string, now time.Time) (*model.PasswordReset, error) {
	var reset model.PasswordReset
	err := r.db.
		Where("user_id = ? AND token = ?", userID, token).
		Where("is_active = ? AND is_used = ? AND is_deleted = ?", true, false, false).
		Where("expire_date >= ?", now).
		First(&reset).Error
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *passwordResetRepository) FindUsedExcept(userID, exceptID uint) ([]model.PasswordReset, error) {
	var resets []model.PasswordReset
	err := r.db.
		Where("user_id = ? AND id <> ? AND is_used = ?", userID, exceptID, true).
		Find(&resets).Error
	if err != nil {
		logger.Error("Failed to load previous password resets", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return resets, nil
}

// MarkUsed consumes the reset and records the hash it installed.
func (r *passwordResetRepository) MarkUsed(id uint, newPasswordHash string) error {
	err := r.db.Model(&model.PasswordReset{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{"is_used": true, "new_password": newPasswordHash}).Error
	if err != nil {
		logger.Error("Failed to mark password reset as used", err, map[string]interface{}{
			"id": id,
		})
	}
	return err
}

func (r *passwordResetRepository) Deactivate(id uint) error {
	err := r.db.Model(&model.PasswordReset{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false).Error
	if err != nil {
		logger.Error("Failed to deactivate password reset", err, map[string]interface{}{
			"id": id,
		})
	}
	return err
}
