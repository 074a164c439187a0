package repository

import (
	"errors"
	"time"

	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserConfirmationRepository interface {
	Create(confirmation *model.UserConfirmation) error
	// FindMatch locates the challenge for a redemption attempt: exact
	// user+code+token, unused, active, unexpired.
	FindMatch(userID uint, code int, token string, now time.Time) (*model.UserConfirmation, error)
	// FindLatestActive returns the most recently created active challenge
	// for the user, or nil when there is none.
	FindLatestActive(userID uint) (*model.UserConfirmation, error)
	MarkUsed(id uint) error
	Deactivate(id uint) error
	DeactivateOthers(userID, keepID uint) error
}

type userConfirmationRepository struct {
	db *gorm.DB
}

func NewUserConfirmationRepository(db *gorm.DB) UserConfirmationRepository {
	return &userConfirmationRepository{db: db}
}

func (r *userConfirmationRepository) Create(confirmation *model.UserConfirmation) error {
	logger.Debug("Creating user confirmation in database", map[string]interface{}{
		"user_id": confirmation.UserID,
	})

	if err := r.db.Create(confirmation).Error; err != nil {
		logger.Error("Failed to create user confirmation in database", err, map[string]interface{}{
			"user_id": confirmation.UserID,
		})
		return err
	}
	return nil
}

func (r *userConfirmationRepository) FindMatch(userID uint, code int, token string, now time.Time) (*model.UserConfirmation, error) {
	var confirmation model.UserConfirmation
	err := r.db.
		Where("user_id = ? AND code = ? AND token = ?", userID, code, token).
		Where("is_used = ? AND is_active = ? AND is_deleted = ?", false, true, false).
		Where("expire_date >= ?", now).
		First(&confirmation).Error
	if err != nil {
		return nil, err
	}
	return &confirmation, nil
}

func (r *userConfirmationRepository) FindLatestActive(userID uint) (*model.UserConfirmation, error) {
	var confirmation model.UserConfirmation
	err := r.db.
		Where("user_id = ? AND is_active = ? AND is_deleted = ?", userID, true, false).
		Order("id DESC").
		First(&confirmation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &confirmation, nil
}

// MarkUsed consumes a challenge: used and no longer active.
func (r *userConfirmationRepository) MarkUsed(id uint) error {
	err := r.db.Model(&model.UserConfirmation{}).
		Where("id = ? AND is_used = ? AND is_active = ?", id, false, true).
		Updates(map[string]interface{}{"is_used": true, "is_active": false}).Error
	if err != nil {
		logger.Error("Failed to mark user confirmation as used", err, map[string]interface{}{
			"id": id,
		})
	}
	return err
}

func (r *userConfirmationRepository) Deactivate(id uint) error {
	err := r.db.Model(&model.UserConfirmation{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false).Error
	if err != nil {
		logger.Error("Failed to deactivate user confirmation", err, map[string]interface{}{
			"id": id,
		})
	}
	return err
}

// DeactivateOthers retires every other challenge of the user so at most one
// stays redeemable after a reissue.
func (r *userConfirmationRepository) DeactivateOthers(userID, keepID uint) error {
	err := r.db.Model(&model.UserConfirmation{}).
		Where("user_id = ? AND id <> ?", userID, keepID).
		Update("is_active", false).Error
	if err != nil {
		logger.Error("Failed to deactivate superseded confirmations", err, map[string]interface{}{
			"user_id": userID,
			"keep_id": keepID,
		})
	}
	return err
}
