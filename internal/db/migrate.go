package db

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/pkg/logger"
	"github.com/ctoapp/cto-backend/pkg/util"
	"gorm.io/gorm"
)

// Migrate runs database migrations and seeds the reference data.
func Migrate(adminSeedFile string) error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Role{},
		&model.User{},
		&model.UserConfirmation{},
		&model.PasswordReset{},
		&model.Manufacturer{},
		&model.Tool{},
		&model.Technique{},
		&model.Product{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedRoles(DB); err != nil {
		logger.Error("Failed to seed roles", err)
		return err
	}
	if err := seedAdmins(DB, adminSeedFile); err != nil {
		logger.Error("Failed to seed admin accounts", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// seedRoles makes sure every known role number has a row.
func seedRoles(db *gorm.DB) error {
	for _, number := range model.RoleNumbers {
		var count int64
		if err := db.Model(&model.Role{}).Where("number = ?", number).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		role := model.Role{
			Name:        model.RoleName(number),
			Description: model.RoleName(number) + " role",
			Number:      number,
		}
		if err := db.Create(&role).Error; err != nil {
			return err
		}
		logger.Info("Role seeded", map[string]interface{}{
			"name":   role.Name,
			"number": role.Number,
		})
	}
	return nil
}

type seedAdmin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// seedAdmins creates pre-confirmed admin accounts from a JSON file. A
// missing file is not an error; deployments without one simply skip it.
func seedAdmins(db *gorm.DB, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("No admin seed file found, skipping", map[string]interface{}{
				"path": path,
			})
			return nil
		}
		return err
	}

	var admins []seedAdmin
	if err := json.Unmarshal(data, &admins); err != nil {
		return err
	}

	var adminRole model.Role
	if err := db.Where("number = ?", model.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	for _, admin := range admins {
		var count int64
		err := db.Model(&model.User{}).
			Where("email = ? AND role_id = ? AND is_deleted = ?", admin.Email, adminRole.ID, false).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hash, err := util.HashPassword(admin.Password)
		if err != nil {
			return err
		}
		user := model.User{
			Email:            admin.Email,
			PasswordHash:     hash,
			AccountConfirmed: true,
			RoleID:           adminRole.ID,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		logger.Info("Admin account seeded", map[string]interface{}{
			"email": admin.Email,
		})
	}
	return nil
}
