package main

import (
	"errors"

	"gorm.io/gorm"

	"github.com/dealkhoj/dealkhoj/config"
	"github.com/dealkhoj/dealkhoj/models"
	"github.com/dealkhoj/dealkhoj/utils"
)

// seedAdmin ensures the configured back-office account exists. Existing
// accounts are never overwritten, so rotating the password in config only
// affects fresh databases.
func seedAdmin(db *gorm.DB, cfg config.AppConfig) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		utils.Sugar.Warn("admin credentials not configured, skipping admin seed")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", cfg.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		DisplayName:  "Admin",
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Provider:     "local",
		IsAdmin:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.Sugar.Infof("seeded admin account %s", cfg.AdminEmail)
	return nil
}
