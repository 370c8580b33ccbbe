package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dealkhoj/dealkhoj/models"
	"github.com/dealkhoj/dealkhoj/utils"
)

// SettingsController serves the public site settings (contact links, banner
// text, social handles). Values are written by admins via AdminController.
type SettingsController struct {
	db *gorm.DB
}

// NewSettingsController creates a new SettingsController instance.
func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{db: db}
}

// GetSettings returns all settings as a flat key/value map.
func (s *SettingsController) GetSettings(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:settings:public"); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var settings []models.Setting
	if err := s.db.Find(&settings).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50094, "failed to load settings")
		return
	}

	values := make(map[string]string, len(settings))
	for _, item := range settings {
		values[item.Key] = item.Value
	}

	payload := gin.H{"settings": values}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:settings:public", wrapper, time.Hour)
	utils.Success(ctx, payload)
}
