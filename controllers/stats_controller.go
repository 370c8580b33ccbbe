package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dealkhoj/dealkhoj/models"
	"github.com/dealkhoj/dealkhoj/utils"
)

// StatsController reports site-wide counters for the admin dashboard and
// the public footer strip.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns total counts plus today's coupon copies.
func (s *StatsController) GetStats(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:stats:site"); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var stores, coupons, users int64
	if err := s.db.Model(&models.Store{}).Where("active = ?", true).Count(&stores).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50095, "failed to load stats")
		return
	}
	if err := s.db.Model(&models.Coupon{}).Where("approved = ?", true).Count(&coupons).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50095, "failed to load stats")
		return
	}
	if err := s.db.Model(&models.User{}).Count(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50095, "failed to load stats")
		return
	}

	now := time.Now().In(time.Local)
	localMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var copiesToday int64
	row := s.db.Model(&models.CouponStat{}).Where("date = ?", localMidnight).
		Select("COALESCE(SUM(count), 0)").Row()
	if err := row.Scan(&copiesToday); err != nil {
		copiesToday = 0
	}

	payload := gin.H{
		"stores":       stores,
		"coupons":      coupons,
		"users":        users,
		"copies_today": copiesToday,
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:stats:site", wrapper, 5*time.Minute)
	utils.Success(ctx, payload)
}
