package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dealkhoj/dealkhoj/models"
	"github.com/dealkhoj/dealkhoj/utils"
)

// PointsController exposes the points ledger: the append-only log plus the
// derived balance column.
type PointsController struct {
	db *gorm.DB
}

// NewPointsController creates a new PointsController instance.
func NewPointsController(db *gorm.DB) *PointsController {
	return &PointsController{db: db}
}

// GetLog returns the caller's point events newest-first, with the current
// balance.
func (p *PointsController) GetLog(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := p.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load user")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	var entries []models.PointsLog
	var total int64
	q := p.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if err := q.Model(&models.PointsLog{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to count point events")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&entries).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to list point events")
		return
	}

	utils.Success(ctx, gin.H{
		"balance": user.Points,
		"items":   entries,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		},
	})
}

// GetBalance returns only the caller's current balance.
func (p *PointsController) GetBalance(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := p.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load user")
		return
	}

	utils.Success(ctx, gin.H{"balance": user.Points})
}
