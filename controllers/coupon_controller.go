package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dealkhoj/dealkhoj/config"
	"github.com/dealkhoj/dealkhoj/models"
	"github.com/dealkhoj/dealkhoj/utils"
)

// CouponController serves coupon browsing, the copy-code flow and user
// submissions.
type CouponController struct {
	db *gorm.DB
}

// NewCouponController creates a new CouponController instance.
func NewCouponController(db *gorm.DB) *CouponController {
	return &CouponController{db: db}
}

// ListCoupons returns approved coupons with optional store/category filters.
func (c *CouponController) ListCoupons(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	storeSlug := strings.TrimSpace(ctx.Query("store"))
	categorySlug := strings.TrimSpace(ctx.Query("category"))

	cacheable := storeSlug == "" && categorySlug == ""
	cacheKey := fmt.Sprintf("cache:coupons:list:page=%d:size=%d", page, pageSize)
	if cacheable {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	now := time.Now()
	query := c.db.Preload("Store").Preload("Store.Category").
		Where("approved = ?", true).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("created_at DESC")
	if storeSlug != "" {
		query = query.Joins("JOIN stores ON stores.id = coupons.store_id").
			Where("stores.slug = ?", storeSlug)
	}
	if categorySlug != "" {
		query = query.Joins("JOIN stores ON stores.id = coupons.store_id").
			Joins("JOIN categories ON categories.id = stores.category_id").
			Where("categories.slug = ?", categorySlug)
	}

	var coupons []models.Coupon
	var total int64
	if err := query.Model(&models.Coupon{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to count coupons")
		return
	}
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&coupons).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to list coupons")
		return
	}

	payload := gin.H{
		"items": coupons,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		},
	}
	if cacheable {
		wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
		utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	}
	utils.Success(ctx, payload)
}

// GetCoupon returns a single approved coupon.
func (c *CouponController) GetCoupon(ctx *gin.Context) {
	id := ctx.Param("id")

	var coupon models.Coupon
	err := c.db.Preload("Store").Where("approved = ?", true).First(&coupon, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40470, "coupon not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to load coupon")
		return
	}

	utils.Success(ctx, gin.H{"coupon": coupon})
}

// CopyCoupon returns the coupon code and counts the copy, both on the
// coupon row and in the per-day stats table.
func (c *CouponController) CopyCoupon(ctx *gin.Context) {
	id := ctx.Param("id")

	var coupon models.Coupon
	if err := c.db.Where("approved = ?", true).First(&coupon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40470, "coupon not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to load coupon")
		return
	}
	if coupon.Expired(time.Now()) {
		utils.Error(ctx, http.StatusGone, 41070, "coupon expired")
		return
	}

	if err := c.db.Model(&models.Coupon{}).Where("id = ?", coupon.ID).
		UpdateColumn("copy_count", gorm.Expr("copy_count + 1")).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to record copy")
		return
	}

	// Atomic upsert of today's stat row; concurrent copies only bump count.
	now := time.Now().In(time.Local)
	localMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	_ = c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "coupon_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": time.Now()}),
	}).Create(&models.CouponStat{Date: localMidnight, CouponID: coupon.ID, Count: 1}).Error

	utils.Success(ctx, gin.H{
		"code":       coupon.Code,
		"copy_count": coupon.CopyCount + 1,
	})
}

// SubmitCoupon lets an authenticated user submit a coupon. Submissions start
// unapproved and award submission points immediately.
func (c *CouponController) SubmitCoupon(ctx *gin.Context) {
	var req struct {
		StoreID     uint   `json:"store_id" binding:"required"`
		Title       string `json:"title" binding:"required,min=1"`
		Code        string `json:"code"`
		Description string `json:"description"`
		Discount    string `json:"discount"`
		ExpiresAt   string `json:"expires_at"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	title := utils.SanitizeStrict(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40071, "title cannot be empty")
		return
	}

	var expiresAt *time.Time
	if v := strings.TrimSpace(req.ExpiresAt); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40072, "expires_at must be RFC3339")
			return
		}
		expiresAt = &t
	}

	cfg := config.Get()
	var coupon models.Coupon
	err := c.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		if user.Banned {
			return errBanned
		}

		var store models.Store
		if err := tx.Where("active = ?", true).First(&store, req.StoreID).Error; err != nil {
			return err
		}

		submitter := userID
		coupon = models.Coupon{
			StoreID:     store.ID,
			SubmitterID: &submitter,
			Title:       title,
			Code:        utils.SanitizeStrict(strings.TrimSpace(req.Code)),
			Description: utils.Sanitize(req.Description),
			Discount:    utils.SanitizeStrict(strings.TrimSpace(req.Discount)),
			ExpiresAt:   expiresAt,
			Approved:    false,
		}
		if err := tx.Create(&coupon).Error; err != nil {
			return err
		}

		if cfg.CouponSubmitPoints > 0 {
			desc := fmt.Sprintf("submitted coupon #%d", coupon.ID)
			return models.ApplyPointsDelta(tx, userID, cfg.CouponSubmitPoints, models.ActionCouponSubmission, desc)
		}
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, errBanned):
			utils.Error(ctx, http.StatusForbidden, 40370, "account banned")
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.Error(ctx, http.StatusNotFound, 40471, "store not found")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to submit coupon")
		}
		return
	}

	utils.Success(ctx, gin.H{
		"coupon":         coupon,
		"points_awarded": cfg.CouponSubmitPoints,
	})
}
