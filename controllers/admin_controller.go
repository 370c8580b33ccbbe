package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dealkhoj/dealkhoj/models"
	"github.com/dealkhoj/dealkhoj/utils"
)

// AdminController covers the management surface: catalog CRUD, coupon
// moderation, user moderation and site settings. Every handler here sits
// behind AdminRequired.
type AdminController struct {
	db *gorm.DB
}

// NewAdminController creates a new AdminController instance.
func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{db: db}
}

// ---- categories ----

// CreateCategory adds a category. Unknown icon names fall back to the
// default icon.
func (a *AdminController) CreateCategory(ctx *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,min=1"`
		Icon string `json:"icon"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid request payload")
		return
	}

	name := utils.SanitizeStrict(strings.TrimSpace(req.Name))
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40081, "name cannot be empty")
		return
	}

	category := models.Category{
		Name:   name,
		Slug:   utils.Slugify(name),
		Icon:   models.NormalizeIcon(req.Icon),
		Active: true,
	}
	if err := a.db.Create(&category).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to create category")
		return
	}

	utils.InvalidateByPrefix("cache:categories:")
	utils.Success(ctx, gin.H{"category": category})
}

// UpdateCategory updates name, icon or active flag.
func (a *AdminController) UpdateCategory(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40082, "invalid category id")
		return
	}

	var req struct {
		Name   *string `json:"name"`
		Icon   *string `json:"icon"`
		Active *bool   `json:"active"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid request payload")
		return
	}

	var category models.Category
	if err := a.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40480, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to load category")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := utils.SanitizeStrict(strings.TrimSpace(*req.Name))
		if name == "" {
			utils.Error(ctx, http.StatusBadRequest, 40081, "name cannot be empty")
			return
		}
		updates["name"] = name
		updates["slug"] = utils.Slugify(name)
	}
	if req.Icon != nil {
		updates["icon"] = models.NormalizeIcon(*req.Icon)
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40083, "nothing to update")
		return
	}

	if err := a.db.Model(&category).Updates(updates).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to update category")
		return
	}

	utils.InvalidateByPrefix("cache:categories:")
	utils.InvalidateByPrefix("cache:stores:")
	utils.Success(ctx, gin.H{"category": category})
}

// DeleteCategory soft-deletes a category with no remaining stores.
func (a *AdminController) DeleteCategory(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40082, "invalid category id")
		return
	}

	var count int64
	if err := a.db.Model(&models.Store{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50083, "failed to check category usage")
		return
	}
	if count > 0 {
		utils.Error(ctx, http.StatusConflict, 40980, "category still has stores")
		return
	}

	res := a.db.Delete(&models.Category{}, id)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50084, "failed to delete category")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40480, "category not found")
		return
	}

	utils.InvalidateByPrefix("cache:categories:")
	utils.Success(ctx, gin.H{"deleted": true})
}

// ---- stores ----

// CreateStore adds a store under an existing category.
func (a *AdminController) CreateStore(ctx *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required,min=1"`
		CategoryID  uint   `json:"category_id" binding:"required"`
		Description string `json:"description"`
		WebsiteURL  string `json:"website_url"`
		LogoURL     string `json:"logo_url"`
		Featured    bool   `json:"featured"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40084, "invalid request payload")
		return
	}

	name := utils.SanitizeStrict(strings.TrimSpace(req.Name))
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40085, "name cannot be empty")
		return
	}

	var category models.Category
	if err := a.db.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40480, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to load category")
		return
	}

	store := models.Store{
		Name:        name,
		Slug:        utils.Slugify(name),
		CategoryID:  category.ID,
		Description: utils.Sanitize(req.Description),
		WebsiteURL:  strings.TrimSpace(req.WebsiteURL),
		LogoURL:     strings.TrimSpace(req.LogoURL),
		Featured:    req.Featured,
		Active:      true,
	}
	if err := a.db.Create(&store).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50085, "failed to create store")
		return
	}

	utils.InvalidateByPrefix("cache:stores:")
	utils.Success(ctx, gin.H{"store": store})
}

// UpdateStore updates store fields in place.
func (a *AdminController) UpdateStore(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40086, "invalid store id")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		CategoryID  *uint   `json:"category_id"`
		Description *string `json:"description"`
		WebsiteURL  *string `json:"website_url"`
		LogoURL     *string `json:"logo_url"`
		Featured    *bool   `json:"featured"`
		Active      *bool   `json:"active"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40084, "invalid request payload")
		return
	}

	var store models.Store
	if err := a.db.First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40460, "store not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to load store")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := utils.SanitizeStrict(strings.TrimSpace(*req.Name))
		if name == "" {
			utils.Error(ctx, http.StatusBadRequest, 40085, "name cannot be empty")
			return
		}
		updates["name"] = name
		updates["slug"] = utils.Slugify(name)
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := a.db.First(&category, *req.CategoryID).Error; err != nil {
			utils.Error(ctx, http.StatusNotFound, 40480, "category not found")
			return
		}
		updates["category_id"] = category.ID
	}
	if req.Description != nil {
		updates["description"] = utils.Sanitize(*req.Description)
	}
	if req.WebsiteURL != nil {
		updates["website_url"] = strings.TrimSpace(*req.WebsiteURL)
	}
	if req.LogoURL != nil {
		updates["logo_url"] = strings.TrimSpace(*req.LogoURL)
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40083, "nothing to update")
		return
	}

	if err := a.db.Model(&store).Updates(updates).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50086, "failed to update store")
		return
	}

	utils.InvalidateByPrefix("cache:stores:")
	utils.InvalidateByPrefix("cache:coupons:")
	utils.Success(ctx, gin.H{"store": store})
}

// DeleteStore soft-deletes a store and its coupons.
func (a *AdminController) DeleteStore(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40086, "invalid store id")
		return
	}

	err = a.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Store{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("store_id = ?", id).Delete(&models.Coupon{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40460, "store not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50087, "failed to delete store")
		return
	}

	utils.InvalidateByPrefix("cache:stores:")
	utils.InvalidateByPrefix("cache:coupons:")
	utils.Success(ctx, gin.H{"deleted": true})
}

// ---- coupon moderation ----

// ListCouponsForReview returns submissions for moderation. Unapproved by
// default; ?approved=true lists the published ones instead.
func (a *AdminController) ListCouponsForReview(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	approved := ctx.Query("approved") == "true"

	var coupons []models.Coupon
	var total int64
	q := a.db.Preload("Store").Where("approved = ?", approved).Order("created_at ASC")
	if err := q.Model(&models.Coupon{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to count coupons")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&coupons).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to list coupons")
		return
	}

	utils.Success(ctx, gin.H{
		"items": coupons,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		},
	})
}

// ApproveCoupon publishes a submitted coupon.
func (a *AdminController) ApproveCoupon(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40087, "invalid coupon id")
		return
	}

	res := a.db.Model(&models.Coupon{}).Where("id = ? AND approved = ?", id, false).
		Update("approved", true)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50088, "failed to approve coupon")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40470, "coupon not found or already approved")
		return
	}

	utils.InvalidateByPrefix("cache:coupons:")
	utils.InvalidateByPrefix("cache:stores:detail:")
	utils.Success(ctx, gin.H{"approved": true})
}

// DeleteCoupon removes a coupon outright (spam or expired submissions).
func (a *AdminController) DeleteCoupon(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40087, "invalid coupon id")
		return
	}

	res := a.db.Delete(&models.Coupon{}, id)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50089, "failed to delete coupon")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40470, "coupon not found")
		return
	}

	utils.InvalidateByPrefix("cache:coupons:")
	utils.InvalidateByPrefix("cache:stores:detail:")
	utils.Success(ctx, gin.H{"deleted": true})
}

// ---- users ----

// ListUsers returns users for moderation, optionally filtered by a search
// term over display name and email.
func (a *AdminController) ListUsers(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))

	q := a.db.Model(&models.User{}).Order("created_at DESC")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("display_name LIKE ? OR email LIKE ?", like, like)
	}

	var users []models.User
	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to count users")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to list users")
		return
	}

	items := make([]gin.H, 0, len(users))
	for i := range users {
		items = append(items, publicUser(users[i]))
	}

	utils.Success(ctx, gin.H{
		"items": items,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		},
	})
}

// BanUser blocks an account from all point-earning and payout flows.
func (a *AdminController) BanUser(ctx *gin.Context) {
	a.setUserBan(ctx, true)
}

// UnbanUser lifts a ban.
func (a *AdminController) UnbanUser(ctx *gin.Context) {
	a.setUserBan(ctx, false)
}

// setUserBan flips the ban flag. Admin accounts cannot be banned.
func (a *AdminController) setUserBan(ctx *gin.Context, banned bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40088, "invalid user id")
		return
	}

	var user models.User
	if err := a.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load user")
		return
	}
	if user.IsAdmin && banned {
		utils.Error(ctx, http.StatusForbidden, 40380, "cannot ban an admin account")
		return
	}

	if err := a.db.Model(&user).Update("banned", banned).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50092, "failed to update user")
		return
	}
	user.Banned = banned

	utils.InvalidateByPrefix("cache:users:" + strconv.Itoa(id))
	utils.Success(ctx, gin.H{"user": publicUser(user)})
}

// ---- settings ----

// UpdateSettings upserts site settings key by key.
func (a *AdminController) UpdateSettings(ctx *gin.Context) {
	var req map[string]string
	if err := ctx.ShouldBindJSON(&req); err != nil || len(req) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40090, "invalid settings payload")
		return
	}

	err := a.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range req {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			setting := models.Setting{Key: key, Value: utils.SanitizeStrict(value)}
			res := tx.Model(&models.Setting{}).Where("key = ?", key).Update("value", setting.Value)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				if err := tx.Create(&setting).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50093, "failed to update settings")
		return
	}

	utils.InvalidateByPrefix("cache:settings:")
	utils.Success(ctx, gin.H{"updated": true})
}
