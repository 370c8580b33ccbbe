package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dealkhoj/dealkhoj/models"
	"github.com/dealkhoj/dealkhoj/utils"
)

// CatalogController serves the public browsing surface: categories and
// stores. Hot unfiltered lists are cached in redis and invalidated by the
// admin mutations.
type CatalogController struct {
	db *gorm.DB
}

// NewCatalogController creates a new CatalogController instance.
func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{db: db}
}

// ListCategories returns all active categories.
func (c *CatalogController) ListCategories(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:categories:list"); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var categories []models.Category
	if err := c.db.Where("active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to list categories")
		return
	}

	payload := gin.H{"items": categories}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:categories:list", wrapper, time.Hour)
	utils.Success(ctx, payload)
}

// ListStores returns paginated active stores with optional search and
// category filters.
func (c *CatalogController) ListStores(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))
	category := strings.TrimSpace(ctx.Query("category"))
	featured := ctx.Query("featured") == "true"

	// Cache unfiltered listings only to avoid cache key explosion.
	cacheable := search == "" && category == "" && !featured
	cacheKey := fmt.Sprintf("cache:stores:list:page=%d:size=%d", page, pageSize)
	if cacheable {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	query := c.db.Preload("Category").Where("active = ?", true).Order("featured DESC, name ASC")
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if category != "" {
		query = query.Joins("JOIN categories ON categories.id = stores.category_id").
			Where("categories.slug = ?", category)
	}
	if featured {
		query = query.Where("featured = ?", true)
	}

	var stores []models.Store
	var total int64
	if err := query.Model(&models.Store{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to count stores")
		return
	}
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&stores).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to list stores")
		return
	}

	payload := gin.H{
		"items": stores,
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

// GetStore returns a single store by slug with its approved coupons.
func (c *CatalogController) GetStore(ctx *gin.Context) {
	slug := strings.TrimSpace(ctx.Param("slug"))
	if slug == "" {
		utils.Error(ctx, http.StatusBadRequest, 40060, "missing store slug")
		return
	}

	if b, ok := utils.CacheGetBytes("cache:stores:detail:" + slug); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var store models.Store
	err := c.db.Preload("Category").
		Preload("Coupons", "approved = ?", true).
		Where("slug = ? AND active = ?", slug, true).
		First(&store).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40460, "store not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to load store")
		return
	}

	payload := gin.H{"store": store}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:stores:detail:"+slug, wrapper, time.Hour)
	utils.Success(ctx, payload)
}
