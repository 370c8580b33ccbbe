package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/dealkhoj/dealkhoj/models"
)

func TestListCategoriesSkipsInactive(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Category{Name: "Food", Slug: "food", Icon: "utensils", Active: true}).Error)
	require.NoError(t, db.Create(&models.Category{Name: "Retired", Slug: "retired", Icon: "tag", Active: false}).Error)
	cc := NewCatalogController(db)

	ctx, w := authedRequest(0, http.MethodGet, "/api/v1/categories", "")
	cc.ListCategories(ctx)
	requireStatus(t, w, http.StatusOK)

	data := dataField(t, decodeResponse(t, w))
	items, ok := data["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
}

func TestListStoresFilters(t *testing.T) {
	db := newTestDB(t)
	fashion := models.Category{Name: "Fashion", Slug: "fashion", Icon: "shirt", Active: true}
	food := models.Category{Name: "Food", Slug: "food", Icon: "utensils", Active: true}
	require.NoError(t, db.Create(&fashion).Error)
	require.NoError(t, db.Create(&food).Error)
	require.NoError(t, db.Create(&models.Store{Name: "Daraz", Slug: "daraz", CategoryID: fashion.ID, Active: true, Featured: true}).Error)
	require.NoError(t, db.Create(&models.Store{Name: "Foodmandu", Slug: "foodmandu", CategoryID: food.ID, Active: true}).Error)
	require.NoError(t, db.Create(&models.Store{Name: "Closed Shop", Slug: "closed-shop", CategoryID: food.ID, Active: false}).Error)
	cc := NewCatalogController(db)

	t.Run("all active", func(t *testing.T) {
		ctx, w := authedRequest(0, http.MethodGet, "/api/v1/stores", "")
		cc.ListStores(ctx)
		requireStatus(t, w, http.StatusOK)
		data := dataField(t, decodeResponse(t, w))
		require.Len(t, data["items"].([]interface{}), 2)
	})

	t.Run("by category", func(t *testing.T) {
		ctx, w := authedRequest(0, http.MethodGet, "/api/v1/stores?category=food", "")
		cc.ListStores(ctx)
		requireStatus(t, w, http.StatusOK)
		data := dataField(t, decodeResponse(t, w))
		require.Len(t, data["items"].([]interface{}), 1)
	})

	t.Run("search", func(t *testing.T) {
		ctx, w := authedRequest(0, http.MethodGet, "/api/v1/stores?search=dara", "")
		cc.ListStores(ctx)
		requireStatus(t, w, http.StatusOK)
		data := dataField(t, decodeResponse(t, w))
		items := data["items"].([]interface{})
		require.Len(t, items, 1)
	})

	t.Run("featured only", func(t *testing.T) {
		ctx, w := authedRequest(0, http.MethodGet, "/api/v1/stores?featured=true", "")
		cc.ListStores(ctx)
		requireStatus(t, w, http.StatusOK)
		data := dataField(t, decodeResponse(t, w))
		require.Len(t, data["items"].([]interface{}), 1)
	})
}

func TestGetStoreBySlug(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	seedCoupon(t, db, store.ID, true)
	seedCoupon(t, db, store.ID, false)
	cc := NewCatalogController(db)

	ctx, w := authedRequest(0, http.MethodGet, "/api/v1/stores/daraz", "")
	ctx.Params = gin.Params{{Key: "slug", Value: "daraz"}}
	cc.GetStore(ctx)
	requireStatus(t, w, http.StatusOK)

	data := dataField(t, decodeResponse(t, w))
	storeData := data["store"].(map[string]interface{})
	require.Equal(t, "daraz", storeData["slug"])
	// Only the approved coupon is embedded.
	coupons := storeData["coupons"].([]interface{})
	require.Len(t, coupons, 1)
}

func TestGetStoreNotFound(t *testing.T) {
	db := newTestDB(t)
	cc := NewCatalogController(db)

	ctx, w := authedRequest(0, http.MethodGet, "/api/v1/stores/nowhere", "")
	ctx.Params = gin.Params{{Key: "slug", Value: "nowhere"}}
	cc.GetStore(ctx)
	requireStatus(t, w, http.StatusNotFound)
}
