package routes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dealkhoj/dealkhoj/models"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("GIN_MODE", "test")
	os.Exit(m.Run())
}

func newRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.PointsLog{},
		&models.CheckIn{},
		&models.Withdrawal{},
		&models.Category{},
		&models.Store{},
		&models.Coupon{},
		&models.CouponStat{},
		&models.Setting{},
	))
	return db
}

func TestRouterHealth(t *testing.T) {
	r := SetupRouter(newRouterTestDB(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRouterUnknownAPIRouteIs404JSON(t *testing.T) {
	r := SetupRouter(newRouterTestDB(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "40400")
}

func TestRouterProtectedRoutesRequireAuth(t *testing.T) {
	r := SetupRouter(newRouterTestDB(t))

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/checkin"},
		{http.MethodGet, "/api/v1/points/balance"},
		{http.MethodPost, "/api/v1/withdrawals"},
		{http.MethodGet, "/api/v1/admin/withdrawals"},
	}
	for _, tc := range paths {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		require.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouterPublicBrowsing(t *testing.T) {
	db := newRouterTestDB(t)
	require.NoError(t, db.Create(&models.Category{Name: "Fashion", Slug: "fashion", Icon: "shirt", Active: true}).Error)
	r := SetupRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "fashion")
}
