package controllers

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dealkhoj/dealkhoj/middleware"
	"github.com/dealkhoj/dealkhoj/models"
	"github.com/dealkhoj/dealkhoj/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestDB opens a per-test in-memory database with all models migrated.
// The named shared-cache DSN keeps gorm's pooled connections on the same
// database.
func newTestDB(t *testing.T) *gorm.DB {
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

func createTestUser(t *testing.T, db *gorm.DB, points int) models.User {
	t.Helper()
	user := models.User{
		DisplayName: "Test User",
		Email:       fmt.Sprintf("user-%s@example.com", strings.ReplaceAll(t.Name(), "/", "-")),
		Provider:    "github",
		ProviderID:  t.Name(),
		Points:      points,
	}
	require.NoError(t, db.Create(&user).Error)
	if points != 0 {
		// Keep the ledger consistent with the seeded balance.
		require.NoError(t, db.Create(&models.PointsLog{
			UserID: user.ID,
			Delta:  points,
			Action: models.ActionOther,
		}).Error)
	}
	return user
}

// authedRequest builds a gin test context carrying the given user identity,
// mirroring what AuthRequired sets after token validation.
func authedRequest(userID uint, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	ctx.Request = httptest.NewRequest(method, target, reader)
	ctx.Request.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		ctx.Set(middleware.ContextUserIDKey, userID)
	}
	return ctx, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) utils.JSONResponse {
	t.Helper()
	var resp utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func dataField(t *testing.T, resp utils.JSONResponse) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "response data should be an object, got %T", resp.Data)
	return data
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "unexpected HTTP status, body: %s", w.Body.String())
}
