package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dealkhoj/dealkhoj/models"
	"github.com/dealkhoj/dealkhoj/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newAuthTestEngine(handler gin.HandlerFunc, mws ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mws...)
	r.GET("/probe", handler)
	return r
}

func probeIdentity(ctx *gin.Context) {
	id, _ := ctx.Get(ContextUserIDKey)
	ctx.JSON(http.StatusOK, gin.H{"user_id": id})
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	token, err := utils.GenerateToken(7, "sita", time.Hour)
	require.NoError(t, err)

	r := newAuthTestEngine(probeIdentity, AuthRequired())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestAuthRequiredRejectsBadHeaders(t *testing.T) {
	r := newAuthTestEngine(probeIdentity, AuthRequired())

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not bearer", "Basic abc123"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			require.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthRequiredRejectsRevokedToken(t *testing.T) {
	token, err := utils.GenerateToken(8, "ram", time.Hour)
	require.NoError(t, err)
	utils.BlacklistToken(token, time.Now().Add(time.Hour))

	r := newAuthTestEngine(probeIdentity, AuthRequired())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func newMiddlewareTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestAdminRequired(t *testing.T) {
	db := newMiddlewareTestDB(t)
	admin := models.User{DisplayName: "Admin", Email: "admin@example.com", Provider: "local", IsAdmin: true}
	member := models.User{DisplayName: "Member", Email: "member@example.com", Provider: "github"}
	banned := models.User{DisplayName: "Banned", Email: "banned@example.com", Provider: "github", IsAdmin: true, Banned: true}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&member).Error)
	require.NoError(t, db.Create(&banned).Error)

	serve := func(userID uint) *httptest.ResponseRecorder {
		r := gin.New()
		r.GET("/probe", func(ctx *gin.Context) {
			ctx.Set(ContextUserIDKey, userID)
		}, AdminRequired(db), probeIdentity)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
		return w
	}

	require.Equal(t, http.StatusOK, serve(admin.ID).Code)
	require.Equal(t, http.StatusForbidden, serve(member.ID).Code)
	require.Equal(t, http.StatusForbidden, serve(banned.ID).Code)
	require.Equal(t, http.StatusUnauthorized, serve(999).Code)
}
