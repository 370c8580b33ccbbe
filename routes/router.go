package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dealkhoj/dealkhoj/config"
	"github.com/dealkhoj/dealkhoj/controllers"
	"github.com/dealkhoj/dealkhoj/middleware"
	"github.com/dealkhoj/dealkhoj/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/", func(c *gin.Context) {
		c.File("./static/index.html")
	})

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	catalogController := controllers.NewCatalogController(db)
	couponController := controllers.NewCouponController(db)
	checkinController := controllers.NewCheckinController(db)
	pointsController := controllers.NewPointsController(db)
	withdrawalController := controllers.NewWithdrawalController(db)
	adminController := controllers.NewAdminController(db)
	settingsController := controllers.NewSettingsController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Public browsing
	api.GET("/categories", catalogController.ListCategories)
	api.GET("/stores", catalogController.ListStores)
	api.GET("/stores/:slug", catalogController.GetStore)
	api.GET("/coupons", couponController.ListCoupons)
	api.GET("/coupons/:id", couponController.GetCoupon)
	api.POST("/coupons/:id/copy", couponController.CopyCoupon)
	api.GET("/settings", settingsController.GetSettings)
	api.GET("/stats", statsController.GetStats)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/coupons", couponController.SubmitCoupon)
	protected.POST("/checkin", checkinController.DailyCheckin)
	protected.GET("/checkin/status", checkinController.CheckinStatus)
	protected.GET("/points/balance", pointsController.GetBalance)
	protected.GET("/points/log", pointsController.GetLog)
	protected.POST("/withdrawals", withdrawalController.Create)
	protected.GET("/withdrawals", withdrawalController.ListMine)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired(db))
	admin.GET("/withdrawals", withdrawalController.AdminList)
	admin.PATCH("/withdrawals/:id", withdrawalController.AdminReview)
	admin.POST("/categories", adminController.CreateCategory)
	admin.PUT("/categories/:id", adminController.UpdateCategory)
	admin.DELETE("/categories/:id", adminController.DeleteCategory)
	admin.POST("/stores", adminController.CreateStore)
	admin.PUT("/stores/:id", adminController.UpdateStore)
	admin.DELETE("/stores/:id", adminController.DeleteStore)
	admin.GET("/coupons", adminController.ListCouponsForReview)
	admin.POST("/coupons/:id/approve", adminController.ApproveCoupon)
	admin.DELETE("/coupons/:id", adminController.DeleteCoupon)
	admin.GET("/users", adminController.ListUsers)
	admin.POST("/users/:id/ban", adminController.BanUser)
	admin.POST("/users/:id/unban", adminController.UnbanUser)
	admin.GET("/settings", settingsController.GetSettings)
	admin.PUT("/settings", adminController.UpdateSettings)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		// SPA paths (/stores/daraz, /categories/fashion) fall back to the entry page
		ctx.Status(http.StatusOK)
		ctx.File("./static/index.html")
	})

	return r
}
