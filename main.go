package main

import (
	"github.com/dealkhoj/dealkhoj/config"
	"github.com/dealkhoj/dealkhoj/models"
	"github.com/dealkhoj/dealkhoj/routes"
	"github.com/dealkhoj/dealkhoj/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.PointsLog{},
		&models.CheckIn{},
		&models.Withdrawal{},
		&models.Category{},
		&models.Store{},
		&models.Coupon{},
		&models.CouponStat{},
		&models.Setting{},
	)

	if err := seedAdmin(db, cfg); err != nil {
		utils.Sugar.Fatalf("failed to seed admin account: %v", err)
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
