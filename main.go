package main

import (
	"time"

	"github.com/buckai/buckai-server/config"
	"github.com/buckai/buckai-server/gamification"
	"github.com/buckai/buckai-server/models"
	"github.com/buckai/buckai-server/routes"
	"github.com/buckai/buckai-server/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.UserStats{},
		&models.UserAchievement{},
		&models.DailyChallenge{},
		&models.Transaction{},
		&models.Customer{},
		&models.Invoice{},
		&models.Bill{},
		&models.PurchaseOrder{},
		&models.AIMessage{},
		&models.APIUsage{},
	)

	svc := gamification.NewService(
		gamification.NewGormStores(db),
		gamification.WithDegradeSilently(!cfg.GamificationFailLoud),
	)

	r := routes.SetupRouter(db, svc)

	// Expired daily challenge rows are swept in the background (best-effort)
	utils.StartChallengeCleaner(time.Hour)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
