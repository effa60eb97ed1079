package main

import (
	"os"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/config"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/seed"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/logger"
)

func main() {
	cfg := config.LoadConfig()
	appLogger := logger.New(cfg)

	if err := database.ConnectDatabase(cfg, appLogger); err != nil {
		appLogger.Error("❌ Failed to connect to database", "error", err)
		os.Exit(1)
	}

	_, err := seed.Run(database.GetDatabase(), appLogger)
	database.Close()
	if err != nil {
		os.Exit(1)
	}
}
