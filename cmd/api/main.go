package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/uyruai-lang/My-bot/internal/api"
	"github.com/uyruai-lang/My-bot/internal/chesscom"
	"github.com/uyruai-lang/My-bot/internal/config"
	"github.com/uyruai-lang/My-bot/internal/leaderboard"
	"github.com/uyruai-lang/My-bot/internal/logging"
	"github.com/uyruai-lang/My-bot/internal/registry"
	"github.com/uyruai-lang/My-bot/internal/storage"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	setupConfig()
	logging.Init()

	cfg := config.New()
	logrus.Debugf("config: %+v", cfg)

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	store := storage.New(db)

	initCtx, migrateCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer migrateCancel()

	if err := store.Migrate(initCtx); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	client := chesscom.NewClient(cfg.StatsBaseURL, cfg.StatsTimeout)
	reg := registry.New(store, client)
	aggregator := leaderboard.New(client, cfg.FetchConcurrency)

	service := api.NewService(cfg, reg, aggregator)
	e := echo.New()
	e.GET("/leaderboard", service.HandleLeaderboard())
	if err := e.Start(viper.GetString("http_addr")); err != nil {
		logrus.Fatalf("Failed to start http server: %v", err)
	}
}

func setupConfig() {
	viper.SetDefault("http_addr", ":8080")
	config.SetupCommon()
}
