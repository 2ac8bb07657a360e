package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/uyruai-lang/My-bot/internal/bot"
	"github.com/uyruai-lang/My-bot/internal/chesscom"
	"github.com/uyruai-lang/My-bot/internal/config"
	"github.com/uyruai-lang/My-bot/internal/leaderboard"
	"github.com/uyruai-lang/My-bot/internal/logging"
	"github.com/uyruai-lang/My-bot/internal/registry"
	"github.com/uyruai-lang/My-bot/internal/storage"
	"gopkg.in/telebot.v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	setupConfig()
	logging.Init()

	cfg := config.New()
	logrus.Debugf("config: %+v", cfg)

	if len(cfg.AdminIDs) == 0 {
		logrus.Warn("no admin ids configured, ban commands will be rejected for everyone")
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	store := storage.New(db)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	initCtx, migrateCancel := context.WithTimeout(ctx, 10*time.Second)
	defer migrateCancel()

	if err := store.Migrate(initCtx); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	tgBot, err := telebot.NewBot(telebot.Settings{
		Token: cfg.TelegramToken,
		Poller: &telebot.LongPoller{
			Timeout:        10 * time.Second,
			AllowedUpdates: []string{"message"},
		},
	})
	if err != nil {
		logrus.Fatalf("Failed to create bot: %v", err)
	}

	client := chesscom.NewClient(cfg.StatsBaseURL, cfg.StatsTimeout)
	reg := registry.New(store, client)
	aggregator := leaderboard.New(client, cfg.FetchConcurrency)

	dispatcher := bot.New(cfg, reg, client, aggregator)
	dispatcher.Register(tgBot)

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		tgBot.Start()
	}()

	logrus.Info("bot is running")

	<-ctx.Done()

	tgBot.Stop()

	logrus.Info("waiting for bot to finish")
	wg.Wait()
}

func setupConfig() {
	viper.SetDefault("bot_handle_timeout", "30s")
	config.SetupCommon()
}
