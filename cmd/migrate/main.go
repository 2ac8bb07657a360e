// Command migrate performs the one-time import of the old bot's JSON
// files into postgres. It is idempotent: re-running upserts the same rows.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/uyruai-lang/My-bot/internal/config"
	"github.com/uyruai-lang/My-bot/internal/logging"
	"github.com/uyruai-lang/My-bot/internal/storage"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	setupConfig()
	logging.Init()

	cfg := config.New()

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	store := storage.New(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := store.Migrate(ctx); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	users, err := loadJSONMap(viper.GetString("users_file"))
	if err != nil {
		logrus.Fatalf("Failed to load users file: %v", err)
	}

	banned, err := loadJSONMap(viper.GetString("banned_file"))
	if err != nil {
		logrus.Fatalf("Failed to load banned file: %v", err)
	}

	for rawID, value := range users {
		telegramID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			logrus.Fatalf("Invalid telegram id %q in users file: %v", rawID, err)
		}
		username, ok := value.(string)
		if !ok {
			logrus.Fatalf("Invalid username for telegram id %q: %v", rawID, value)
		}
		if err := store.UpsertLink(ctx, telegramID, strings.ToLower(username)); err != nil {
			logrus.Fatalf("Failed to upsert link for %d: %v", telegramID, err)
		}
	}

	for rawID := range banned {
		telegramID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			logrus.Fatalf("Invalid telegram id %q in banned file: %v", rawID, err)
		}
		if err := store.AddBan(ctx, telegramID); err != nil {
			logrus.Fatalf("Failed to upsert ban for %d: %v", telegramID, err)
		}
	}

	logrus.Infof("migration completed: %d links, %d bans", len(users), len(banned))
}

func loadJSONMap(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshalling %s: %w", path, err)
	}
	return data, nil
}

func setupConfig() {
	viper.SetDefault("users_file", "tahsee.json")
	viper.SetDefault("banned_file", "banned.json")
	config.SetupCommon()
}
