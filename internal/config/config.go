package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	TelegramToken    string        `mapstructure:"telegram_token"`
	BotHandleTimeout time.Duration `mapstructure:"bot_handle_timeout"`

	StatsBaseURL string        `mapstructure:"stats_base_url"`
	StatsTimeout time.Duration `mapstructure:"stats_timeout"`

	LeaderboardSize  int `mapstructure:"leaderboard_size"`
	FetchConcurrency int `mapstructure:"fetch_concurrency"`

	PostgresDSN string `mapstructure:"postgres_dsn"`

	AdminIDs []int64
}

func New() *Config {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		logrus.Fatalf("unmarshalling config: %v", err)
	}

	// viper delivers env values as plain strings, so the ID list is parsed by hand.
	ids, err := ParseAdminIDs(viper.GetString("admin_ids"))
	if err != nil {
		logrus.Fatalf("parsing admin_ids: %v", err)
	}
	cfg.AdminIDs = ids

	return cfg
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func ParseAdminIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing admin id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func SetupCommon() {
	viper.SetDefault("stats_base_url", "https://api.chess.com")
	viper.SetDefault("stats_timeout", "15s")
	viper.SetDefault("leaderboard_size", 5)
	viper.SetDefault("fetch_concurrency", 4)
	viper.SetEnvPrefix("MYBOT")

	viper.MustBindEnv("telegram_token")
	viper.MustBindEnv("postgres_dsn")
	viper.BindEnv("admin_ids")
	viper.AutomaticEnv()
}
