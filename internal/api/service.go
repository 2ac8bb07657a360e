package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/uyruai-lang/My-bot/internal/config"
	"github.com/uyruai-lang/My-bot/internal/leaderboard"
	"github.com/uyruai-lang/My-bot/internal/registry"
)

// Service exposes the leaderboard over HTTP for read-only consumers.
type Service struct {
	config     *config.Config
	registry   *registry.Service
	aggregator *leaderboard.Aggregator
}

func NewService(cfg *config.Config, reg *registry.Service, aggregator *leaderboard.Aggregator) *Service {
	return &Service{
		config:     cfg,
		registry:   reg,
		aggregator: aggregator,
	}
}

func (s *Service) HandleLeaderboard() echo.HandlerFunc {
	return func(c echo.Context) error {
		n := s.config.LeaderboardSize
		if raw := c.QueryParam("n"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "n must be a positive integer"})
			}
			n = parsed
		}

		usernames, err := s.registry.RegisteredUsernames(c.Request().Context())
		if err != nil {
			logrus.Errorf("failed to list usernames: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list players"})
		}

		report, err := s.aggregator.TopPlayers(c.Request().Context(), usernames, n)
		switch {
		case errors.Is(err, leaderboard.ErrNoPlayers):
			return c.JSON(http.StatusOK, echo.Map{"standings": []leaderboard.Standing{}, "message": "no players registered"})
		case errors.Is(err, leaderboard.ErrNoRatings):
			return c.JSON(http.StatusOK, echo.Map{"standings": []leaderboard.Standing{}, "message": "no ratings available"})
		case err != nil:
			logrus.Errorf("failed to build leaderboard: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to build leaderboard"})
		}

		return c.JSON(http.StatusOK, report)
	}
}
