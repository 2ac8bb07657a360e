package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uyruai-lang/My-bot/internal/chesscom"
	"github.com/uyruai-lang/My-bot/internal/storage"
	"gorm.io/gorm"
)

var (
	// ErrNotRegistered is returned by Lookup when the user holds no link.
	ErrNotRegistered = errors.New("no chess account registered")
	// ErrAccountUnconfirmed rejects a registration whose username the
	// rating API did not confirm. Nothing is written in that case.
	ErrAccountUnconfirmed = errors.New("chess account could not be confirmed")
)

type StatsFetcher interface {
	FetchStats(ctx context.Context, username string) chesscom.Result
}

// Service owns the identity links and the ban set.
type Service struct {
	storage *storage.Storage
	fetcher StatsFetcher
}

func New(storage *storage.Storage, fetcher StatsFetcher) *Service {
	return &Service{
		storage: storage,
		fetcher: fetcher,
	}
}

// Register links telegramID to the chess username, overwriting any previous
// link. The username is lowercased first and must be confirmed to exist by
// the rating API.
func (s *Service) Register(ctx context.Context, telegramID int64, chessUsername string) (string, error) {
	chessUsername = strings.ToLower(strings.TrimSpace(chessUsername))
	if chessUsername == "" {
		return "", ErrAccountUnconfirmed
	}

	if s.fetcher.FetchStats(ctx, chessUsername).Absent() {
		return "", ErrAccountUnconfirmed
	}

	if err := s.storage.UpsertLink(ctx, telegramID, chessUsername); err != nil {
		return "", fmt.Errorf("storing link: %w", err)
	}

	return chessUsername, nil
}

// Unregister drops the user's link and reports whether one existed.
func (s *Service) Unregister(ctx context.Context, telegramID int64) (bool, error) {
	existed, err := s.storage.DeleteLink(ctx, telegramID)
	if err != nil {
		return false, fmt.Errorf("removing link: %w", err)
	}
	return existed, nil
}

func (s *Service) Lookup(ctx context.Context, telegramID int64) (string, error) {
	link, err := s.storage.GetLink(ctx, telegramID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotRegistered
	}
	if err != nil {
		return "", fmt.Errorf("looking up link: %w", err)
	}
	return link.ChessUsername, nil
}

// RegisteredUsernames lists every linked username in registration order.
func (s *Service) RegisteredUsernames(ctx context.Context) ([]string, error) {
	return s.storage.ListUsernames(ctx)
}

// Ban bars the user from the bot and removes their link. Banning a user
// who never registered succeeds and only records the ban.
func (s *Service) Ban(ctx context.Context, telegramID int64) error {
	if err := s.storage.BanAndUnlink(ctx, telegramID); err != nil {
		return fmt.Errorf("banning user: %w", err)
	}
	return nil
}

// Unban lifts the ban and reports whether the user was banned.
func (s *Service) Unban(ctx context.Context, telegramID int64) (bool, error) {
	existed, err := s.storage.RemoveBan(ctx, telegramID)
	if err != nil {
		return false, fmt.Errorf("unbanning user: %w", err)
	}
	return existed, nil
}

func (s *Service) IsBanned(ctx context.Context, telegramID int64) (bool, error) {
	banned, err := s.storage.IsBanned(ctx, telegramID)
	if err != nil {
		return false, fmt.Errorf("checking ban: %w", err)
	}
	return banned, nil
}
