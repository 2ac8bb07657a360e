package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uyruai-lang/My-bot/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Storage struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.IdentityLink{}, &models.BanEntry{}); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

// UpsertLink inserts or overwrites the chess username linked to a Telegram user.
func (s *Storage) UpsertLink(ctx context.Context, telegramID int64, chessUsername string) error {
	link := &models.IdentityLink{
		ID:            uuid.New().String(),
		TelegramID:    telegramID,
		ChessUsername: chessUsername,
	}

	if err := s.db.
		WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "telegram_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"chess_username", "updated_at"}),
		}).
		Create(link).
		Error; err != nil {
		return fmt.Errorf("upserting link: %w", err)
	}

	return nil
}

func (s *Storage) GetLink(ctx context.Context, telegramID int64) (*models.IdentityLink, error) {
	var link models.IdentityLink
	if err := s.db.
		WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		First(&link).
		Error; err != nil {
		return nil, fmt.Errorf("getting link: %w", err)
	}
	return &link, nil
}

// DeleteLink removes the link for a Telegram user and reports whether one existed.
func (s *Storage) DeleteLink(ctx context.Context, telegramID int64) (bool, error) {
	res := s.db.
		WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		Delete(&models.IdentityLink{})
	if res.Error != nil {
		return false, fmt.Errorf("deleting link: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListUsernames returns every linked chess username in registration order.
func (s *Storage) ListUsernames(ctx context.Context) ([]string, error) {
	var usernames []string
	if err := s.db.
		WithContext(ctx).
		Model(&models.IdentityLink{}).
		Order("created_at").
		Pluck("chess_username", &usernames).
		Error; err != nil {
		return nil, fmt.Errorf("listing usernames: %w", err)
	}
	return usernames, nil
}

// BanAndUnlink records the ban and drops any identity link in one transaction.
// A ban for a user who never registered still succeeds.
func (s *Storage) BanAndUnlink(ctx context.Context, telegramID int64) error {
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.BanEntry{TelegramID: telegramID}).
			Error; err != nil {
			return fmt.Errorf("creating ban entry: %w", err)
		}

		if err := tx.
			Where("telegram_id = ?", telegramID).
			Delete(&models.IdentityLink{}).
			Error; err != nil {
			return fmt.Errorf("deleting link: %w", err)
		}

		return nil
	}); err != nil {
		return fmt.Errorf("in tx: %w", err)
	}

	return nil
}

// AddBan inserts a ban entry without touching links. Used by the migration.
func (s *Storage) AddBan(ctx context.Context, telegramID int64) error {
	if err := s.db.
		WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.BanEntry{TelegramID: telegramID}).
		Error; err != nil {
		return fmt.Errorf("creating ban entry: %w", err)
	}
	return nil
}

// RemoveBan lifts a ban and reports whether the user was banned.
func (s *Storage) RemoveBan(ctx context.Context, telegramID int64) (bool, error) {
	res := s.db.
		WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		Delete(&models.BanEntry{})
	if res.Error != nil {
		return false, fmt.Errorf("deleting ban entry: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Storage) IsBanned(ctx context.Context, telegramID int64) (bool, error) {
	var count int64
	if err := s.db.
		WithContext(ctx).
		Model(&models.BanEntry{}).
		Where("telegram_id = ?", telegramID).
		Count(&count).
		Error; err != nil {
		return false, fmt.Errorf("counting ban entries: %w", err)
	}
	return count > 0, nil
}
