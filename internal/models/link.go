package models

import "time"

// IdentityLink maps a Telegram user to their claimed chess.com account.
// At most one link per Telegram user; the username is stored lowercased.
type IdentityLink struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	TelegramID int64  `gorm:"uniqueIndex:idx_link_telegram_id"`

	ChessUsername string `gorm:"column:chess_username"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
