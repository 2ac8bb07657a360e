package models

import (
	"fmt"
	"time"
)

// BanEntry marks a Telegram user as barred from every bot command.
// Banning also removes the user's IdentityLink; the two must never
// coexist for the same Telegram ID.
type BanEntry struct {
	TelegramID int64 `gorm:"primaryKey"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (b *BanEntry) String() string {
	return fmt.Sprintf("BanEntry(%d)", b.TelegramID)
}
