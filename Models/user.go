package Models

import (
	"gorm.io/gorm"
)

// Permission levels: 1 worker, 3 manager, 4 admin.
type User struct {
	gorm.Model
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"uniqueIndex"`
	Password   []byte `json:"-"`
	Phone      string `json:"phone"`
	Permission int    `json:"permission"`
	IsApproved int    `json:"is_approved"`

	// Telegram account of a manager acting as decider; zero when unlinked.
	TelegramID int64 `json:"telegram_id" gorm:"index"`
}
