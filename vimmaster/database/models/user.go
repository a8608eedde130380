package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64  `bun:"id,pk,autoincrement"`
	TelegramID   int64  `bun:"telegram_id,notnull,unique"`
	Username     string `bun:"username"`
	FirstName    string `bun:"first_name,notnull"`
	LastName     string `bun:"last_name"`
	LanguageCode string `bun:"language_code,notnull,default:'en'"`
	Status       string `bun:"status,notnull,default:'active'"`

	// Cumulative best scores across completed quests
	TotalScore   int `bun:"total_score,notnull,default:0"`
	CurrentLevel int `bun:"current_level,notnull,default:1"`

	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`
	LastActivity time.Time `bun:"last_activity,notnull"`
}

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusBanned   = "banned"
)
