package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Chapter struct {
	bun.BaseModel `bun:"table:chapters,alias:ch"`

	ID          int64  `bun:"id,pk,autoincrement"`
	Title       string `bun:"title,notnull"`
	Description string `bun:"description"`
	Difficulty  string `bun:"difficulty,notnull"`
	OrderIndex  int    `bun:"order_index,notnull"`
	IsActive    bool   `bun:"is_active,notnull,default:true"`

	// Total score required before the chapter unlocks
	UnlockScore int `bun:"unlock_score,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Difficulty level constants
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)
