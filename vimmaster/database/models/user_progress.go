package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserProgress is the durable per-player-per-quest attempt record. Rows are
// created on first start or submit, merged on every later submit, and never
// deleted. Score and completion only ever move forward.
type UserProgress struct {
	bun.BaseModel `bun:"table:user_progress,alias:up"`

	ID      int64 `bun:"id,pk,autoincrement"`
	UserID  int64 `bun:"user_id,notnull"`
	QuestID int64 `bun:"quest_id,notnull"`

	IsCompleted bool `bun:"is_completed,notnull,default:false"`
	Score       int  `bun:"score,notnull,default:0"`
	Attempts    int  `bun:"attempts,notnull,default:0"`
	HintsUsed   int  `bun:"hints_used,notnull,default:0"`

	// Seconds; 0 means not reported
	TimeSpent int `bun:"time_spent,notnull,default:0"`

	CompletedAt *time.Time `bun:"completed_at"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull"`

	// Relations
	Quest *Quest `bun:"rel:belongs-to,join:quest_id=id"`
}
