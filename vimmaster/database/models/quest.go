package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Quest struct {
	bun.BaseModel `bun:"table:quests,alias:q"`

	ID          int64  `bun:"id,pk,autoincrement"`
	ChapterID   int64  `bun:"chapter_id,notnull"`
	Title       string `bun:"title,notnull"`
	Description string `bun:"description,notnull"`
	QuestType   string `bun:"quest_type,notnull"`
	Difficulty  string `bun:"difficulty,notnull"`
	OrderIndex  int    `bun:"order_index,notnull"`

	// Exercise content
	InitialText    string `bun:"initial_text"`
	ExpectedResult string `bun:"expected_result"`
	VimCommand     string `bun:"vim_command"`

	Hints    []string `bun:"hints,type:jsonb"`
	MaxScore int      `bun:"max_score,notnull,default:10"`

	// Seconds; 0 means no limit
	TimeLimit int `bun:"time_limit,notnull,default:0"`

	IsActive  bool      `bun:"is_active,notnull,default:true"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`

	// Relations
	Chapter *Chapter `bun:"rel:belongs-to,join:chapter_id=id"`
}

// Quest type constants
const (
	QuestTypeCommand = "command"
	QuestTypeMotion  = "motion"
	QuestTypeEditing = "editing"
	QuestTypeVisual  = "visual"
	QuestTypeSearch  = "search"
)
