package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vimmasterbot/vimmaster/vimmaster/database/models"
)

// InitializeQuestData seeds the starter chapter and its quests. Safe to run
// on every startup; existing content is left untouched.
func (db *DB) InitializeQuestData(ctx context.Context) error {
	chapter := &models.Chapter{
		Title:       "Vim Basics",
		Description: "Learn the fundamental Vim commands",
		Difficulty:  models.DifficultyBeginner,
		OrderIndex:  1,
		UnlockScore: 0,
		IsActive:    true,
	}

	existing := new(models.Chapter)
	err := db.bunDB.NewSelect().
		Model(existing).
		Where("title = ?", chapter.Title).
		Scan(ctx)
	switch {
	case err == nil:
		chapter = existing
	case errors.Is(err, sql.ErrNoRows):
		chapter.CreatedAt = time.Now()
		if _, err := db.bunDB.NewInsert().Model(chapter).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert starter chapter: %w", err)
		}
	default:
		return fmt.Errorf("failed to look up starter chapter: %w", err)
	}

	questCount, err := db.bunDB.NewSelect().
		Model((*models.Quest)(nil)).
		Where("chapter_id = ?", chapter.ID).
		Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count quests: %w", err)
	}

	quests := starterQuests(chapter.ID)
	if questCount >= len(quests) {
		slog.Debug("Quest data already initialized, skipping",
			slog.String("type", "db"),
			slog.Int("quest_count", questCount))
		return nil
	}

	for _, quest := range quests {
		quest.CreatedAt = time.Now()
		if _, err := db.bunDB.NewInsert().Model(quest).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert quest %q: %w", quest.Title, err)
		}
	}

	slog.Info("Quest data initialized successfully",
		slog.String("type", "db"),
		slog.String("chapter", chapter.Title),
		slog.Int("count", len(quests)))
	return nil
}

func starterQuests(chapterID int64) []*models.Quest {
	return []*models.Quest{
		{
			ChapterID:      chapterID,
			Title:          "The Dot Command",
			Description:    "Learn to use the powerful dot (.) command to repeat your last action. You have the text 'hello' and need to add '!' after each character.",
			QuestType:      models.QuestTypeCommand,
			Difficulty:     models.DifficultyBeginner,
			OrderIndex:     1,
			InitialText:    "hello",
			ExpectedResult: "h!e!l!l!o!",
			VimCommand:     "A!<Esc>",
			Hints: []string{
				"Use A to append at the end of the line",
				"Press Escape to return to normal mode",
				"Use . (dot) to repeat the last action",
			},
			MaxScore:  10,
			TimeLimit: 60,
			IsActive:  true,
		},
		{
			ChapterID:      chapterID,
			Title:          "Basic Motions",
			Description:    "Master word movements with w, b, and e. Navigate through the text using these motion commands.",
			QuestType:      models.QuestTypeMotion,
			Difficulty:     models.DifficultyBeginner,
			OrderIndex:     2,
			InitialText:    "vim is a powerful text editor",
			ExpectedResult: "VIM IS A POWERFUL TEXT EDITOR",
			VimCommand:     "gUU",
			Hints: []string{
				"w moves forward by word",
				"b moves backward by word",
				"e moves to end of word",
				"gU converts to uppercase",
			},
			MaxScore:  15,
			TimeLimit: 90,
			IsActive:  true,
		},
		{
			ChapterID:      chapterID,
			Title:          "Insert Mode Mastery",
			Description:    "Practice different ways to enter insert mode: A (append at end), I (insert at beginning), o (new line below).",
			QuestType:      models.QuestTypeEditing,
			Difficulty:     models.DifficultyBeginner,
			OrderIndex:     3,
			InitialText:    "line one\nline three",
			ExpectedResult: "line one\nline two\nline three",
			VimCommand:     "o",
			Hints: []string{
				"A appends at the end of the line",
				"I inserts at the beginning of the line",
				"o creates a new line below and enters insert mode",
			},
			MaxScore:  12,
			TimeLimit: 60,
			IsActive:  true,
		},
		{
			ChapterID:      chapterID,
			Title:          "Visual Selection",
			Description:    "Use visual mode to select text and perform operations. Select a word and make it uppercase.",
			QuestType:      models.QuestTypeVisual,
			Difficulty:     models.DifficultyBeginner,
			OrderIndex:     4,
			InitialText:    "make this WORD uppercase",
			ExpectedResult: "make this WORD UPPERCASE",
			VimCommand:     "viwgU",
			Hints: []string{
				"v enters visual mode",
				"iw selects inner word",
				"gU converts selection to uppercase",
			},
			MaxScore:  18,
			TimeLimit: 90,
			IsActive:  true,
		},
		{
			ChapterID:      chapterID,
			Title:          "Search and Replace",
			Description:    "Use the substitute command to replace all occurrences of 'old' with 'new' in the text.",
			QuestType:      models.QuestTypeSearch,
			Difficulty:     models.DifficultyBeginner,
			OrderIndex:     5,
			InitialText:    "old text with old words and old patterns",
			ExpectedResult: "new text with new words and new patterns",
			VimCommand:     ":%s/old/new/g",
			Hints: []string{
				":s is the substitute command",
				"% means apply to all lines",
				"g means global (all occurrences on each line)",
			},
			MaxScore:  20,
			TimeLimit: 120,
			IsActive:  true,
		},
	}
}
