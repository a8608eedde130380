package repositories

import (
	"context"
	"database/sql"
	"errors"

	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"

	"github.com/vimmasterbot/vimmaster/vimmaster/database/models"
)

// Quest descriptors are immutable per version, so cached entries never need
// invalidation
const questCacheSize = 1000

type QuestRepository interface {
	// Quests
	GetQuest(ctx context.Context, questID int64) (*models.Quest, error)
	GetQuestsByChapter(ctx context.Context, chapterID int64) ([]*models.Quest, error)
	GetQuestsByDifficulty(ctx context.Context, difficulty string) ([]*models.Quest, error)
	GetAllQuests(ctx context.Context) ([]*models.Quest, error)

	// Chapters
	GetActiveChapters(ctx context.Context) ([]*models.Chapter, error)
}

type questRepository struct {
	db    *bun.DB
	cache *lru.Cache
}

func NewQuestRepository(db *bun.DB) QuestRepository {
	cache, _ := lru.New(questCacheSize)
	return &questRepository{db: db, cache: cache}
}

// GetQuest returns the quest with the given id, or nil if it does not exist
// or is inactive.
func (r *questRepository) GetQuest(ctx context.Context, questID int64) (*models.Quest, error) {
	if cached, ok := r.cache.Get(questID); ok {
		return cached.(*models.Quest), nil
	}

	quest := new(models.Quest)
	err := r.db.NewSelect().
		Model(quest).
		Where("id = ?", questID).
		Where("is_active = ?", true).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	r.cache.Add(questID, quest)
	return quest, nil
}

func (r *questRepository) GetQuestsByChapter(ctx context.Context, chapterID int64) ([]*models.Quest, error) {
	var quests []*models.Quest
	err := r.db.NewSelect().
		Model(&quests).
		Where("chapter_id = ?", chapterID).
		Where("is_active = ?", true).
		Order("order_index ASC", "id ASC").
		Scan(ctx)

	return quests, err
}

func (r *questRepository) GetQuestsByDifficulty(ctx context.Context, difficulty string) ([]*models.Quest, error) {
	var quests []*models.Quest
	err := r.db.NewSelect().
		Model(&quests).
		Where("difficulty = ?", difficulty).
		Where("is_active = ?", true).
		Order("order_index ASC", "id ASC").
		Scan(ctx)

	return quests, err
}

func (r *questRepository) GetAllQuests(ctx context.Context) ([]*models.Quest, error) {
	var quests []*models.Quest
	err := r.db.NewSelect().
		Model(&quests).
		Where("is_active = ?", true).
		Order("chapter_id ASC", "order_index ASC").
		Scan(ctx)

	return quests, err
}

func (r *questRepository) GetActiveChapters(ctx context.Context) ([]*models.Chapter, error) {
	var chapters []*models.Chapter
	err := r.db.NewSelect().
		Model(&chapters).
		Where("is_active = ?", true).
		Order("order_index ASC").
		Scan(ctx)

	return chapters, err
}
