package services

import (
	"context"
	"fmt"

	"github.com/vimmasterbot/vimmaster/vimmaster/database/models"
	"github.com/vimmasterbot/vimmaster/vimmaster/database/repositories"
)

// QuestService exposes the quest catalog: chapters, their quests, and the
// beginner pool used for recommendations.
type QuestService struct {
	questRepo repositories.QuestRepository
}

func NewQuestService(questRepo repositories.QuestRepository) *QuestService {
	return &QuestService{questRepo: questRepo}
}

func (qs *QuestService) GetQuestByID(ctx context.Context, questID int64) (*models.Quest, error) {
	return qs.questRepo.GetQuest(ctx, questID)
}

func (qs *QuestService) GetAvailableChapters(ctx context.Context) ([]*models.Chapter, error) {
	chapters, err := qs.questRepo.GetActiveChapters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chapters: %w", err)
	}
	return chapters, nil
}

func (qs *QuestService) GetChapterQuests(ctx context.Context, chapterID int64) ([]*models.Quest, error) {
	quests, err := qs.questRepo.GetQuestsByChapter(ctx, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter quests: %w", err)
	}
	return quests, nil
}

// GetBeginnerQuests returns the beginner pool in catalog order.
func (qs *QuestService) GetBeginnerQuests(ctx context.Context) ([]*models.Quest, error) {
	return qs.questRepo.GetQuestsByDifficulty(ctx, models.DifficultyBeginner)
}
