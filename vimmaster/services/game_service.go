package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vimmasterbot/vimmaster/vimmaster/database/models"
	"github.com/vimmasterbot/vimmaster/vimmaster/database/repositories"
	"github.com/vimmasterbot/vimmaster/vimmaster/scoring"
	"github.com/vimmasterbot/vimmaster/vimmaster/vimcmd"
)

var ErrQuestNotFound = errors.New("quest not found")

// SubmitResult is the outcome of a single answer submission.
type SubmitResult struct {
	IsCorrect bool
	Score     int
	Message   string
}

// ProgressSummary aggregates a player's attempt records.
type ProgressSummary struct {
	TotalScore     int     `json:"total_score"`
	TotalCompleted int     `json:"total_completed"`
	TotalAttempts  int     `json:"total_attempts"`
	CompletionRate float64 `json:"completion_rate"`
	AverageScore   float64 `json:"average_score"`
	CurrentLevel   int     `json:"current_level"`
}

// GameService is the gameplay facade: it coordinates the catalog, the
// attempt ledger and the player account for starting quests, scoring
// submissions and recommending what to play next.
type GameService struct {
	progressRepo repositories.ProgressRepository
	questService *QuestService
	userService  *UserService
	calculator   *scoring.Calculator
}

func NewGameService(
	progressRepo repositories.ProgressRepository,
	questService *QuestService,
	userService *UserService,
	calculator *scoring.Calculator,
) *GameService {
	return &GameService{
		progressRepo: progressRepo,
		questService: questService,
		userService:  userService,
		calculator:   calculator,
	}
}

// StartQuest opens a quest for the player, creating an empty attempt record
// on first start. Restarting an open or completed quest is a no-op.
func (gs *GameService) StartQuest(ctx context.Context, user *models.User, questID int64) (*models.Quest, error) {
	quest, err := gs.questService.GetQuestByID(ctx, questID)
	if err != nil {
		return nil, err
	}
	if quest == nil {
		return nil, ErrQuestNotFound
	}

	progress, err := gs.progressRepo.Get(ctx, user.ID, questID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = &models.UserProgress{
			UserID:  user.ID,
			QuestID: questID,
		}
		if err := gs.progressRepo.Create(ctx, progress); err != nil {
			return nil, fmt.Errorf("failed to create progress record: %w", err)
		}
		slog.Debug("Quest started",
			slog.String("type", "game"),
			slog.Int64("user_id", user.ID),
			slog.Int64("quest_id", questID))
	}

	return quest, nil
}

// SubmitAnswer checks the player's input against the quest, scores the
// attempt and merges it into the ledger. Points are credited to the account
// only on the submission that first completes the quest.
//
// Submitting against an unstarted or already-completed quest is a normal
// game-flow outcome and comes back as a zero-score result with a message,
// not as an error.
func (gs *GameService) SubmitAnswer(ctx context.Context, user *models.User, questID int64, userInput string, timeSpent, hintsUsed int) (*SubmitResult, error) {
	quest, err := gs.questService.GetQuestByID(ctx, questID)
	if err != nil {
		return nil, err
	}
	if quest == nil {
		return nil, ErrQuestNotFound
	}

	progress, err := gs.progressRepo.Get(ctx, user.ID, questID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return &SubmitResult{Message: "Quest not started"}, nil
	}
	if progress.IsCompleted {
		return &SubmitResult{Message: "Quest already completed"}, nil
	}

	isCorrect := vimcmd.Matches(userInput, quest.VimCommand)
	attempts := progress.Attempts + 1
	score := gs.calculator.CalculateQuestScore(quest, isCorrect, attempts, hintsUsed, timeSpent)

	_, transitioned, err := gs.progressRepo.ApplyOutcome(ctx, repositories.AttemptOutcome{
		UserID:    user.ID,
		QuestID:   questID,
		Score:     score,
		IsCorrect: isCorrect,
		HintsUsed: hintsUsed,
		TimeSpent: timeSpent,
	})
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{IsCorrect: isCorrect, Score: score}

	if isCorrect {
		if transitioned {
			if _, _, err := gs.userService.AddScore(ctx, user, score); err != nil {
				return nil, fmt.Errorf("failed to credit score: %w", err)
			}
		}
		result.Message = fmt.Sprintf("Correct! You earned %d points.", score)
		slog.Info("Quest completed",
			slog.String("type", "game"),
			slog.Int64("user_id", user.ID),
			slog.Int64("quest_id", questID),
			slog.Int("score", score),
			slog.Int("attempts", attempts))
	} else {
		result.Message = "Incorrect. Try again!"
	}

	return result, nil
}

// GetNextRecommendedQuest returns the first beginner quest, in catalog
// order, that the player has not completed. It returns nil when the pool is
// exhausted.
func (gs *GameService) GetNextRecommendedQuest(ctx context.Context, userID int64) (*models.Quest, error) {
	completed, err := gs.progressRepo.GetCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}

	completedIDs := make(map[int64]struct{}, len(completed))
	for _, p := range completed {
		completedIDs[p.QuestID] = struct{}{}
	}

	beginnerQuests, err := gs.questService.GetBeginnerQuests(ctx)
	if err != nil {
		return nil, err
	}

	for _, quest := range beginnerQuests {
		if _, done := completedIDs[quest.ID]; !done {
			return quest, nil
		}
	}

	return nil, nil
}

// GetQuestHint returns the hint at the given position, or false when the
// quest has no hint left to reveal.
func (gs *GameService) GetQuestHint(quest *models.Quest, hintsUsed int) (string, bool) {
	if hintsUsed < 0 || hintsUsed >= len(quest.Hints) {
		return "", false
	}
	return quest.Hints[hintsUsed], true
}

func (gs *GameService) GetUserProgress(ctx context.Context, userID int64) ([]*models.UserProgress, error) {
	return gs.progressRepo.GetByUser(ctx, userID)
}

func (gs *GameService) GetCompletedQuests(ctx context.Context, userID int64) ([]*models.UserProgress, error) {
	return gs.progressRepo.GetCompleted(ctx, userID)
}

// GetUserProgressSummary aggregates the ledger for the profile view. Scores
// only count once a quest is completed.
func (gs *GameService) GetUserProgressSummary(ctx context.Context, userID int64) (*ProgressSummary, error) {
	progressList, err := gs.progressRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &ProgressSummary{}
	for _, p := range progressList {
		summary.TotalAttempts += p.Attempts
		if p.IsCompleted {
			summary.TotalCompleted++
			summary.TotalScore += p.Score
		}
	}

	if len(progressList) > 0 {
		summary.CompletionRate = float64(summary.TotalCompleted) / float64(len(progressList))
	}
	if summary.TotalCompleted > 0 {
		summary.AverageScore = float64(summary.TotalScore) / float64(summary.TotalCompleted)
	}

	totalScore, err := gs.userService.userRepo.GetTotalScore(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary.CurrentLevel = gs.calculator.CalculateLevel(totalScore)

	return summary, nil
}
