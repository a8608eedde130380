package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vimmasterbot/vimmaster/vimmaster/auth"
	"github.com/vimmasterbot/vimmaster/vimmaster/database/models"
	"github.com/vimmasterbot/vimmaster/vimmaster/database/repositories"
	"github.com/vimmasterbot/vimmaster/vimmaster/scoring"
)

// UserService resolves Telegram identities to player accounts and keeps the
// cumulative score and level in sync.
type UserService struct {
	userRepo   repositories.UserRepository
	calculator *scoring.Calculator
}

func NewUserService(userRepo repositories.UserRepository, calculator *scoring.Calculator) *UserService {
	return &UserService{
		userRepo:   userRepo,
		calculator: calculator,
	}
}

// GetOrCreateUser returns the account for a validated Telegram identity,
// creating it on first contact. Display fields are refreshed when Telegram
// reports new values, and last_activity is bumped on every call.
func (us *UserService) GetOrCreateUser(ctx context.Context, claim *auth.IdentityClaim) (*models.User, error) {
	user, err := us.userRepo.GetByTelegramID(ctx, claim.TelegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil {
		user = &models.User{
			TelegramID:   claim.TelegramID,
			Username:     claim.Username,
			FirstName:    claim.FirstName,
			LastName:     claim.LastName,
			LanguageCode: claim.LanguageCode,
			Status:       models.UserStatusActive,
			CurrentLevel: 1,
		}
		if err := us.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		slog.Info("Registered new player",
			slog.String("type", "user"),
			slog.Int64("telegram_id", claim.TelegramID),
			slog.String("username", claim.Username))
		return user, nil
	}

	if user.Username != claim.Username || user.FirstName != claim.FirstName || user.LastName != claim.LastName {
		user.Username = claim.Username
		user.FirstName = claim.FirstName
		user.LastName = claim.LastName
		if err := us.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to refresh user profile: %w", err)
		}
	}

	if err := us.userRepo.UpdateLastActivity(ctx, user.ID); err != nil {
		slog.Warn("Failed to update last activity",
			slog.String("type", "user"),
			slog.Int64("user_id", user.ID),
			slog.Any("error", err))
	}

	return user, nil
}

// AddScore credits quest points to the account and returns the new total and
// the level derived from it. The stored level only ever moves forward.
func (us *UserService) AddScore(ctx context.Context, user *models.User, points int) (int, int, error) {
	newTotal, err := us.userRepo.AddScore(ctx, user.ID, points)
	if err != nil {
		return 0, 0, err
	}

	level := us.calculator.CalculateLevel(newTotal)
	if level > user.CurrentLevel {
		if err := us.userRepo.SetLevel(ctx, user.ID, level); err != nil {
			slog.Error("Failed to persist level",
				slog.String("type", "user"),
				slog.Int64("user_id", user.ID),
				slog.Int("level", level),
				slog.Any("error", err))
		} else {
			slog.Info("Player leveled up",
				slog.String("type", "user"),
				slog.Int64("user_id", user.ID),
				slog.Int("level", level),
				slog.Int("total_score", newTotal))
		}
		user.CurrentLevel = level
	}
	user.TotalScore = newTotal

	return newTotal, user.CurrentLevel, nil
}

func (us *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	return us.userRepo.GetByTelegramID(ctx, telegramID)
}

// Level maps a cumulative score onto the level ladder.
func (us *UserService) Level(totalScore int) int {
	return us.calculator.CalculateLevel(totalScore)
}
