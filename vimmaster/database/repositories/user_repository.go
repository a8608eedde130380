package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/vimmasterbot/vimmaster/vimmaster/database/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLastActivity(ctx context.Context, userID int64) error
	AddScore(ctx context.Context, userID int64, delta int) (int, error)
	SetLevel(ctx context.Context, userID int64, level int) error
	GetTotalScore(ctx context.Context, userID int64) (int, error)
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.LastActivity = now
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	if user.LanguageCode == "" {
		user.LanguageCode = "en"
	}
	_, err := r.db.NewInsert().Model(user).Exec(ctx)
	return err
}

// GetByTelegramID returns nil without error when no user exists for the id.
func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("telegram_id = ?", telegramID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Error("Database error when getting user",
			slog.String("type", "db"),
			slog.String("operation", "GetByTelegramID"),
			slog.Int64("telegram_id", telegramID),
			slog.String("error", err.Error()))
		return nil, err
	}

	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(user).
		WherePK().
		Exec(ctx)
	return err
}

func (r *userRepository) UpdateLastActivity(ctx context.Context, userID int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("last_activity = ?", time.Now()).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	return err
}

// AddScore atomically increments the cumulative score and returns the new
// total.
func (r *userRepository) AddScore(ctx context.Context, userID int64, delta int) (int, error) {
	var newTotal int
	err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("total_score = total_score + ?", delta).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Returning("total_score").
		Scan(ctx, &newTotal)

	if err != nil {
		return 0, fmt.Errorf("failed to add score: %w", err)
	}
	return newTotal, nil
}

func (r *userRepository) SetLevel(ctx context.Context, userID int64, level int) error {
	_, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("current_level = ?", level).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	return err
}

func (r *userRepository) GetTotalScore(ctx context.Context, userID int64) (int, error) {
	var user models.User
	err := r.db.NewSelect().
		Model(&user).
		Column("total_score").
		Where("id = ?", userID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	return user.TotalScore, nil
}
