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

// ProgressRepository owns the per-(user, quest) attempt records and their
// monotonic-merge update semantics.
type ProgressRepository interface {
	Get(ctx context.Context, userID, questID int64) (*models.UserProgress, error)
	GetByUser(ctx context.Context, userID int64) ([]*models.UserProgress, error)
	GetCompleted(ctx context.Context, userID int64) ([]*models.UserProgress, error)
	Create(ctx context.Context, progress *models.UserProgress) error
	ApplyOutcome(ctx context.Context, outcome AttemptOutcome) (*models.UserProgress, bool, error)
}

// AttemptOutcome is the result of scoring a single submission, to be merged
// into the attempt record.
type AttemptOutcome struct {
	UserID    int64
	QuestID   int64
	Score     int
	IsCorrect bool
	HintsUsed int
	TimeSpent int
}

type progressRepository struct {
	db *bun.DB
}

func NewProgressRepository(db *bun.DB) ProgressRepository {
	return &progressRepository{db: db}
}

// Get returns nil without error when no record exists for the pair.
func (r *progressRepository) Get(ctx context.Context, userID, questID int64) (*models.UserProgress, error) {
	progress := new(models.UserProgress)
	err := r.db.NewSelect().
		Model(progress).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return progress, nil
}

func (r *progressRepository) GetByUser(ctx context.Context, userID int64) ([]*models.UserProgress, error) {
	var progress []*models.UserProgress
	err := r.db.NewSelect().
		Model(&progress).
		Where("user_id = ?", userID).
		Order("quest_id ASC").
		Scan(ctx)

	return progress, err
}

func (r *progressRepository) GetCompleted(ctx context.Context, userID int64) ([]*models.UserProgress, error) {
	var progress []*models.UserProgress
	err := r.db.NewSelect().
		Model(&progress).
		Where("user_id = ?", userID).
		Where("is_completed = ?", true).
		Order("quest_id ASC").
		Scan(ctx)

	return progress, err
}

func (r *progressRepository) Create(ctx context.Context, progress *models.UserProgress) error {
	now := time.Now()
	progress.CreatedAt = now
	progress.UpdatedAt = now
	_, err := r.db.NewInsert().Model(progress).Exec(ctx)
	return err
}

// ApplyOutcome merges a submission outcome into the attempt record inside a
// single transaction, taking a row lock so concurrent submissions for the
// same pair are serialized. The merge never moves a record backward:
// attempts always increment, score and hints_used only grow, and the
// completed flag latches. A record that is already completed is returned
// untouched.
//
// The second return value reports whether this call performed the
// incomplete -> completed transition; the caller awards points exactly once,
// on that transition.
func (r *progressRepository) ApplyOutcome(ctx context.Context, outcome AttemptOutcome) (*models.UserProgress, bool, error) {
	var merged *models.UserProgress
	var transitioned bool

	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		progress := new(models.UserProgress)
		err := tx.NewSelect().
			Model(progress).
			Where("user_id = ? AND quest_id = ?", outcome.UserID, outcome.QuestID).
			For("UPDATE").
			Scan(ctx)

		now := time.Now()

		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}

			progress = &models.UserProgress{
				UserID:    outcome.UserID,
				QuestID:   outcome.QuestID,
				Score:     outcome.Score,
				Attempts:  1,
				HintsUsed: outcome.HintsUsed,
				TimeSpent: outcome.TimeSpent,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if outcome.IsCorrect {
				progress.IsCompleted = true
				progress.CompletedAt = &now
				transitioned = true
			}

			if _, err := tx.NewInsert().Model(progress).Exec(ctx); err != nil {
				return fmt.Errorf("failed to create progress record: %w", err)
			}
			merged = progress
			return nil
		}

		if progress.IsCompleted {
			// No rescoring after completion
			merged = progress
			return nil
		}

		progress.Attempts++
		if outcome.Score > progress.Score {
			progress.Score = outcome.Score
		}
		if outcome.HintsUsed > progress.HintsUsed {
			progress.HintsUsed = outcome.HintsUsed
		}
		if outcome.TimeSpent > 0 {
			progress.TimeSpent = outcome.TimeSpent
		}
		if outcome.IsCorrect {
			progress.IsCompleted = true
			progress.CompletedAt = &now
			transitioned = true
		}
		progress.UpdatedAt = now

		if _, err := tx.NewUpdate().Model(progress).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("failed to update progress record: %w", err)
		}
		merged = progress
		return nil
	})

	if err != nil {
		slog.Error("Failed to apply attempt outcome",
			slog.String("type", "db"),
			slog.Int64("user_id", outcome.UserID),
			slog.Int64("quest_id", outcome.QuestID),
			slog.Any("error", err))
		return nil, false, err
	}

	return merged, transitioned, nil
}
