package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vimmasterbot/vimmaster/vimmaster/database/models"
	"github.com/vimmasterbot/vimmaster/vimmaster/database/repositories"
	"github.com/vimmasterbot/vimmaster/vimmaster/scoring"
)

// memQuestRepo is an in-memory quest catalog.
type memQuestRepo struct {
	quests   map[int64]*models.Quest
	chapters map[int64]*models.Chapter
}

func newMemQuestRepo() *memQuestRepo {
	return &memQuestRepo{
		quests:   make(map[int64]*models.Quest),
		chapters: make(map[int64]*models.Chapter),
	}
}

func (m *memQuestRepo) GetQuest(_ context.Context, questID int64) (*models.Quest, error) {
	return m.quests[questID], nil
}

func (m *memQuestRepo) GetQuestsByChapter(_ context.Context, chapterID int64) ([]*models.Quest, error) {
	var out []*models.Quest
	for _, q := range m.quests {
		if q.ChapterID == chapterID {
			out = append(out, q)
		}
	}
	sortQuests(out)
	return out, nil
}

func (m *memQuestRepo) GetQuestsByDifficulty(_ context.Context, difficulty string) ([]*models.Quest, error) {
	var out []*models.Quest
	for _, q := range m.quests {
		if q.Difficulty == difficulty {
			out = append(out, q)
		}
	}
	sortQuests(out)
	return out, nil
}

func (m *memQuestRepo) GetAllQuests(_ context.Context) ([]*models.Quest, error) {
	var out []*models.Quest
	for _, q := range m.quests {
		out = append(out, q)
	}
	sortQuests(out)
	return out, nil
}

func (m *memQuestRepo) GetActiveChapters(_ context.Context) ([]*models.Chapter, error) {
	var out []*models.Chapter
	for _, ch := range m.chapters {
		out = append(out, ch)
	}
	return out, nil
}

func sortQuests(quests []*models.Quest) {
	sort.Slice(quests, func(i, j int) bool {
		if quests[i].OrderIndex != quests[j].OrderIndex {
			return quests[i].OrderIndex < quests[j].OrderIndex
		}
		return quests[i].ID < quests[j].ID
	})
}

// memUserRepo is an in-memory account store.
type memUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*models.User), nextID: 1}
}

func (m *memUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = m.nextID
	m.nextID++
	if user.LanguageCode == "" {
		user.LanguageCode = "en"
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) GetByTelegramID(_ context.Context, telegramID int64) (*models.User, error) {
	for _, u := range m.users {
		if u.TelegramID == telegramID {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) Update(_ context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) UpdateLastActivity(_ context.Context, userID int64) error {
	if u, ok := m.users[userID]; ok {
		u.LastActivity = time.Now()
	}
	return nil
}

func (m *memUserRepo) AddScore(_ context.Context, userID int64, delta int) (int, error) {
	u := m.users[userID]
	u.TotalScore += delta
	return u.TotalScore, nil
}

func (m *memUserRepo) SetLevel(_ context.Context, userID int64, level int) error {
	m.users[userID].CurrentLevel = level
	return nil
}

func (m *memUserRepo) GetTotalScore(_ context.Context, userID int64) (int, error) {
	return m.users[userID].TotalScore, nil
}

// memProgressRepo is an in-memory attempt ledger with the same merge
// semantics as the Postgres implementation.
type memProgressRepo struct {
	records map[[2]int64]*models.UserProgress
}

func newMemProgressRepo() *memProgressRepo {
	return &memProgressRepo{records: make(map[[2]int64]*models.UserProgress)}
}

func (m *memProgressRepo) Get(_ context.Context, userID, questID int64) (*models.UserProgress, error) {
	return m.records[[2]int64{userID, questID}], nil
}

func (m *memProgressRepo) GetByUser(_ context.Context, userID int64) ([]*models.UserProgress, error) {
	var out []*models.UserProgress
	for key, p := range m.records {
		if key[0] == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProgressRepo) GetCompleted(_ context.Context, userID int64) ([]*models.UserProgress, error) {
	var out []*models.UserProgress
	for key, p := range m.records {
		if key[0] == userID && p.IsCompleted {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProgressRepo) Create(_ context.Context, progress *models.UserProgress) error {
	m.records[[2]int64{progress.UserID, progress.QuestID}] = progress
	return nil
}

func (m *memProgressRepo) ApplyOutcome(_ context.Context, outcome repositories.AttemptOutcome) (*models.UserProgress, bool, error) {
	key := [2]int64{outcome.UserID, outcome.QuestID}
	now := time.Now()

	progress, ok := m.records[key]
	if !ok {
		progress = &models.UserProgress{
			UserID:    outcome.UserID,
			QuestID:   outcome.QuestID,
			Score:     outcome.Score,
			Attempts:  1,
			HintsUsed: outcome.HintsUsed,
			TimeSpent: outcome.TimeSpent,
		}
		if outcome.IsCorrect {
			progress.IsCompleted = true
			progress.CompletedAt = &now
		}
		m.records[key] = progress
		return progress, outcome.IsCorrect, nil
	}

	if progress.IsCompleted {
		return progress, false, nil
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
		return progress, true, nil
	}
	return progress, false, nil
}

type gameFixture struct {
	questRepo    *memQuestRepo
	userRepo     *memUserRepo
	progressRepo *memProgressRepo
	game         *GameService
	user         *models.User
}

func newGameFixture(t *testing.T) *gameFixture {
	t.Helper()

	questRepo := newMemQuestRepo()
	userRepo := newMemUserRepo()
	progressRepo := newMemProgressRepo()

	calculator := scoring.NewCalculator(scoring.NewDefaultConfig())
	userService := NewUserService(userRepo, calculator)
	questService := NewQuestService(questRepo)
	game := NewGameService(progressRepo, questService, userService, calculator)

	user := &models.User{TelegramID: 1000, FirstName: "Kira", CurrentLevel: 1}
	require.NoError(t, userRepo.Create(context.Background(), user))

	questRepo.quests[1] = &models.Quest{
		ID: 1, ChapterID: 1, Title: "The Dot Command",
		Difficulty: models.DifficultyBeginner, OrderIndex: 1,
		VimCommand: "A!<Esc>", MaxScore: 10, TimeLimit: 60,
		Hints: []string{"Use A to append at end of line", "Press Esc to leave insert mode"},
	}
	questRepo.quests[2] = &models.Quest{
		ID: 2, ChapterID: 1, Title: "Basic Motions",
		Difficulty: models.DifficultyBeginner, OrderIndex: 2,
		VimCommand: "gUU", MaxScore: 15, TimeLimit: 90,
	}
	questRepo.quests[3] = &models.Quest{
		ID: 3, ChapterID: 1, Title: "Search and Replace",
		Difficulty: models.DifficultyBeginner, OrderIndex: 3,
		VimCommand: ":%s/old/new/g", MaxScore: 20, TimeLimit: 120,
	}

	return &gameFixture{
		questRepo:    questRepo,
		userRepo:     userRepo,
		progressRepo: progressRepo,
		game:         game,
		user:         user,
	}
}

func TestStartQuest(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	quest, err := f.game.StartQuest(ctx, f.user, 1)
	require.NoError(t, err)
	assert.Equal(t, "The Dot Command", quest.Title)

	progress, err := f.progressRepo.Get(ctx, f.user.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, 0, progress.Attempts)
	assert.False(t, progress.IsCompleted)

	// Restart keeps the existing record
	_, err = f.game.StartQuest(ctx, f.user, 1)
	require.NoError(t, err)
	again, _ := f.progressRepo.Get(ctx, f.user.ID, 1)
	assert.Same(t, progress, again)

	_, err = f.game.StartQuest(ctx, f.user, 404)
	assert.ErrorIs(t, err, ErrQuestNotFound)
}

func TestSubmitAnswerWrongThenRight(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	_, err := f.game.StartQuest(ctx, f.user, 1)
	require.NoError(t, err)

	wrong, err := f.game.SubmitAnswer(ctx, f.user, 1, "x!<Esc>", 0, 0)
	require.NoError(t, err)
	assert.False(t, wrong.IsCorrect)
	assert.Equal(t, 0, wrong.Score)
	assert.Equal(t, "Incorrect. Try again!", wrong.Message)
	assert.Equal(t, 0, f.user.TotalScore)

	right, err := f.game.SubmitAnswer(ctx, f.user, 1, "A!<Esc>", 0, 0)
	require.NoError(t, err)
	assert.True(t, right.IsCorrect)
	assert.Equal(t, 8, right.Score)
	assert.Equal(t, "Correct! You earned 8 points.", right.Message)
	assert.Equal(t, 8, f.user.TotalScore)

	progress, _ := f.progressRepo.Get(ctx, f.user.ID, 1)
	assert.True(t, progress.IsCompleted)
	assert.Equal(t, 2, progress.Attempts)
	assert.Equal(t, 8, progress.Score)
	assert.NotNil(t, progress.CompletedAt)
}

func TestSubmitAnswerGuards(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	_, err := f.game.SubmitAnswer(ctx, f.user, 404, "dd", 0, 0)
	assert.ErrorIs(t, err, ErrQuestNotFound)

	// Submitting before starting is a game-flow outcome, not an error
	result, err := f.game.SubmitAnswer(ctx, f.user, 1, "dd", 0, 0)
	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, "Quest not started", result.Message)

	// The failed submit must not have created a ledger record
	progress, err := f.progressRepo.Get(ctx, f.user.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, progress)

	_, err = f.game.StartQuest(ctx, f.user, 1)
	require.NoError(t, err)
	_, err = f.game.SubmitAnswer(ctx, f.user, 1, "A!<Esc>", 0, 0)
	require.NoError(t, err)

	// Completed quests cannot be rescored and the total stays put
	result, err = f.game.SubmitAnswer(ctx, f.user, 1, "A!<Esc>", 0, 0)
	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, "Quest already completed", result.Message)
	assert.Equal(t, 10, f.user.TotalScore)

	progress, err = f.progressRepo.Get(ctx, f.user.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Attempts)
}

func TestSubmitAnswerAliasedCommand(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	_, err := f.game.StartQuest(ctx, f.user, 3)
	require.NoError(t, err)

	result, err := f.game.SubmitAnswer(ctx, f.user, 3, ":%substitute/old/new/global", 0, 0)
	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 20, result.Score)
}

func TestSubmitAnswerHintAndTimePenalties(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	_, err := f.game.StartQuest(ctx, f.user, 2)
	require.NoError(t, err)

	// One hint and 50% overtime on a 15 point quest: 15 * 0.9 = 13,
	// then 13 * 0.95 = 12
	result, err := f.game.SubmitAnswer(ctx, f.user, 2, "gUU", 135, 1)
	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 12, result.Score)

	progress, _ := f.progressRepo.Get(ctx, f.user.ID, 2)
	assert.Equal(t, 1, progress.HintsUsed)
	assert.Equal(t, 135, progress.TimeSpent)
}

func TestGetNextRecommendedQuest(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	next, err := f.game.GetNextRecommendedQuest(ctx, f.user.ID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, int64(1), next.ID)

	// Completing a quest out of order still recommends the earliest
	// open one
	_, err = f.game.StartQuest(ctx, f.user, 2)
	require.NoError(t, err)
	_, err = f.game.SubmitAnswer(ctx, f.user, 2, "gUU", 0, 0)
	require.NoError(t, err)

	next, err = f.game.GetNextRecommendedQuest(ctx, f.user.ID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, int64(1), next.ID)

	for _, quest := range []struct {
		id     int64
		answer string
	}{{1, "A!<Esc>"}, {3, ":%s/old/new/g"}} {
		_, err = f.game.StartQuest(ctx, f.user, quest.id)
		require.NoError(t, err)
		_, err = f.game.SubmitAnswer(ctx, f.user, quest.id, quest.answer, 0, 0)
		require.NoError(t, err)
	}

	next, err = f.game.GetNextRecommendedQuest(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestGetQuestHint(t *testing.T) {
	f := newGameFixture(t)

	quest := f.questRepo.quests[1]

	hint, ok := f.game.GetQuestHint(quest, 0)
	assert.True(t, ok)
	assert.Equal(t, "Use A to append at end of line", hint)

	hint, ok = f.game.GetQuestHint(quest, 1)
	assert.True(t, ok)
	assert.Equal(t, "Press Esc to leave insert mode", hint)

	_, ok = f.game.GetQuestHint(quest, 2)
	assert.False(t, ok)

	_, ok = f.game.GetQuestHint(f.questRepo.quests[2], 0)
	assert.False(t, ok)
}

func TestGetUserProgressSummary(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	// Quest 1 completed in two attempts, quest 2 still open after one miss
	_, err := f.game.StartQuest(ctx, f.user, 1)
	require.NoError(t, err)
	_, err = f.game.SubmitAnswer(ctx, f.user, 1, "nope", 0, 0)
	require.NoError(t, err)
	_, err = f.game.SubmitAnswer(ctx, f.user, 1, "A!<Esc>", 0, 0)
	require.NoError(t, err)

	_, err = f.game.StartQuest(ctx, f.user, 2)
	require.NoError(t, err)
	_, err = f.game.SubmitAnswer(ctx, f.user, 2, "nope", 0, 0)
	require.NoError(t, err)

	summary, err := f.game.GetUserProgressSummary(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, summary.TotalScore)
	assert.Equal(t, 1, summary.TotalCompleted)
	assert.Equal(t, 3, summary.TotalAttempts)
	assert.InDelta(t, 0.5, summary.CompletionRate, 1e-9)
	assert.InDelta(t, 8.0, summary.AverageScore, 1e-9)
	assert.Equal(t, 1, summary.CurrentLevel)

	// The level in the summary follows the account's cumulative score
	_, err = f.userRepo.AddScore(ctx, f.user.ID, 92)
	require.NoError(t, err)

	summary, err = f.game.GetUserProgressSummary(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.CurrentLevel)
}

func TestUserLevelProgression(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	userService := NewUserService(f.userRepo, scoring.NewCalculator(scoring.NewDefaultConfig()))

	total, level, err := userService.AddScore(ctx, f.user, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, total)
	assert.Equal(t, 1, level)

	total, level, err = userService.AddScore(ctx, f.user, 30)
	require.NoError(t, err)
	assert.Equal(t, 60, total)
	assert.Equal(t, 2, level)
	assert.Equal(t, 2, f.user.CurrentLevel)
}
