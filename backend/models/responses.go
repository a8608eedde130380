package models

import (
	"time"

	dbmodels "github.com/vimmasterbot/vimmaster/vimmaster/database/models"
)

// APIResponse represents a standard API response structure
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIError represents an API error response
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// NewSuccessResponse creates a successful API response
func NewSuccessResponse(data interface{}, message string) *APIResponse {
	return &APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewErrorResponse creates an error API response
func NewErrorResponse(code, message string, details map[string]string) *APIResponse {
	return &APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now(),
	}
}

// UserProfile is the player view returned by the auth endpoints.
type UserProfile struct {
	ID           int64  `json:"id"`
	TelegramID   int64  `json:"telegram_id"`
	Username     string `json:"username,omitempty"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	LanguageCode string `json:"language_code"`
	TotalScore   int    `json:"total_score"`
	CurrentLevel int    `json:"current_level"`
}

func NewUserProfile(user *dbmodels.User) *UserProfile {
	return &UserProfile{
		ID:           user.ID,
		TelegramID:   user.TelegramID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		LanguageCode: user.LanguageCode,
		TotalScore:   user.TotalScore,
		CurrentLevel: user.CurrentLevel,
	}
}

// QuestView is the quest shape handed to the client. The expected command is
// deliberately not included.
type QuestView struct {
	ID          int64  `json:"id"`
	ChapterID   int64  `json:"chapter_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	QuestType   string `json:"quest_type"`
	Difficulty  string `json:"difficulty"`
	OrderIndex  int    `json:"order_index"`
	InitialText string `json:"initial_text,omitempty"`
	MaxScore    int    `json:"max_score"`
	TimeLimit   int    `json:"time_limit,omitempty"`
	HintCount   int    `json:"hint_count"`
}

func NewQuestView(quest *dbmodels.Quest) *QuestView {
	return &QuestView{
		ID:          quest.ID,
		ChapterID:   quest.ChapterID,
		Title:       quest.Title,
		Description: quest.Description,
		QuestType:   quest.QuestType,
		Difficulty:  quest.Difficulty,
		OrderIndex:  quest.OrderIndex,
		InitialText: quest.InitialText,
		MaxScore:    quest.MaxScore,
		TimeLimit:   quest.TimeLimit,
		HintCount:   len(quest.Hints),
	}
}

func NewQuestViews(quests []*dbmodels.Quest) []*QuestView {
	views := make([]*QuestView, len(quests))
	for i, q := range quests {
		views[i] = NewQuestView(q)
	}
	return views
}

// ChapterView is the chapter shape handed to the client.
type ChapterView struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	OrderIndex  int    `json:"order_index"`
	UnlockScore int    `json:"unlock_score"`
}

func NewChapterView(chapter *dbmodels.Chapter) *ChapterView {
	return &ChapterView{
		ID:          chapter.ID,
		Title:       chapter.Title,
		Description: chapter.Description,
		Difficulty:  chapter.Difficulty,
		OrderIndex:  chapter.OrderIndex,
		UnlockScore: chapter.UnlockScore,
	}
}

// ProgressView is a single attempt record as shown to the client.
type ProgressView struct {
	QuestID     int64      `json:"quest_id"`
	IsCompleted bool       `json:"is_completed"`
	Score       int        `json:"score"`
	Attempts    int        `json:"attempts"`
	HintsUsed   int        `json:"hints_used"`
	TimeSpent   int        `json:"time_spent,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func NewProgressView(p *dbmodels.UserProgress) *ProgressView {
	return &ProgressView{
		QuestID:     p.QuestID,
		IsCompleted: p.IsCompleted,
		Score:       p.Score,
		Attempts:    p.Attempts,
		HintsUsed:   p.HintsUsed,
		TimeSpent:   p.TimeSpent,
		CompletedAt: p.CompletedAt,
	}
}

func NewProgressViews(progress []*dbmodels.UserProgress) []*ProgressView {
	views := make([]*ProgressView, len(progress))
	for i, p := range progress {
		views[i] = NewProgressView(p)
	}
	return views
}

// QuestSubmission is the body of a submit request.
type QuestSubmission struct {
	QuestID   int64  `json:"quest_id"`
	UserInput string `json:"user_input"`
	TimeSpent int    `json:"time_spent,omitempty"`
	HintsUsed int    `json:"hints_used,omitempty"`
}

// QuestResult is the outcome of a submit request.
type QuestResult struct {
	IsCorrect   bool   `json:"is_correct"`
	Score       int    `json:"score"`
	Message     string `json:"message"`
	NextQuestID *int64 `json:"next_quest_id,omitempty"`
}

// HintRequest asks for the hint following the ones already seen.
type HintRequest struct {
	HintsUsed int `json:"hints_used"`
}

// HintResponse carries a hint and how many remain after it.
type HintResponse struct {
	Hint           *string `json:"hint"`
	HintsRemaining int     `json:"hints_remaining"`
}
