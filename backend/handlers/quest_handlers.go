package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/vimmasterbot/vimmaster/backend/models"
	"github.com/vimmasterbot/vimmaster/backend/utils"
	"github.com/vimmasterbot/vimmaster/vimmaster/services"
)

const searchResultLimit = 10

// HandleGetChapters lists the active chapters in catalog order.
func (app *WebApp) HandleGetChapters(c *fiber.Ctx) error {
	chapters, err := app.QuestService.GetAvailableChapters(c.Context())
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to load chapters")
	}

	views := make([]*models.ChapterView, len(chapters))
	for i, ch := range chapters {
		views[i] = models.NewChapterView(ch)
	}
	return utils.SendSuccess(c, views, "")
}

// HandleGetChapterQuests lists the quests of one chapter in catalog order.
func (app *WebApp) HandleGetChapterQuests(c *fiber.Ctx) error {
	chapterID, err := c.ParamsInt("chapter_id")
	if err != nil {
		return utils.SendBadRequest(c, "Invalid chapter id", nil)
	}

	quests, err := app.QuestService.GetChapterQuests(c.Context(), int64(chapterID))
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to load quests")
	}

	return utils.SendSuccess(c, models.NewQuestViews(quests), "")
}

// HandleGetQuest returns a single quest by id.
func (app *WebApp) HandleGetQuest(c *fiber.Ctx) error {
	questID, err := c.ParamsInt("quest_id")
	if err != nil {
		return utils.SendBadRequest(c, "Invalid quest id", nil)
	}

	quest, err := app.QuestService.GetQuestByID(c.Context(), int64(questID))
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to load quest")
	}
	if quest == nil {
		return utils.SendNotFound(c, "Quest not found")
	}

	return utils.SendSuccess(c, models.NewQuestView(quest), "")
}

// HandleStartQuest opens a quest for the player. Starting the same quest
// again has no effect.
func (app *WebApp) HandleStartQuest(c *fiber.Ctx) error {
	user, ok := utils.ExtractUser(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	questID, err := c.ParamsInt("quest_id")
	if err != nil {
		return utils.SendBadRequest(c, "Invalid quest id", nil)
	}

	quest, err := app.GameService.StartQuest(c.Context(), user, int64(questID))
	if err != nil {
		if errors.Is(err, services.ErrQuestNotFound) {
			return utils.SendNotFound(c, "Quest not found")
		}
		return utils.SendInternalServerError(c, "Failed to start quest")
	}

	return utils.SendSuccess(c, models.NewQuestView(quest), "Quest started")
}

// HandleSubmitQuest scores an answer submission. On a correct answer the
// response also carries the id of the next recommended quest.
func (app *WebApp) HandleSubmitQuest(c *fiber.Ctx) error {
	user, ok := utils.ExtractUser(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	var submission models.QuestSubmission
	if err := c.BodyParser(&submission); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}

	result, err := app.GameService.SubmitAnswer(
		c.Context(),
		user,
		submission.QuestID,
		submission.UserInput,
		submission.TimeSpent,
		submission.HintsUsed,
	)
	if err != nil {
		if errors.Is(err, services.ErrQuestNotFound) {
			return utils.SendNotFound(c, "Quest not found")
		}
		return utils.SendInternalServerError(c, "Failed to submit answer")
	}

	questResult := &models.QuestResult{
		IsCorrect: result.IsCorrect,
		Score:     result.Score,
		Message:   result.Message,
	}

	if result.IsCorrect {
		next, err := app.GameService.GetNextRecommendedQuest(c.Context(), user.ID)
		if err == nil && next != nil {
			questResult.NextQuestID = &next.ID
		}
	}

	return utils.SendSuccess(c, questResult, "")
}

// HandleGetHint reveals the next hint for a quest.
func (app *WebApp) HandleGetHint(c *fiber.Ctx) error {
	if _, ok := utils.ExtractUser(c); !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	questID, err := c.ParamsInt("quest_id")
	if err != nil {
		return utils.SendBadRequest(c, "Invalid quest id", nil)
	}

	var req models.HintRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}

	quest, err := app.QuestService.GetQuestByID(c.Context(), int64(questID))
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to load quest")
	}
	if quest == nil {
		return utils.SendNotFound(c, "Quest not found")
	}

	response := &models.HintResponse{}
	if hint, ok := app.GameService.GetQuestHint(quest, req.HintsUsed); ok {
		response.Hint = &hint
	}
	if remaining := len(quest.Hints) - req.HintsUsed - 1; remaining > 0 {
		response.HintsRemaining = remaining
	}

	return utils.SendSuccess(c, response, "")
}

// HandleGetRecommendedQuest returns the next quest the player should try.
func (app *WebApp) HandleGetRecommendedQuest(c *fiber.Ctx) error {
	user, ok := utils.ExtractUser(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	quest, err := app.GameService.GetNextRecommendedQuest(c.Context(), user.ID)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to load recommendation")
	}
	if quest == nil {
		return utils.SendNotFound(c, "No recommended quest found")
	}

	return utils.SendSuccess(c, models.NewQuestView(quest), "")
}

// HandleSearchQuests finds quests by approximate title or command match.
func (app *WebApp) HandleSearchQuests(c *fiber.Ctx) error {
	if _, ok := utils.ExtractUser(c); !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	query := c.Query("q")
	if query == "" {
		return utils.SendBadRequest(c, "Query parameter q is required", nil)
	}

	quests, err := app.SearchService.SearchQuests(c.Context(), query, searchResultLimit)
	if err != nil {
		return utils.SendInternalServerError(c, "Search failed")
	}

	return utils.SendSuccess(c, models.NewQuestViews(quests), "")
}
