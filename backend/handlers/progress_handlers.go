package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vimmasterbot/vimmaster/backend/models"
	"github.com/vimmasterbot/vimmaster/backend/utils"
)

// HandleGetProgress lists every attempt record of the player.
func (app *WebApp) HandleGetProgress(c *fiber.Ctx) error {
	user, ok := utils.ExtractUser(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	progress, err := app.GameService.GetUserProgress(c.Context(), user.ID)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to load progress")
	}

	return utils.SendSuccess(c, models.NewProgressViews(progress), "")
}

// HandleGetProgressSummary aggregates the player's ledger for the profile
// view.
func (app *WebApp) HandleGetProgressSummary(c *fiber.Ctx) error {
	user, ok := utils.ExtractUser(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	summary, err := app.GameService.GetUserProgressSummary(c.Context(), user.ID)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to load summary")
	}

	return utils.SendSuccess(c, summary, "")
}

// HandleGetCompletedQuests lists the quests the player has completed.
func (app *WebApp) HandleGetCompletedQuests(c *fiber.Ctx) error {
	user, ok := utils.ExtractUser(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	completed, err := app.GameService.GetCompletedQuests(c.Context(), user.ID)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to load completed quests")
	}

	return utils.SendSuccess(c, models.NewProgressViews(completed), "")
}
