package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/vimmasterbot/vimmaster/backend/models"
	"github.com/vimmasterbot/vimmaster/backend/utils"
	"github.com/vimmasterbot/vimmaster/vimmaster/auth"
)

type loginRequest struct {
	InitData string `json:"init_data"`
}

// HandleLogin validates Telegram WebApp init data and returns the player
// profile, registering the player on first login.
func (app *WebApp) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}
	if req.InitData == "" {
		return utils.SendBadRequest(c, "init_data is required", nil)
	}

	claim, err := app.Validator.ValidateInitData(req.InitData)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAuthExpired):
			return utils.SendUnauthorized(c, "Session expired")
		default:
			slog.Warn("Login rejected",
				slog.String("type", "auth"),
				slog.String("ip", utils.GetIPAddress(c)),
				slog.Any("error", err))
			return utils.SendUnauthorized(c, "Invalid authentication data")
		}
	}

	user, err := app.UserService.GetOrCreateUser(c.Context(), claim)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to resolve user")
	}

	return utils.SendSuccess(c, models.NewUserProfile(user), "Login successful")
}

// HandleMe returns the authenticated player's profile.
func (app *WebApp) HandleMe(c *fiber.Ctx) error {
	user, ok := utils.ExtractUser(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	return utils.SendSuccess(c, models.NewUserProfile(user), "")
}
