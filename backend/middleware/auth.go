package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/vimmasterbot/vimmaster/backend/handlers"
	"github.com/vimmasterbot/vimmaster/backend/utils"
	"github.com/vimmasterbot/vimmaster/vimmaster/auth"
)

// AuthRequired validates the Telegram init data on every request and stores
// the resolved player in the request context.
func AuthRequired(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := webApp.Authenticate(c)
		if err != nil {
			switch {
			case errors.Is(err, handlers.ErrNoInitData):
				return utils.SendUnauthorized(c, "Authentication required")
			case errors.Is(err, auth.ErrAuthExpired):
				return utils.SendUnauthorized(c, "Session expired")
			case errors.Is(err, auth.ErrSignatureMismatch), errors.Is(err, auth.ErrAuthMalformed):
				slog.Warn("Rejected init data",
					slog.String("type", "auth"),
					slog.String("ip", utils.GetIPAddress(c)),
					slog.String("user_agent", utils.GetUserAgent(c)),
					slog.Any("error", err))
				return utils.SendUnauthorized(c, "Invalid authentication data")
			default:
				slog.Error("Authentication failed",
					slog.String("type", "auth"),
					slog.Any("error", err))
				return utils.SendInternalServerError(c, "Authentication failed")
			}
		}

		c.Locals("user", user)

		slog.Debug("Request authenticated",
			slog.String("type", "auth"),
			slog.Int64("telegram_id", user.TelegramID),
			slog.String("username", user.Username))

		return c.Next()
	}
}
