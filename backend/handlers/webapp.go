package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/vimmasterbot/vimmaster/vimmaster/auth"
	dbmodels "github.com/vimmasterbot/vimmaster/vimmaster/database/models"
	"github.com/vimmasterbot/vimmaster/vimmaster/services"
)

// initDataHeader carries the raw Telegram WebApp init data on every
// authenticated request.
const initDataHeader = "X-Telegram-Init-Data"

var ErrNoInitData = errors.New("missing telegram init data")

// WebApp wires the HTTP handlers to the game services.
type WebApp struct {
	Validator     *auth.Validator
	UserService   *services.UserService
	QuestService  *services.QuestService
	GameService   *services.GameService
	SearchService *services.SearchService
	Version       string
}

// Authenticate validates the request's init data and resolves it to a player
// account, creating one on first contact.
func (app *WebApp) Authenticate(c *fiber.Ctx) (*dbmodels.User, error) {
	initData := c.Get(initDataHeader)
	if initData == "" {
		// WebApp clients may also send "Authorization: tma <init-data>"
		authz := c.Get(fiber.HeaderAuthorization)
		if rest, ok := strings.CutPrefix(authz, "tma "); ok {
			initData = rest
		}
	}
	if initData == "" {
		return nil, ErrNoInitData
	}

	claim, err := app.Validator.ValidateInitData(initData)
	if err != nil {
		return nil, err
	}

	return app.UserService.GetOrCreateUser(c.Context(), claim)
}
