package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the public and authenticated API surface.
// authRequired is applied to every route under /api except /api/auth/login.
func (app *WebApp) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/", app.HandleRoot)
	router.Get("/health", app.HandleHealth)

	api := router.Group("/api")
	api.Post("/auth/login", app.HandleLogin)

	// Everything registered below requires a validated init data header
	api.Use(authRequired)
	api.Get("/me", app.HandleMe)

	api.Get("/chapters", app.HandleGetChapters)
	api.Get("/chapters/:chapter_id/quests", app.HandleGetChapterQuests)

	// Fixed paths before the :quest_id wildcard
	api.Get("/quests/recommended", app.HandleGetRecommendedQuest)
	api.Get("/quests/search", app.HandleSearchQuests)
	api.Post("/quests/submit", app.HandleSubmitQuest)
	api.Get("/quests/:quest_id", app.HandleGetQuest)
	api.Post("/quests/:quest_id/start", app.HandleStartQuest)
	api.Post("/quests/:quest_id/hint", app.HandleGetHint)

	api.Get("/progress", app.HandleGetProgress)
	api.Get("/progress/summary", app.HandleGetProgressSummary)
	api.Get("/progress/completed", app.HandleGetCompletedQuests)
}

// HandleRoot identifies the service.
func (app *WebApp) HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    "VimMaster API",
		"version": app.Version,
	})
}

// HandleHealth reports service liveness.
func (app *WebApp) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": app.Version,
	})
}
