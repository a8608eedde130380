package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/vimmasterbot/vimmaster/backend/handlers"
	"github.com/vimmasterbot/vimmaster/backend/middleware"
	"github.com/vimmasterbot/vimmaster/vimmaster"
	"github.com/vimmasterbot/vimmaster/vimmaster/auth"
	"github.com/vimmasterbot/vimmaster/vimmaster/database"
	"github.com/vimmasterbot/vimmaster/vimmaster/database/repositories"
	"github.com/vimmasterbot/vimmaster/vimmaster/logger"
	"github.com/vimmasterbot/vimmaster/vimmaster/scoring"
	"github.com/vimmasterbot/vimmaster/vimmaster/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd)
	},
}

func runServer(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := vimmaster.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		return err
	}

	customHandler := logger.NewHandler(cfg.Log.Level)
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting VimMaster API",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	slog.Info("Connecting to database...", slog.String("type", "db"))
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Failed to connect to database", slog.Any("error", err))
		return err
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize schema", slog.Any("error", err))
		return err
	}
	slog.Info("Database ready", slog.String("type", "db"))

	userRepo := repositories.NewUserRepository(db.BunDB())
	questRepo := repositories.NewQuestRepository(db.BunDB())
	progressRepo := repositories.NewProgressRepository(db.BunDB())

	calculator := scoring.NewCalculator(scoring.NewDefaultConfig())
	userService := services.NewUserService(userRepo, calculator)
	questService := services.NewQuestService(questRepo)
	gameService := services.NewGameService(progressRepo, questService, userService, calculator)
	searchService := services.NewSearchService(questRepo)

	webApp := &handlers.WebApp{
		Validator:     auth.NewValidator(cfg.Telegram.BotToken),
		UserService:   userService,
		QuestService:  questService,
		GameService:   gameService,
		SearchService: searchService,
		Version:       version,
	}

	app := fiber.New(fiber.Config{
		AppName:      "VimMaster API",
		ServerHeader: "VimMaster",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Web.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Telegram-Init-Data",
	}))
	app.Use(middleware.LoggingMiddleware())

	webApp.RegisterRoutes(app, middleware.AuthRequired(webApp))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Web.Port
		slog.Info("Listening", slog.String("type", "web"), slog.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Server stopped", slog.Any("error", err))
		return err
	case <-s:
	}

	slog.Info("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("Shutdown failed", slog.Any("error", err))
		return err
	}
	return nil
}
