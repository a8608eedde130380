package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vimmasterbot/vimmaster/vimmaster"
	"github.com/vimmasterbot/vimmaster/vimmaster/database"
	"github.com/vimmasterbot/vimmaster/vimmaster/logger"
	"github.com/vimmasterbot/vimmaster/vimmaster/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import users and progress from the legacy MongoDB deployment",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		configPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		mongoURI, _ := cmd.Flags().GetString("mongo-uri")
		mongoDB, _ := cmd.Flags().GetString("mongo-db")
		batchSize, _ := cmd.Flags().GetInt("batch-size")

		cfg, err := vimmaster.LoadConfig(configPath)
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))

		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			slog.Error("Failed to connect to database", slog.Any("error", err))
			return err
		}
		defer db.Close()

		if err := db.InitializeSchema(ctx); err != nil {
			return err
		}

		migrator := migration.NewMigrator(db.BunDB(), dataDir)
		migrator.SetBatchSize(batchSize)

		if mongoURI != "" {
			if err := migrator.ConnectMongo(ctx, mongoURI, mongoDB); err != nil {
				return err
			}
		}

		if err := migrator.Run(ctx); err != nil {
			slog.Error("Migration failed", slog.Any("error", err))
			return err
		}

		slog.Info("Migration completed successfully")
		return nil
	},
}

func init() {
	migrateCmd.Flags().String("data-dir", "data", "Directory holding mongodump .bson files")
	migrateCmd.Flags().String("mongo-uri", "", "Read directly from a live MongoDB instead of dump files")
	migrateCmd.Flags().String("mongo-db", "vimmaster", "Legacy MongoDB database name")
	migrateCmd.Flags().Int("batch-size", 1000, "Insert batch size")
}
