package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vimmaster",
	Short: "VimMaster quest API server",
	Long:  "VimMaster is the backend for the Telegram game that teaches Vim through quests.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "config.toml", "Path to the TOML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
