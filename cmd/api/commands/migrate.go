package commands

import (
	log "log/slog"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := openDB(true); err != nil {
			return err
		}
		log.Info("Database migrated successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
