package commands

import (
	"Folio/internal/api/config"
	"Folio/internal/pkg/database"
	"Folio/internal/pkg/logger"
	"fmt"
	log "log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var configPath string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Folio - blog backend with per-user interactions and comments",
	Long: `Folio serves a JSON API for posts, views, likes, two-level comment threads
and admin analytics.

Commands:
  serve         - Run the HTTP server (plus Kafka consumer and cron when enabled)
  migrate       - Create or update the database schema
  create-admin  - Create an admin user or promote an existing one
  reconcile     - Recompute stored counters from the interaction ledger`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadConfig(configPath); err != nil {
			return err
		}
		logger.InitLogger(config.Cfg.Logstash)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default ./configs/config.yaml)")
}

// openDB 建立数据库连接，按配置执行迁移
func openDB(migrate bool) (*gorm.DB, error) {
	dbCfg := config.Cfg.DB
	db, err := database.NewGormDB(&dbCfg)
	if err != nil {
		log.Error("Fatal error: failed to create database connection", "err", err)
		return nil, err
	}
	if migrate {
		if err = database.AutoMigrate(db); err != nil {
			log.Error("Fatal error: failed to migrate database", "err", err)
			return nil, err
		}
	}
	return db, nil
}
