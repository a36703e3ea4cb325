package commands

import (
	"Folio/internal/api/config"
	"Folio/internal/api/dto"
	"Folio/internal/wire"
	"fmt"

	"github.com/spf13/cobra"
)

var reconcilePostID uint64

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Recompute stored counters from the interaction ledger",
	Long: `Recompute views, likes and commentsCount of posts and the likes of comments
from the ledger tables, writing only the rows that drifted.

Examples:
  folio reconcile              # All posts
  folio reconcile --post 42    # A single post`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(config.Cfg.DB.AutoMigrate)
		if err != nil {
			return err
		}
		services := wire.BuildServices(db, config.Cfg, wire.Infra{})

		var report *dto.ReconcileReportDTO
		if reconcilePostID > 0 {
			report, err = services.Reconcile.ReconcilePost(cmd.Context(), reconcilePostID)
		} else {
			report, err = services.Reconcile.ReconcileAll(cmd.Context())
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "posts scanned: %d, posts fixed: %d, comments fixed: %d\n",
			report.PostsScanned, report.PostsFixed, report.CommentsFixed)
		return nil
	},
}

func init() {
	reconcileCmd.Flags().Uint64Var(&reconcilePostID, "post", 0, "Only reconcile this post id")
	rootCmd.AddCommand(reconcileCmd)
}
