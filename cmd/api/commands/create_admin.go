package commands

import (
	"Folio/internal/api/config"
	"Folio/internal/api/dto"
	"Folio/internal/pkg/util"
	"Folio/internal/wire"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

// createAdminCmd 角色只能通过命令行授予
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin user or promote an existing one",
	Long: `Create an admin account. If a user with the given email already exists,
that user is promoted to admin and the password flag is ignored.

Examples:
  folio create-admin --username root --email root@example.com --password s3cret!`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &dto.RegisterDTO{
			Username: adminUsername,
			Email:    adminEmail,
			Password: adminPassword,
		}
		if err := util.ValidateDTO(req); err != nil {
			return fmt.Errorf("invalid admin account: %w", err)
		}

		db, err := openDB(config.Cfg.DB.AutoMigrate)
		if err != nil {
			return err
		}
		services := wire.BuildServices(db, config.Cfg, wire.Infra{})
		user, err := services.User.CreateAdmin(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin ready: id=%d username=%s email=%s\n", user.ID, user.Username, user.Email)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Admin username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password")
	_ = createAdminCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(createAdminCmd)
}
