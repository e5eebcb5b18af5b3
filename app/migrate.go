package app

import (
	"github.com/spf13/cobra"

	"github.com/usermgmt-go/usermgmt/internal/daemon"
	"github.com/usermgmt-go/usermgmt/internal/logger"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and install the default groups and permissions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err = logger.Init(cfg.Log); err != nil {
			return err //nolint:wrapcheck
		}

		return daemon.Migrate(cmd.Context(), &cfg) //nolint:wrapcheck
	},
}
