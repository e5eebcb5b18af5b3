// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/usermgmt-go/usermgmt/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "usermgmt",
	Short: "usermgmt manages users, groups and permissions",
	Long: `usermgmt serves a JSON API and a small admin web interface
to manage users and their membership in permission groups.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the configuration directory")
}

var configPath string // Path to the configuration directory

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration and applies the command line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.ReadConfig(configPath)
	if err != nil {
		return cfg, err //nolint:wrapcheck
	}

	if devMode {
		cfg.DevMode = true
	}

	if browseStatic {
		cfg.Webserver.BrowseStatic = true
	}

	return cfg, nil
}
