// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	"github.com/NiceSpeak/nicespeak-admin/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "nicespeak-admin",
	Short: "NiceSpeak Admin is the back office API of NiceSpeak",
	Long: `NiceSpeak Admin serves the administration API of NiceSpeak: admin accounts,
roles, permissions, menus, customers, scenarios, subscriptions, system parameters and audit logs.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

var (
	configPath string // Path to the configuration directory
	devMode    bool

	cfg config.Config
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "Directory holding main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration and initialises the logger.
func loadConfig() error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	if devMode {
		cfg.DevMode = true
	}

	return logger.Init(cfg.Log)
}
