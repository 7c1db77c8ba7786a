// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/infoscreen/infoscreen/internal/config"
	"github.com/infoscreen/infoscreen/internal/logger"
)

var (
	configPath string // directory holding main.toml
	devMode    bool
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "infoscreen",
	Short: "Infoscreen serves the display settings of an info screen",
	Long: `Infoscreen is a small HTTP backend keeping the display settings of an info screen
(dark mode, slide interval) in a database and serving them to the screen client.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory containing main.toml")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "Enable dev mode")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config and initializes the logger from it.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err //nolint:wrapcheck
	}

	if devMode {
		cfg.DevMode = true
		cfg.Log.Level = "debug"
		cfg.Log.Console.UseConsoleWriter = true
	}

	return logger.Init(cfg.Log) //nolint:wrapcheck
}
