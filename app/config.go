package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/infoscreen/infoscreen/internal/config"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Print the effective configuration as JSON",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := config.DumpConfigJSON(cfg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), out)

		return err //nolint:wrapcheck
	},
}
