package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/infoscreen/infoscreen/internal/db/migrations"
)

func init() { //nolint: gochecknoinits
	migrateCmd.AddCommand(migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

var (
	migrateCmd = &cobra.Command{
		Use:     "migrate",
		Short:   "Apply pending database migrations",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrations.Up(cmd.Context(), cfg.DB) //nolint:wrapcheck
		},
	}

	migrateVersionCmd = &cobra.Command{
		Use:     "version",
		Short:   "Print the applied and the latest embedded migration version",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current, dirty, err := migrations.Version(cmd.Context(), cfg.DB)
			if err != nil {
				return err //nolint:wrapcheck
			}

			latest, err := migrations.Latest(cfg.DB.Driver)
			if err != nil {
				return err //nolint:wrapcheck
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "current: %d (dirty: %t)\nlatest: %d\n", current, dirty, latest)

			return err //nolint:wrapcheck
		},
	}
)
