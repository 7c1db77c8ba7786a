package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/infoscreen/infoscreen/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:     "start",
	Short:   "Start the infoscreen web service",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := daemon.New(cmd.Context(), &cfg)
		if err != nil {
			log.Error().Err(err).Msg("startup failed")
			return err //nolint:wrapcheck
		}

		return d.Start() //nolint:wrapcheck
	},
}
