package main

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sandevgo/mira/internal/config"
	"github.com/sandevgo/mira/internal/service/setup"
	"github.com/sandevgo/mira/pkg/log"
)

var setupCmd = &cobra.Command{
	Use:           "setup",
	Short:         "Interactive first-run configuration",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		if _, err := setup.RunWizard(); err != nil {
			return err
		}

		// Load the freshly written .env so the summary below reflects it.
		envPath := filepath.Join(config.GetRuntimePath(), ".env")
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", config.GetRuntimePath())
		logger.Info().Msg("Setup complete! You can now run 'mira chat'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
