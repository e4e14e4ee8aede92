package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/cope-pipeline/internal/eip"
	"github.com/pdiddy/cope-pipeline/internal/logging"
	"github.com/pdiddy/cope-pipeline/internal/report"
	"github.com/pdiddy/cope-pipeline/pkg/types"
)

func init() {
	rootCmd.Flags().StringP("source", "s", "", "Source directory")
	rootCmd.Flags().StringP("target", "t", "", "Target directory")
	rootCmd.Flags().String("report", "", "write a YAML run summary to this file")

	_ = rootCmd.MarkFlagRequired("source")
	_ = rootCmd.MarkFlagRequired("target")
}

func runPrepare(cmd *cobra.Command, args []string) error {
	var cfg types.PreparerConfig
	cfg.SourceDir, _ = cmd.Flags().GetString("source")
	cfg.TargetDir, _ = cmd.Flags().GetString("target")
	reportPath, _ := cmd.Flags().GetString("report")

	log := logging.New(os.Stderr, zerolog.InfoLevel)
	ctx := log.WithContext(cmd.Context())

	printer := report.NewPrinter(cmd.OutOrStdout(), "prepared")
	result, runErr := eip.Run(ctx, cfg, printer)
	if reportPath != "" {
		if err := report.WriteYAML(reportPath, cmd.Root().Name(), result); err != nil {
			log.Error().Err(err).Msg("writing report")
			if runErr == nil {
				return err
			}
		}
	}
	return runErr
}
