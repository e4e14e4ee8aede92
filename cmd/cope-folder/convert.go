package main

import (
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/pdiddy/cope-pipeline/internal/config"
	"github.com/pdiddy/cope-pipeline/internal/convert"
	"github.com/pdiddy/cope-pipeline/internal/cope"
	"github.com/pdiddy/cope-pipeline/internal/logging"
	"github.com/pdiddy/cope-pipeline/internal/report"
)

func init() {
	rootCmd.Flags().StringP("source", "s", "", "directory holding one subdirectory per package")
	rootCmd.Flags().StringP("target", "t", "", "directory receiving the TIFF files (created if missing)")
	rootCmd.Flags().IntP("resolution", "r", 0, "output resolution passed to COPE as -resolution")
	rootCmd.Flags().String("report", "", "write a YAML run summary to this file")

	_ = rootCmd.MarkFlagRequired("source")
	_ = rootCmd.MarkFlagRequired("target")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, used, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg.SourceDir, _ = cmd.Flags().GetString("source")
	cfg.TargetDir, _ = cmd.Flags().GetString("target")
	cfg.Resolution, _ = cmd.Flags().GetInt("resolution")
	reportPath, _ := cmd.Flags().GetString("report")

	if cfg.Resolution < 0 {
		return errors.Errorf("resolution must be positive, got %d", cfg.Resolution)
	}

	log := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	ctx := log.WithContext(cmd.Context())

	if used != "" {
		log.Debug().Str("file", used).Msg("using config file")
	}
	log.Debug().Str("cope", cfg.CopePath).Msg("path to cope")
	log.Debug().Str("source", cfg.SourceDir).Msg("source directory")
	log.Debug().Str("target", cfg.TargetDir).Msg("target directory")
	if cfg.Resolution > 0 {
		log.Debug().Int("resolution", cfg.Resolution).Msg("resolution")
	}

	runner := cope.NewRunner(cfg.CopePath, cope.Options{Resolution: cfg.Resolution})
	printer := report.NewPrinter(cmd.OutOrStdout(), "converted")

	result, runErr := convert.Run(ctx, runner, cfg, printer)
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
