// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the cope-folder CLI, which converts
// IIQ packages to TIFF with the COPE executable.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd converts every package below --source into --target.
var rootCmd = &cobra.Command{
	Use:   "cope-folder",
	Short: "Convert IIQ packages to TIFF with COPE",
	Long: `cope-folder looks for *.IIQ files in the immediate subdirectories of the
source directory and runs COPE once per file, writing <subdirectory>.tif into
the target directory. COPE's exit status is not trusted: a package counts as
converted only when its TIFF exists, after which its subdirectory is removed.

The first failure stops the run. Packages converted before it stay converted.

Environment:
  COPE_PATH       path to the COPE executable
  COPE_LOGLEVEL   DEBUG, INFO, WARNING, ERROR or CRITICAL (default DEBUG)`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runConvert,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./cope-folder.yaml or ~/.config/cope-folder/cope-folder.yaml)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
