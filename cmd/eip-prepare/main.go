// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the eip-prepare CLI, which unpacks
// Capture One session archives so COPE can read them.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd prepares every archive in --source.
var rootCmd = &cobra.Command{
	Use:   "eip-prepare",
	Short: "Extract EIP archives and make their settings readable by COPE",
	Long: `eip-prepare extracts every .eip archive found directly in the source
directory into <target>/<archive name>, renames CaptureOne/Settings153 to
CaptureOne/Settings131 when present, and moves the archive into the sibling raw
directory. The source directory name must end in "_master"; for
"shoot_master" the raw directory is "shoot_raw".

The first failure stops the run. Archives moved before it stay moved.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runPrepare,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
