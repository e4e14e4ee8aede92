// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package eip prepares Capture One session archives (.eip) for COPE.
//
// Every archive in a "<name>_master" directory is extracted to its own folder
// under the target directory, its CaptureOne/Settings153 folder is renamed to
// Settings131, and the archive itself is moved to the sibling "<name>_raw"
// directory. The first failure aborts the run; archives already moved stay
// where they are.
package eip

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/pdiddy/cope-pipeline/internal/report"
	"github.com/pdiddy/cope-pipeline/pkg/types"
)

const (
	archiveExt   = ".eip"
	masterSuffix = "_master"
	rawSuffix    = "_raw"

	captureOneDir = "CaptureOne"
	settingsOld   = "Settings153"
	settingsNew   = "Settings131"
)

var (
	// ErrSourceMissing is returned when the source is not a directory.
	ErrSourceMissing = errors.Base("source directory does not exist")
	// ErrNoRawDirectory is returned when the source name does not end in
	// "_master", so no raw directory can be derived.
	ErrNoRawDirectory = errors.Base("source directory name does not end in " + masterSuffix)
	// ErrCaptureOneMissing is returned when an extracted archive has no
	// CaptureOne folder.
	ErrCaptureOneMissing = errors.Base("CaptureOne directory does not exist")
)

// RawDir derives the raw sibling of source: ".../shoot_master" becomes
// ".../shoot_raw".
func RawDir(source string) (string, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", source, err)
	}
	name := filepath.Base(abs)
	if !strings.HasSuffix(name, masterSuffix) {
		return "", errors.Errorf("%w: %s", ErrNoRawDirectory, abs)
	}
	return filepath.Join(filepath.Dir(abs), strings.TrimSuffix(name, masterSuffix)+rawSuffix), nil
}

// Scan lists the .eip regular files directly inside source, sorted by name.
// Directories and other entries are ignored.
func Scan(source string) ([]types.Archive, error) {
	entries, err := os.ReadDir(source)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", source, err)
	}

	var archives []types.Archive
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, archiveExt) {
			continue
		}
		p := filepath.Join(source, name)
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		archives = append(archives, types.Archive{
			Path: p,
			Name: name,
			Stem: strings.TrimSuffix(name, filepath.Ext(name)),
		})
	}
	return archives, nil
}

// CaptureOneDir returns the application folder inside an extracted archive.
func CaptureOneDir(extractDir string) (string, error) {
	dir := filepath.Join(extractDir, captureOneDir)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", errors.Errorf("%w: %s", ErrCaptureOneMissing, dir)
	}
	return dir, nil
}

// RenameSettings renames appDir/Settings153 to appDir/Settings131. It reports
// whether a rename happened; a missing Settings153 is not an error.
func RenameSettings(appDir string) (bool, error) {
	oldDir := filepath.Join(appDir, settingsOld)
	info, err := os.Stat(oldDir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Errorf("inspecting %s: %w", oldDir, err)
	}
	if !info.IsDir() {
		return false, nil
	}

	newDir := filepath.Join(appDir, settingsNew)
	if err := os.Rename(oldDir, newDir); err != nil {
		return false, errors.Errorf("renaming %s to %s: %w", oldDir, settingsNew, err)
	}
	return true, nil
}

// Relocate moves the archive into rawDir, keeping its file name, and returns
// the new path.
func Relocate(a types.Archive, rawDir string) (string, error) {
	dest := filepath.Join(rawDir, a.Name)
	if err := os.Rename(a.Path, dest); err != nil {
		return "", errors.Errorf("moving %s to %s: %w", a.Path, rawDir, err)
	}
	return dest, nil
}

// PrepareArchive extracts one archive under target, fixes its settings folder
// and moves it to rawDir.
func PrepareArchive(ctx context.Context, a types.Archive, target, rawDir string) types.Outcome {
	log := zerolog.Ctx(ctx)
	extractDir := filepath.Join(target, a.Stem)
	outcome := types.Outcome{Item: a.Name, Source: a.Path, Output: extractDir, Status: types.OutcomeFailed}

	fail := func(err error) types.Outcome {
		log.Error().Err(err).Msgf("An error occurred while processing file %q", a.Name)
		outcome.Err = err
		return outcome
	}

	log.Info().Str("archive", a.Path).Str("dest", extractDir).Msg("extracting")
	if err := Extract(a.Path, extractDir); err != nil {
		return fail(err)
	}

	appDir, err := CaptureOneDir(extractDir)
	if err != nil {
		return fail(err)
	}

	renamed, err := RenameSettings(appDir)
	if err != nil {
		return fail(err)
	}
	if renamed {
		log.Debug().Str("dir", appDir).Msgf("renamed %s to %s", settingsOld, settingsNew)
	}

	moved, err := Relocate(a, rawDir)
	if err != nil {
		return fail(err)
	}
	log.Debug().Str("archive", moved).Msg("moved original archive")

	outcome.Status = types.OutcomeDone
	return outcome
}

// Run prepares every archive in cfg.SourceDir, one at a time in listing order.
// The source name is validated before anything is created. It stops at the
// first failed archive and returns its error with the outcomes so far.
func Run(ctx context.Context, cfg types.PreparerConfig, p *report.Printer) (types.BatchResult, error) {
	log := zerolog.Ctx(ctx)
	var result types.BatchResult

	if info, err := os.Stat(cfg.SourceDir); err != nil || !info.IsDir() {
		log.Error().Str("source", cfg.SourceDir).Msg("source directory does not exist")
		return result, errors.Errorf("%w: %s", ErrSourceMissing, cfg.SourceDir)
	}

	rawDir, err := RawDir(cfg.SourceDir)
	if err != nil {
		log.Error().Err(err).Msg("cannot derive raw directory")
		return result, err
	}

	for _, dir := range []string{cfg.TargetDir, rawDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return result, errors.Errorf("creating %s: %w", dir, err)
		}
	}

	archives, err := Scan(cfg.SourceDir)
	if err != nil {
		return result, err
	}
	if len(archives) == 0 {
		log.Info().Str("source", cfg.SourceDir).Msg("no archives found in source directory")
		return result, nil
	}

	for _, a := range archives {
		o := PrepareArchive(ctx, a, cfg.TargetDir, rawDir)
		p.Outcome(o)
		if !result.Record(o) {
			p.Summary(result)
			return result, errors.Errorf("processing %s: %w", a.Name, o.Err)
		}
	}
	p.Summary(result)
	return result, nil
}
