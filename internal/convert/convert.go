// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives batch conversion of raw image packages to TIFF.
//
// Each package lives in its own subdirectory of the source root. A package is
// converted by the external COPE executable, the TIFF is verified to exist,
// and only then is the package subdirectory removed. The first failure halts
// the batch; packages converted before it stay converted and removed.
package convert

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/pdiddy/cope-pipeline/internal/cope"
	"github.com/pdiddy/cope-pipeline/internal/report"
	"github.com/pdiddy/cope-pipeline/pkg/types"
)

const (
	// packagePattern matches *.IIQ one directory below the root, in any case.
	packagePattern = "*/*.[iI][iI][qQ]"
	// outputExt is the extension of the files COPE writes.
	outputExt = ".tif"
)

var (
	// ErrSourceMissing is returned when the source root is not a directory.
	ErrSourceMissing = errors.Base("source directory does not exist")
	// ErrOutputMissing is returned when COPE returned but left no TIFF behind.
	ErrOutputMissing = errors.Base("tiff file expected but not found")
	// ErrPackageMissing is returned when a discovered package file or its
	// subdirectory disappeared before it could be processed, typically because
	// an earlier package from the same subdirectory was converted.
	ErrPackageMissing = errors.Base("source package no longer exists")
)

// Converter turns the package at input into a TIFF at output. The cope
// package provides the production implementation.
type Converter interface {
	Convert(ctx context.Context, input, output string) error
}

// Discover lists the package files directly inside the immediate
// subdirectories of root, in lexical order. Hidden names are included;
// anything that is not a regular file is skipped.
func Discover(root string) ([]types.Package, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving %s: %w", root, err)
	}
	fsys := os.DirFS(abs)

	matches, err := doublestar.Glob(fsys, packagePattern)
	if err != nil {
		return nil, errors.Errorf("searching %s: %w", abs, err)
	}

	var pkgs []types.Package
	for _, m := range matches {
		dirName := path.Base(path.Dir(m))
		info, err := fs.Stat(fsys, m)
		if err != nil {
			return nil, errors.Errorf("inspecting %s: %w", m, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		pkgs = append(pkgs, types.Package{
			Path: filepath.Join(abs, filepath.FromSlash(m)),
			Dir:  filepath.Join(abs, dirName),
			Name: dirName,
		})
	}
	return pkgs, nil
}

// OutputPath returns where the TIFF for pkg is expected: <target>/<pkg.Name>.tif.
func OutputPath(target string, pkg types.Package) string {
	return filepath.Join(target, pkg.Name+outputExt)
}

// packageDir returns the source subdirectory named after output's base name.
func packageDir(source, output string) string {
	return filepath.Join(source, strings.TrimSuffix(filepath.Base(output), outputExt))
}

// VerifyArtifact checks that a regular file exists at p.
func VerifyArtifact(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.Errorf("%w: %s", ErrOutputMissing, p)
		}
		return errors.Errorf("checking %s: %w", p, err)
	}
	if !info.Mode().IsRegular() {
		return errors.Errorf("%w: %s is not a regular file", ErrOutputMissing, p)
	}
	return nil
}

// ConvertPackage converts one package and, once its TIFF is verified, removes
// the package's subdirectory under source. The exit status of the converter is
// never consulted; only the TIFF on disk counts.
func ConvertPackage(ctx context.Context, c Converter, pkg types.Package, source, target string) types.Outcome {
	log := zerolog.Ctx(ctx)
	out := OutputPath(target, pkg)
	outcome := types.Outcome{Item: pkg.Name, Source: pkg.Path, Output: out, Status: types.OutcomeFailed}

	log.Info().Str("file", pkg.Path).Msg("processing")

	if _, err := os.Stat(pkg.Path); err != nil {
		outcome.Err = errors.Errorf("%w: %s", ErrPackageMissing, pkg.Path)
		log.Error().Err(outcome.Err).Msg("package file is gone")
		return outcome
	}

	if err := c.Convert(ctx, pkg.Path, out); err != nil {
		if errors.Is(err, cope.ErrNotFound) {
			log.Error().Err(err).Msg("cope executable was not found")
		} else {
			log.Error().Err(err).Str("file", pkg.Path).Msg("unexpected error while running cope")
		}
		outcome.Err = err
		return outcome
	}

	if err := VerifyArtifact(out); err != nil {
		log.Error().Err(err).Str("tiff", out).Msg("tiff file expected but not found")
		outcome.Err = err
		return outcome
	}

	dir := packageDir(source, out)
	log.Debug().Str("dir", dir).Msg("removing source package")
	if _, err := os.Stat(dir); err != nil {
		outcome.Err = errors.Errorf("%w: %s", ErrPackageMissing, dir)
		log.Error().Err(outcome.Err).Msg("cleanup failed")
		return outcome
	}
	if err := os.RemoveAll(dir); err != nil {
		outcome.Err = errors.Errorf("removing source package %s: %w", dir, err)
		log.Error().Err(outcome.Err).Msg("cleanup failed")
		return outcome
	}

	outcome.Status = types.OutcomeDone
	return outcome
}

// Run converts every package under cfg.SourceDir into cfg.TargetDir, one at a
// time in discovery order, printing a status line per package to p. It stops
// at the first failed package and returns its error together with the
// outcomes so far. An empty source is not an error.
func Run(ctx context.Context, c Converter, cfg types.ConverterConfig, p *report.Printer) (types.BatchResult, error) {
	log := zerolog.Ctx(ctx)
	var result types.BatchResult

	if info, err := os.Stat(cfg.SourceDir); err != nil || !info.IsDir() {
		log.Error().Str("source", cfg.SourceDir).Msg("source directory does not exist")
		return result, errors.Errorf("%w: %s", ErrSourceMissing, cfg.SourceDir)
	}

	if info, err := os.Stat(cfg.TargetDir); err != nil || !info.IsDir() {
		if err := os.MkdirAll(cfg.TargetDir, 0o755); err != nil {
			return result, errors.Errorf("creating target directory %s: %w", cfg.TargetDir, err)
		}
		log.Info().Str("target", cfg.TargetDir).Msg("target directory created, as it did not exist")
	}

	log.Info().Msg("start processing...")
	pkgs, err := Discover(cfg.SourceDir)
	if err != nil {
		return result, err
	}
	if len(pkgs) == 0 {
		log.Info().Str("source", cfg.SourceDir).Msg("no matching files found in source directory")
		return result, nil
	}

	for _, pkg := range pkgs {
		o := ConvertPackage(ctx, c, pkg, cfg.SourceDir, cfg.TargetDir)
		p.Outcome(o)
		if !result.Record(o) {
			p.Summary(result)
			return result, errors.Errorf("converting %s: %w", pkg.Name, o.Err)
		}
	}
	p.Summary(result)
	return result, nil
}
