// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package eip

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Extract unpacks the zip archive at src into dest, creating dest as needed.
// Existing files are overwritten. Members with absolute paths or ".."
// components are skipped so nothing lands outside dest.
func Extract(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return errors.Errorf("opening archive %s: %w", src, err)
	}
	defer r.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return errors.Errorf("creating %s: %w", dest, err)
	}

	for _, f := range r.File {
		name, ok := memberPath(f.Name)
		if !ok {
			continue
		}
		target := filepath.Join(dest, name)

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Errorf("creating %s: %w", target, err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

// memberPath converts a zip member name into a relative OS path, rejecting
// names that would escape the extraction directory.
func memberPath(name string) (string, bool) {
	name = strings.ReplaceAll(name, `\`, "/")
	if name == "" || strings.HasPrefix(name, "/") || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", false
		}
	}
	return filepath.FromSlash(strings.TrimSuffix(name, "/")), true
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Errorf("creating %s: %w", filepath.Dir(target), err)
	}

	rc, err := f.Open()
	if err != nil {
		return errors.Errorf("opening member %s: %w", f.Name, err)
	}
	defer rc.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return errors.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return errors.Errorf("writing %s: %w", target, err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing %s: %w", target, err)
	}
	return nil
}
