// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cope-pipeline/internal/cope"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cope-folder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		file      string
		wantPath  string
		wantLevel string
	}{
		{
			name:      "defaults",
			wantPath:  cope.DefaultPath,
			wantLevel: DefaultLogLevel,
		},
		{
			name:      "environment overrides defaults",
			env:       map[string]string{EnvCopePath: "/opt/cope/COPE", EnvLogLevel: "info"},
			wantPath:  "/opt/cope/COPE",
			wantLevel: "info",
		},
		{
			name:      "empty environment values are ignored",
			env:       map[string]string{EnvCopePath: "", EnvLogLevel: ""},
			wantPath:  cope.DefaultPath,
			wantLevel: DefaultLogLevel,
		},
		{
			name:      "config file overrides defaults",
			file:      "cope_path: /srv/cope\nlog_level: warning\n",
			wantPath:  "/srv/cope",
			wantLevel: "warning",
		},
		{
			name:      "environment wins over config file",
			env:       map[string]string{EnvCopePath: "/env/cope"},
			file:      "cope_path: /srv/cope\n",
			wantPath:  "/env/cope",
			wantLevel: DefaultLogLevel,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvCopePath, "")
			t.Setenv(EnvLogLevel, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfgFile := ""
			if tt.file != "" {
				cfgFile = writeConfig(t, tt.file)
			}
			// Keep the search path away from any real cope-folder.yaml.
			t.Setenv("HOME", t.TempDir())
			testChdir(t, t.TempDir())

			cfg, used, err := Load(cfgFile)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, cfg.CopePath)
			assert.Equal(t, tt.wantLevel, cfg.LogLevel)
			assert.Equal(t, cfgFile, used)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

// testChdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
