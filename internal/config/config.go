// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves the batch converter's settings once at startup.
//
// Precedence per key: environment variable, then config file, then the fixed
// default. Empty environment values count as unset.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gitlab.com/tozd/go/errors"

	"github.com/pdiddy/cope-pipeline/internal/cope"
	"github.com/pdiddy/cope-pipeline/pkg/types"
)

const (
	// EnvCopePath overrides the COPE executable path.
	EnvCopePath = "COPE_PATH"
	// EnvLogLevel overrides the log level.
	EnvLogLevel = "COPE_LOGLEVEL"

	// DefaultLogLevel is used when no override is present.
	DefaultLogLevel = "DEBUG"

	configName = "cope-folder"

	keyCopePath = "cope_path"
	keyLogLevel = "log_level"
)

// Load returns the converter configuration. When cfgFile is empty, a
// cope-folder.yaml in the working directory or ~/.config/cope-folder/ is used
// if present. The second return value is the config file that was read, or
// "" when none was.
func Load(cfgFile string) (types.ConverterConfig, string, error) {
	v := viper.New()
	v.SetDefault(keyCopePath, cope.DefaultPath)
	v.SetDefault(keyLogLevel, DefaultLogLevel)
	if err := v.BindEnv(keyCopePath, EnvCopePath); err != nil {
		return types.ConverterConfig{}, "", errors.Errorf("binding %s: %w", EnvCopePath, err)
	}
	if err := v.BindEnv(keyLogLevel, EnvLogLevel); err != nil {
		return types.ConverterConfig{}, "", errors.Errorf("binding %s: %w", EnvLogLevel, err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return types.ConverterConfig{}, "", errors.Errorf("reading config: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	return types.ConverterConfig{
		CopePath: v.GetString(keyCopePath),
		LogLevel: v.GetString(keyLogLevel),
	}, used, nil
}
