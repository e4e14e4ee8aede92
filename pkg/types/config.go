package types

// ConverterConfig holds settings for the batch converter (cope-folder).
type ConverterConfig struct {
	// CopePath is the path to the COPE executable. Overridden by COPE_PATH.
	CopePath string `json:"cope_path" yaml:"cope_path"`

	// LogLevel is the minimum log level name (default "DEBUG"). Overridden by
	// COPE_LOGLEVEL.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// SourceDir contains one subdirectory per package.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// TargetDir receives the TIFF outputs. Created when missing.
	TargetDir string `json:"target_dir" yaml:"target_dir"`

	// Resolution is passed to COPE as -resolution=N when greater than zero.
	Resolution int `json:"resolution,omitempty" yaml:"resolution,omitempty"`
}

// PreparerConfig holds settings for the archive preparer (eip-prepare).
type PreparerConfig struct {
	// SourceDir holds the .eip archives. Its name must end in "_master".
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// TargetDir receives one extraction folder per archive.
	TargetDir string `json:"target_dir" yaml:"target_dir"`
}
