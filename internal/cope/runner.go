// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cope runs the external COPE executable that turns a raw image
// package into a TIFF file.
package cope

import (
	"context"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultPath is used when neither COPE_PATH nor a config file names the
	// executable.
	DefaultPath = "C:/cope.Win.13.1.15-name_cope131/COPE/Bin/COPE.exe"

	bitsOption = "-bits=8"
)

// ErrNotFound is returned when the COPE executable cannot be located or
// launched.
var ErrNotFound = errors.Base("cope executable not found")

// Options are the fixed and derived flags passed after the input and output
// paths.
type Options struct {
	// Resolution adds -resolution=N when greater than zero.
	Resolution int
}

// Args returns the option flags in the order COPE expects them.
func (o Options) Args() []string {
	args := []string{bitsOption}
	if o.Resolution > 0 {
		args = append(args, "-resolution="+strconv.Itoa(o.Resolution))
	}
	return args
}

// executor abstracts command execution for testing.
type executor interface {
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Runner invokes COPE once per package. The child's output streams are
// forwarded to the runner's writers.
type Runner struct {
	path   string
	opts   Options
	exec   executor
	stdout io.Writer
	stderr io.Writer
}

// NewRunner creates a runner for the executable at path.
func NewRunner(path string, opts Options) *Runner {
	return newRunner(path, opts, &osExecutor{})
}

func newRunner(path string, opts Options, exec executor) *Runner {
	return &Runner{
		path:   path,
		opts:   opts,
		exec:   exec,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Path returns the executable path the runner launches.
func (r *Runner) Path() string { return r.path }

// Command returns the full argument vector for one conversion, executable
// first.
func (r *Runner) Command(input, output string) []string {
	cmd := []string{r.path, input, output}
	return append(cmd, r.opts.Args()...)
}

// Convert runs COPE on input, asking it to write output. COPE's exit status
// carries no meaning, so a non-zero exit is logged and otherwise ignored; the
// caller must check that output exists. A missing executable yields
// ErrNotFound.
func (r *Runner) Convert(ctx context.Context, input, output string) error {
	log := zerolog.Ctx(ctx)
	command := r.Command(input, output)
	log.Debug().Strs("command", command).Msg("running cope")

	err := r.exec.Run(ctx, command[0], command[1:], r.stdout, r.stderr)
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		log.Warn().Int("exit_code", exitErr.ExitCode()).Str("input", input).Msg("cope exited with non-zero status")
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return errors.Errorf("%w: %s", ErrNotFound, r.path)
	}
	return errors.Errorf("running cope on %s: %w", input, err)
}
