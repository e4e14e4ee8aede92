// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cope

import (
	"context"
	"io"
	"io/fs"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

// mockExecutor records calls and returns a configured error.
type mockExecutor struct {
	calls [][]string
	err   error
}

func (m *mockExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	m.calls = append(m.calls, append([]string{name}, args...))
	return m.err
}

func TestOptionsArgs(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{name: "bits only", opts: Options{}, want: []string{"-bits=8"}},
		{name: "with resolution", opts: Options{Resolution: 300}, want: []string{"-bits=8", "-resolution=300"}},
		{name: "negative resolution ignored", opts: Options{Resolution: -1}, want: []string{"-bits=8"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.Args())
		})
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantErr  bool
		notFound bool
	}{
		{name: "clean exit"},
		{name: "non-zero exit is ignored", err: &exec.ExitError{}},
		{name: "missing binary on PATH", err: &exec.Error{Name: "COPE.exe", Err: exec.ErrNotFound}, wantErr: true, notFound: true},
		{name: "missing binary at path", err: &fs.PathError{Op: "fork/exec", Path: "/opt/cope", Err: fs.ErrNotExist}, wantErr: true, notFound: true},
		{name: "other launch failure", err: errors.New("permission denied"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockExecutor{err: tt.err}
			r := newRunner("/opt/cope", Options{Resolution: 150}, m)

			err := r.Convert(context.Background(), "/in/roll42/frame.IIQ", "/out/roll42.tif")

			require.Len(t, m.calls, 1)
			assert.Equal(t, []string{"/opt/cope", "/in/roll42/frame.IIQ", "/out/roll42.tif", "-bits=8", "-resolution=150"}, m.calls[0])
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.notFound, errors.Is(err, ErrNotFound), "ErrNotFound match for %v", err)
		})
	}
}

func TestRunnerPath(t *testing.T) {
	r := NewRunner(DefaultPath, Options{})
	assert.Equal(t, DefaultPath, r.Path())
	assert.Equal(t, []string{DefaultPath, "a", "b", "-bits=8"}, r.Command("a", "b"))
}
