// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"os"
	"path/filepath"
	"time"

	"gitlab.com/tozd/go/errors"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cope-pipeline/pkg/types"
)

// Entry is one processed item as written to the YAML report.
type Entry struct {
	Item   string              `yaml:"item"`
	Source string              `yaml:"source"`
	Output string              `yaml:"output,omitempty"`
	Status types.OutcomeStatus `yaml:"status"`
	Error  string              `yaml:"error,omitempty"`
}

// Run is the YAML document written by WriteYAML.
type Run struct {
	Tool       string    `yaml:"tool"`
	FinishedAt time.Time `yaml:"finished_at"`
	Processed  []Entry   `yaml:"processed"`
	Failure    *Entry    `yaml:"failure,omitempty"`
}

// NewRun converts a batch result into a report document.
func NewRun(tool string, r types.BatchResult) Run {
	run := Run{
		Tool:       tool,
		FinishedAt: time.Now().UTC(),
		Processed:  make([]Entry, 0, len(r.Done)),
	}
	for _, o := range r.Done {
		run.Processed = append(run.Processed, entryFor(o))
	}
	if r.Failure != nil {
		e := entryFor(*r.Failure)
		run.Failure = &e
	}
	return run
}

func entryFor(o types.Outcome) Entry {
	e := Entry{Item: o.Item, Source: o.Source, Output: o.Output, Status: o.Status}
	if o.Err != nil {
		e.Error = o.Err.Error()
	}
	return e
}

// WriteYAML writes the summary of r to path, creating parent directories.
func WriteYAML(path, tool string, r types.BatchResult) error {
	data, err := yaml.Marshal(NewRun(tool, r))
	if err != nil {
		return errors.Errorf("marshaling report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
