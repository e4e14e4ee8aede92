// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Package is a raw image package file found one level below the converter's
// source root.
type Package struct {
	// Path is the absolute path to the package file (e.g. ".../roll42/frame.IIQ").
	Path string `json:"path" yaml:"path"`

	// Dir is the absolute path of the subdirectory holding the package.
	Dir string `json:"dir" yaml:"dir"`

	// Name is the base name of Dir. The conversion output is named after it.
	Name string `json:"name" yaml:"name"`
}

// Archive is a capture archive (.eip, zip format) found directly inside the
// preparer's source directory.
type Archive struct {
	// Path is the absolute path to the archive file.
	Path string `json:"path" yaml:"path"`

	// Name is the archive file name including extension.
	Name string `json:"name" yaml:"name"`

	// Stem is Name without its extension; the extraction folder uses it.
	Stem string `json:"stem" yaml:"stem"`
}

// OutcomeStatus is the result of processing one item of a batch.
type OutcomeStatus string

const (
	OutcomeDone   OutcomeStatus = "done"
	OutcomeFailed OutcomeStatus = "failed"
)

// Outcome records what happened to a single package or archive.
type Outcome struct {
	// Item identifies the processed input (package name or archive file name).
	Item string `json:"item" yaml:"item"`

	// Source is the input path.
	Source string `json:"source" yaml:"source"`

	// Output is the produced artifact: a TIFF path for conversions, the
	// extraction folder for archives.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	Status OutcomeStatus `json:"status" yaml:"status"`

	// Err is set when Status is OutcomeFailed.
	Err error `json:"-" yaml:"-"`
}

// Failed reports whether the outcome stops the batch.
func (o Outcome) Failed() bool {
	return o.Status == OutcomeFailed
}

// BatchResult holds the outcomes of a sequential batch. Processing stops at
// the first failure, so Failure is the last item attempted when set.
type BatchResult struct {
	Done    []Outcome `json:"done" yaml:"done"`
	Failure *Outcome  `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// Total returns the number of items attempted.
func (r BatchResult) Total() int {
	if r.Failure != nil {
		return len(r.Done) + 1
	}
	return len(r.Done)
}

// HasFailures reports whether the batch was halted by a failed item.
func (r BatchResult) HasFailures() bool {
	return r.Failure != nil
}

// Record appends an outcome and reports whether the batch may continue.
func (r *BatchResult) Record(o Outcome) bool {
	if o.Failed() {
		r.Failure = &o
		return false
	}
	r.Done = append(r.Done, o)
	return true
}
