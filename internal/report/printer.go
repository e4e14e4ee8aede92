// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report prints per-item status lines and writes run summaries.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/pdiddy/cope-pipeline/pkg/types"
)

// Printer writes one status line per processed item, e.g.
// "converted: roll42 -> out/roll42.tif".
type Printer struct {
	w    io.Writer
	verb string
}

// NewPrinter returns a printer that labels successful items with verb
// ("converted", "prepared").
func NewPrinter(w io.Writer, verb string) *Printer {
	return &Printer{w: w, verb: verb}
}

// Outcome prints the status line for o.
func (p *Printer) Outcome(o types.Outcome) {
	if o.Failed() {
		reason := "unknown error"
		if o.Err != nil {
			reason = o.Err.Error()
		}
		fmt.Fprintf(p.w, "%s %s (%s)\n", color.New(color.FgRed).Sprint("failed:"), o.Item, reason)
		return
	}
	label := color.New(color.FgGreen).Sprint(p.verb + ":")
	if o.Output == "" {
		fmt.Fprintf(p.w, "%s %s\n", label, o.Item)
		return
	}
	fmt.Fprintf(p.w, "%s %s -> %s\n", label, o.Item, o.Output)
}

// Summary prints the closing line of a batch.
func (p *Printer) Summary(r types.BatchResult) {
	failed := 0
	c := color.New(color.FgGreen)
	if r.HasFailures() {
		failed = 1
		c = color.New(color.FgRed)
	}
	fmt.Fprintf(p.w, "\n%s\n", c.Sprintf("Batch summary: %d %s, %d failed (total: %d)",
		len(r.Done), p.verb, failed, r.Total()))
}
