// Package reporter writes the decorations of a rendered document in one of
// several output formats.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/mdlive/internal/ui/pretty"
	"github.com/yaklabco/mdlive/pkg/decoration"
	"github.com/yaklabco/mdlive/pkg/text"
)

// Reporter formats and writes decoration results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of decorations reported and any write errors.
	Report(ctx context.Context, result *Result) (int, error)
}

// Layer is the output of one attached rule.
type Layer struct {
	Rule       string
	Scope      string
	Set        decoration.Set
	Recomputes int
}

// Result is a document together with its decoration layers.
type Result struct {
	Path   string
	Doc    *text.Doc
	Layers []Layer
}

// Rows lays out every layer against the document, ordered by position.
func (r *Result) Rows() []pretty.Row {
	if r == nil || r.Doc == nil {
		return nil
	}
	var rows []pretty.Row
	for _, layer := range r.Layers {
		rows = append(rows, pretty.NewRows(r.Doc, layer.Rule, layer.Set)...)
	}
	pretty.SortRows(rows)
	return rows
}

// Stats tallies the result.
func (r *Result) Stats() pretty.Stats {
	if r == nil {
		return pretty.NewStats(0, nil)
	}
	stats := pretty.NewStats(len(r.Layers), r.Rows())
	for _, layer := range r.Layers {
		stats.Recomputes += layer.Recomputes
	}
	return stats
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatTable
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatTable:
		return NewTableReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatSummary:
		return NewSummaryReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
