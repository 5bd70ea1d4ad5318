package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/mdlive/internal/ui/pretty"
)

// SummaryReporter prints aggregate counts only.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	stats := result.Stats()

	if result != nil && result.Path != "" {
		fmt.Fprintln(r.bw, r.styles.FilePath.Render(result.Path))
	}
	if r.opts.Compact {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(stats))
	} else {
		fmt.Fprint(r.bw, r.styles.FormatSummary(stats))
	}

	return stats.Decorations, nil
}
