package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/mdlive/internal/ui/pretty"
	"github.com/yaklabco/mdlive/pkg/text"
)

// TextReporter formats results as styled terminal output, one line per
// decoration.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	rows := result.Rows()

	if result != nil && result.Path != "" && len(rows) > 0 {
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(result.Path, len(rows)))
	}

	for _, row := range rows {
		var sourceLine string
		if r.opts.ShowContext {
			sourceLine = getSourceLine(result.Doc, row.Line)
		}
		fmt.Fprint(r.bw, r.styles.FormatRow("", row, r.opts.ShowContext, sourceLine))
	}

	if r.opts.ShowSummary {
		if len(rows) > 0 {
			fmt.Fprintln(r.bw)
		}
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats()))
	}

	return len(rows), nil
}

// getSourceLine returns the content of the 1-based line, or "".
func getSourceLine(doc *text.Doc, lineNum int) string {
	if doc == nil {
		return ""
	}
	line, ok := doc.Line(lineNum)
	if !ok {
		return ""
	}
	return doc.LineText(line)
}
