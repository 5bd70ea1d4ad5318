package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/yaklabco/mdlive/internal/ui/pretty"
)

// defaultTermWidth is used when terminal width cannot be determined.
const defaultTermWidth = 100

// TableReporter formats results as a styled table with kind-colored rows.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)

	termWidth := opts.TermWidth
	if termWidth <= 0 {
		termWidth = getTerminalWidth(opts.Writer)
	}

	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, colorEnabled, termWidth),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	rows := result.Rows()

	if len(rows) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats()))
		}
		return 0, nil
	}

	if result.Path != "" {
		fmt.Fprint(r.bw, r.formatter.FormatFileTable(result.Path, rows))
	} else {
		fmt.Fprint(r.bw, r.formatter.FormatTable(rows))
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw)
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats()))
	}

	return len(rows), nil
}

// getTerminalWidth attempts to get the terminal width from the writer.
func getTerminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
