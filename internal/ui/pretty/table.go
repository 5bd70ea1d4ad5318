package pretty

import (
	"fmt"
	"strings"
)

// Table formatting constants.
const (
	blockSymbol      = "*"
	tablePadding     = 2
	tableColumnCount = 5 // LOC, RANGE, KIND, DETAIL, RULE
	minLocWidth      = 8
	minSpanWidth     = 10
	minKindWidth     = 8
	minDetailWidth   = 30
	minRuleWidth     = 8
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// TableFormatter formats decoration rows as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

type columnWidths struct {
	loc    int
	span   int
	kind   int
	detail int
	rule   int
}

// FormatTable formats rows as a table. Rows on different lines are
// separated by a light rule.
func (t *TableFormatter) FormatTable(rows []Row) string {
	if len(rows) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder

	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")

	for i, row := range rows {
		if i > 0 && rows[i-1].Line != row.Line {
			builder.WriteString(t.formatSeparator(widths, lightSeparator))
			builder.WriteString("\n")
		}
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")

	builder.WriteString(t.formatLegend())
	builder.WriteString("\n")

	return builder.String()
}

// FormatFileTable formats a file's rows under a file header.
func (t *TableFormatter) FormatFileTable(path string, rows []Row) string {
	if len(rows) == 0 {
		return ""
	}
	header := t.styles.FormatFileHeader(truncateFilePath(path, t.termWidth/2), len(rows))
	return header + "\n" + t.FormatTable(rows)
}

// calculateColumnWidths determines column widths from content, shrinking
// the detail column to fit the terminal.
func (t *TableFormatter) calculateColumnWidths(rows []Row) columnWidths {
	widths := columnWidths{
		loc:    minLocWidth,
		span:   minSpanWidth,
		kind:   minKindWidth,
		detail: minDetailWidth,
		rule:   minRuleWidth,
	}

	for _, row := range rows {
		widths.loc = max(widths.loc, len(row.Location()))
		widths.span = max(widths.span, len(row.Span()))
		widths.kind = max(widths.kind, len(row.KindLabel()))
		widths.detail = max(widths.detail, len(row.Detail))
		widths.rule = max(widths.rule, len(row.Rule))
	}

	if total := t.calculateTotalWidth(widths); total > t.termWidth {
		widths.detail = max(minDetailWidth, widths.detail-(total-t.termWidth))
	}

	return widths
}

// calculateTotalWidth calculates the total table width from column widths.
func (t *TableFormatter) calculateTotalWidth(widths columnWidths) int {
	return widths.loc + widths.span + widths.kind + widths.detail + widths.rule +
		tablePadding*tableColumnCount
}

// formatHeader formats the table header row.
func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s  %-*s ",
		widths.loc, "LOC",
		widths.span, "RANGE",
		widths.kind, "KIND",
		widths.detail, "DETAIL",
		widths.rule, "RULE",
	)
	return t.styles.TableHeader.Render(header)
}

// formatSeparator formats a separator line.
func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, t.calculateTotalWidth(widths)))
}

// formatRow formats a single table row with kind-based styling.
func (t *TableFormatter) formatRow(row Row, widths columnWidths) string {
	kind := fmt.Sprintf("%-*s", widths.kind, row.KindLabel())
	if row.Block {
		kind = t.styles.TableBlock.Render(kind)
	} else {
		kind = t.styles.KindStyle(row.Kind).Render(kind)
	}

	return fmt.Sprintf(" %-*s  %-*s  %s  %-*s  %-*s ",
		widths.loc, row.Location(),
		widths.span, row.Span(),
		kind,
		widths.detail, truncateString(row.Detail, widths.detail),
		widths.rule, truncateString(row.Rule, widths.rule),
	)
}

// formatLegend formats the legend explaining the table symbols and colors.
func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(
			fmt.Sprintf(" Legend: %s = block-level | RANGE is [from,to) in bytes", blockSymbol),
		)
	}

	return t.styles.TableLegend.Render(
		fmt.Sprintf(" Legend: %s %s %s %s  %s = block-level",
			t.styles.Replace.Render("replace"),
			t.styles.Mark.Render("mark"),
			t.styles.Widget.Render("widget"),
			t.styles.Line.Render("line"),
			t.styles.TableBlock.Render(blockSymbol),
		),
	)
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
