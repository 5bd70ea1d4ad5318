package pretty

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/mdlive/pkg/decoration"
	"github.com/yaklabco/mdlive/pkg/text"
)

// Row is one decoration laid out for display.
type Row struct {
	Rule   string
	Line   int
	Column int
	From   int
	To     int
	Kind   decoration.Kind
	Block  bool
	Detail string
}

// Location returns the 1-based line:column of the row start.
func (r Row) Location() string {
	return fmt.Sprintf("%d:%d", r.Line, r.Column)
}

// Span returns the half-open offset range of the row.
func (r Row) Span() string {
	return fmt.Sprintf("[%d,%d)", r.From, r.To)
}

// KindLabel returns the kind name, suffixed for block decorations.
func (r Row) KindLabel() string {
	if r.Block {
		return r.Kind.String() + "*"
	}
	return r.Kind.String()
}

// NewRows lays out every range of set against doc.
func NewRows(doc *text.Doc, rule string, set decoration.Set) []Row {
	rows := make([]Row, 0, set.Len())
	for _, rng := range set.Ranges() {
		line := doc.LineAt(rng.From)
		rows = append(rows, Row{
			Rule:   rule,
			Line:   line.Number,
			Column: rng.From - line.From + 1,
			From:   rng.From,
			To:     rng.To,
			Kind:   rng.Value.Kind(),
			Block:  rng.Value.Block(),
			Detail: describe(rng.Value),
		})
	}
	return rows
}

// SortRows orders rows by position, then by rule.
func SortRows(rows []Row) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		return cmp.Or(
			cmp.Compare(a.From, b.From),
			cmp.Compare(a.To, b.To),
			strings.Compare(a.Rule, b.Rule),
		)
	})
}

// describe renders the payload of a decoration without its kind.
func describe(dec decoration.Decoration) string {
	var parts []string
	if w := dec.Widget(); w != nil {
		parts = append(parts, w.String())
	}
	if class := dec.Class(); class != "" {
		parts = append(parts, "."+class)
	}
	attrs := dec.Attrs()
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		parts = append(parts, fmt.Sprintf("%s=%q", key, attrs[key]))
	}
	if len(parts) == 0 && dec.Kind() == decoration.KindReplace {
		return "hidden"
	}
	return strings.Join(parts, " ")
}

// FormatRow formats a single row for plain terminal output.
func (s *Styles) FormatRow(path string, row Row, showContext bool, sourceLine string) string {
	var builder strings.Builder

	location := s.Location.Render(row.Location())
	if path != "" {
		location = fmt.Sprintf("%s:%s", s.FilePath.Render(path), location)
	}

	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s  %s\n",
		location,
		s.Span.Render(row.Span()),
		s.KindStyle(row.Kind).Render(row.KindLabel()),
		s.Detail.Render(row.Detail),
		s.RuleID.Render("("+row.Rule+")"),
	))

	if showContext && sourceLine != "" {
		width := min(row.To-row.From, len(sourceLine)-row.Column+1)
		builder.WriteString(s.FormatSourceContext(sourceLine, row.Column, width))
	}

	return builder.String()
}

// FormatSourceContext formats the source line with the decorated columns
// underlined.
func (s *Styles) FormatSourceContext(line string, column, width int) string {
	var builder strings.Builder

	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Underline.Render(strings.Repeat("^", max(1, width))) + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, count int) string {
	header := s.FilePath.Render(path)
	if count > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d decorations)", count))
	}
	return header
}
