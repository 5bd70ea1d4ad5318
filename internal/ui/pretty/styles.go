// Package pretty provides Lipgloss-based styled output for decoration listings.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/mdlive/pkg/decoration"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Kind styles
	Replace lipgloss.Style
	Mark    lipgloss.Style
	Widget  lipgloss.Style
	Line    lipgloss.Style

	// Row components
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	Span       lipgloss.Style
	RuleID     lipgloss.Style
	Detail     lipgloss.Style
	SourceLine lipgloss.Style
	Underline  lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Table styles
	TableHeader    lipgloss.Style
	TableBlock     lipgloss.Style
	TableLegend    lipgloss.Style
	TableSeparator lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		Replace: lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		Mark:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Widget:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Line:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),

		FilePath:   lipgloss.NewStyle().Bold(true),
		Location:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Span:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		RuleID:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Detail:     lipgloss.NewStyle(),
		SourceLine: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Underline:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		TableHeader:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableBlock:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		TableLegend:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		TableSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Replace:        plain,
		Mark:           plain,
		Widget:         plain,
		Line:           plain,
		FilePath:       plain,
		Location:       plain,
		Span:           plain,
		RuleID:         plain,
		Detail:         plain,
		SourceLine:     plain,
		Underline:      plain,
		SummaryTitle:   plain,
		SummaryValue:   plain,
		Success:        plain,
		Failure:        plain,
		TableHeader:    plain,
		TableBlock:     plain,
		TableLegend:    plain,
		TableSeparator: plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// KindStyle returns the style used for a decoration kind.
func (s *Styles) KindStyle(kind decoration.Kind) lipgloss.Style {
	switch kind {
	case decoration.KindReplace:
		return s.Replace
	case decoration.KindMark:
		return s.Mark
	case decoration.KindWidget:
		return s.Widget
	case decoration.KindLine:
		return s.Line
	default:
		return lipgloss.NewStyle()
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
