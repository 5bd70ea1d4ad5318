package pretty

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/mdlive/pkg/decoration"
)

const (
	summaryDividerWidth = 40
	wordRule            = "rule"
	wordRules           = "rules"
)

// Stats counts the decorations produced for one document.
type Stats struct {
	Rules       int
	Decorations int
	Blocks      int
	ByRule      map[string]int
	ByKind      map[decoration.Kind]int
	Recomputes  int
}

// NewStats tallies rows. Rules counts attached rules, including those that
// produced nothing.
func NewStats(rules int, rows []Row) Stats {
	stats := Stats{
		Rules:  rules,
		ByRule: make(map[string]int),
		ByKind: make(map[decoration.Kind]int),
	}
	for _, row := range rows {
		stats.Decorations++
		stats.ByRule[row.Rule]++
		stats.ByKind[row.Kind]++
		if row.Block {
			stats.Blocks++
		}
	}
	return stats
}

// kinds in display order.
var kinds = []decoration.Kind{ //nolint:gochecknoglobals // lookup table
	decoration.KindReplace,
	decoration.KindMark,
	decoration.KindWidget,
	decoration.KindLine,
}

// FormatSummaryOneLine formats stats as a single line.
// Example: "5 decorations (2 replace, 3 mark) from 3 rules, 1 block-level".
func (s *Styles) FormatSummaryOneLine(stats Stats) string {
	ruleWord := wordRules
	if stats.Rules == 1 {
		ruleWord = wordRule
	}

	if stats.Decorations == 0 {
		return s.Dim.Render(fmt.Sprintf("No decorations (%d %s attached)", stats.Rules, ruleWord)) + "\n"
	}

	decoWord := "decorations"
	if stats.Decorations == 1 {
		decoWord = "decoration"
	}

	var kindParts []string
	for _, kind := range kinds {
		if n := stats.ByKind[kind]; n > 0 {
			kindParts = append(kindParts, s.KindStyle(kind).Render(fmt.Sprintf("%d %s", n, kind)))
		}
	}

	parts := []string{
		fmt.Sprintf("%d %s (%s) from %d %s", stats.Decorations, decoWord, strings.Join(kindParts, ", "), stats.Rules, ruleWord),
	}
	if stats.Blocks > 0 {
		parts = append(parts, s.TableBlock.Render(fmt.Sprintf("%d block-level", stats.Blocks)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats stats as a summary block.
func (s *Styles) FormatSummary(stats Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Rules attached:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.Rules)) + "\n")
	if stats.Recomputes > 0 {
		builder.WriteString("  Recomputes:        " +
			s.SummaryValue.Render(strconv.Itoa(stats.Recomputes)) + "\n")
	}

	builder.WriteString("\n")

	builder.WriteString("  Total decorations: " +
		s.SummaryValue.Render(strconv.Itoa(stats.Decorations)) + "\n")
	for _, kind := range kinds {
		if n := stats.ByKind[kind]; n > 0 {
			label := fmt.Sprintf("    %-17s", kind.String()+":")
			builder.WriteString(label + s.KindStyle(kind).Render(strconv.Itoa(n)) + "\n")
		}
	}

	if len(stats.ByRule) > 0 {
		builder.WriteString("\n")
		for _, rule := range slices.Sorted(maps.Keys(stats.ByRule)) {
			label := fmt.Sprintf("    %-17s", rule+":")
			builder.WriteString(label + s.RuleID.Render(strconv.Itoa(stats.ByRule[rule])) + "\n")
		}
	}

	builder.WriteString("\n")

	if stats.Decorations == 0 {
		builder.WriteString(s.Dim.Render("Nothing to decorate"))
	} else {
		builder.WriteString(s.Success.Render("Decorated"))
	}
	builder.WriteString("\n")

	return builder.String()
}
