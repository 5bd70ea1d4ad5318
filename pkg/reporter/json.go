package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/yaklabco/mdlive/pkg/decoration"
)

// jsonVersion is the schema version of JSONOutput.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version     string           `json:"version"`
	Path        string           `json:"path,omitempty"`
	Rules       []JSONRule       `json:"rules"`
	Decorations []JSONDecoration `json:"decorations"`
	Summary     JSONSummary      `json:"summary"`
}

// JSONRule describes one attached rule.
type JSONRule struct {
	ID          string `json:"id"`
	Scope       string `json:"scope,omitempty"`
	Decorations int    `json:"decorations"`
	Recomputes  int    `json:"recomputes"`
}

// JSONDecoration represents a single decoration.
type JSONDecoration struct {
	Rule   string            `json:"rule"`
	From   int               `json:"from"`
	To     int               `json:"to"`
	Line   int               `json:"line"`
	Column int               `json:"column"`
	Kind   string            `json:"kind"`
	Block  bool              `json:"block,omitempty"`
	Widget string            `json:"widget,omitempty"`
	Class  string            `json:"class,omitempty"`
	Side   int               `json:"side,omitempty"`
	Attrs  map[string]string `json:"attrs,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	Total  int            `json:"total"`
	Blocks int            `json:"blocks"`
	ByKind map[string]int `json:"byKind"`
	ByRule map[string]int `json:"byRule"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.Total, nil
}

func (r *JSONReporter) buildOutput(result *Result) *JSONOutput {
	output := &JSONOutput{
		Version:     jsonVersion,
		Rules:       make([]JSONRule, 0),
		Decorations: make([]JSONDecoration, 0),
		Summary: JSONSummary{
			ByKind: make(map[string]int),
			ByRule: make(map[string]int),
		},
	}

	if result == nil || result.Doc == nil {
		return output
	}
	output.Path = result.Path

	for _, layer := range result.Layers {
		output.Rules = append(output.Rules, JSONRule{
			ID:          layer.Rule,
			Scope:       layer.Scope,
			Decorations: layer.Set.Len(),
			Recomputes:  layer.Recomputes,
		})

		for _, rng := range layer.Set.Ranges() {
			output.Decorations = append(output.Decorations, r.decoration(result, layer.Rule, rng))
		}
	}

	stats := result.Stats()
	output.Summary.Total = stats.Decorations
	output.Summary.Blocks = stats.Blocks
	maps.Copy(output.Summary.ByRule, stats.ByRule)
	for kind, n := range stats.ByKind {
		output.Summary.ByKind[kind.String()] = n
	}

	return output
}

func (r *JSONReporter) decoration(result *Result, rule string, rng decoration.Range) JSONDecoration {
	line := result.Doc.LineAt(rng.From)
	dec := rng.Value

	out := JSONDecoration{
		Rule:   rule,
		From:   rng.From,
		To:     rng.To,
		Line:   line.Number,
		Column: rng.From - line.From + 1,
		Kind:   dec.Kind().String(),
		Block:  dec.Block(),
		Class:  dec.Class(),
		Side:   dec.Side(),
	}
	if w := dec.Widget(); w != nil {
		out.Widget = w.String()
	}
	if attrs := dec.Attrs(); len(attrs) > 0 {
		out.Attrs = attrs
	}
	return out
}
