package config

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full lists every rule with its description.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: yaml or toml.
	Format FileFormat

	// Rules describes the available rules.
	Rules []RuleInfo

	// IncludeRules is a list of rule IDs to include.
	// If empty, all rules are included.
	IncludeRules []string
}

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	ID          string
	Description string
	Scope       string
	Enabled     bool
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case FileFormatYAML, "":
		return generateYAMLTemplate(opts), nil
	case FileFormatTOML:
		return generateTOMLTemplate(opts), nil
	default:
		return nil, fmt.Errorf("unknown template format %q", opts.Format)
	}
}

func generateYAMLTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Markdown flavor: commonmark or gfm
flavor: gfm

# Lines around the cursor in which block decorations are hidden
selection_window: 1

# Recompute block decorations on every edit instead of mapping them
recompute_on_doc_change: true

# Directory that ":/<id>" resource addresses resolve against
# resources: ./resources

# Lua rule scripts
# scripts:
#   - rules/todo.lua

# Log level: debug, info, warn, or error
log_level: warn
`)

	rules := templateRules(opts)
	if !opts.Full || len(rules) == 0 {
		buf.WriteString(`
# Rule-specific configuration
# rules:
#   code-badge:
#     enabled: true
#     options:
#       label_declared: false
`)
		return buf.Bytes()
	}

	buf.WriteString("\n# Rule-specific configuration\nrules:\n")
	for _, rule := range rules {
		fmt.Fprintf(&buf, "\n  # %s\n", wrapComment(rule.Description, commentWrapWidth, "  # "))
		fmt.Fprintf(&buf, "  # Scope: %s\n", rule.Scope)
		fmt.Fprintf(&buf, "  %s:\n", rule.ID)
		fmt.Fprintf(&buf, "    enabled: %t\n", rule.Enabled)
		buf.WriteString("    # options:\n")
		buf.WriteString("    #   key: value\n")
	}

	return buf.Bytes()
}

func generateTOMLTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Markdown flavor: commonmark or gfm
flavor = "gfm"

# Lines around the cursor in which block decorations are hidden
selection_window = 1

# Recompute block decorations on every edit instead of mapping them
recompute_on_doc_change = true

# Directory that ":/<id>" resource addresses resolve against
# resources = "./resources"

# Lua rule scripts
# scripts = ["rules/todo.lua"]

# Log level: debug, info, warn, or error
log_level = "warn"
`)

	rules := templateRules(opts)
	if !opts.Full || len(rules) == 0 {
		buf.WriteString(`
# Rule-specific configuration
# [rules.code-badge]
# enabled = true
# options = { label_declared = false }
`)
		return buf.Bytes()
	}

	for _, rule := range rules {
		fmt.Fprintf(&buf, "\n# %s\n", wrapComment(rule.Description, commentWrapWidth, "# "))
		fmt.Fprintf(&buf, "# Scope: %s\n", rule.Scope)
		fmt.Fprintf(&buf, "[rules.%s]\n", rule.ID)
		fmt.Fprintf(&buf, "enabled = %t\n", rule.Enabled)
	}

	return buf.Bytes()
}

// templateRules returns the rules to document, sorted by ID.
func templateRules(opts TemplateOptions) []RuleInfo {
	rules := slices.Clone(opts.Rules)
	if len(opts.IncludeRules) > 0 {
		rules = slices.DeleteFunc(rules, func(r RuleInfo) bool {
			return !slices.Contains(opts.IncludeRules, r.ID)
		})
	}
	slices.SortFunc(rules, func(a, b RuleInfo) int {
		return strings.Compare(a.ID, b.ID)
	})
	return rules
}

// wrapComment wraps a comment to fit within maxWidth characters. Continuation
// lines start with prefix.
func wrapComment(text string, maxWidth int, prefix string) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+prefix)
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# mdlive configuration
# See: https://github.com/yaklabco/mdlive`
}
