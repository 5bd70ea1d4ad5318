// Package config defines core configuration types for mdlive.
// These types are pure data structures with no dependency on how they are loaded.
package config

import "slices"

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// OutputFormat specifies how decorations are printed.
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSummary OutputFormat = "summary"
)

// DefaultSelectionWindow is the default number of lines around the cursor
// in which block decorations are suppressed.
const DefaultSelectionWindow = 1

// DefaultLogLevel is the log level used when none is configured.
const DefaultLogLevel = "warn"

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled *bool          `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Options map[string]any `yaml:"options,omitempty" toml:"options,omitempty"`
}

// Config is the root configuration structure for mdlive.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor" toml:"flavor"`

	// SelectionWindow is the line distance from the cursor within which block
	// decorations are suppressed. Nil means the default.
	SelectionWindow *int `yaml:"selection_window,omitempty" toml:"selection_window,omitempty"`

	// RecomputeOnDocChange makes block rules recompute on every edit instead
	// of mapping their decorations. Nil means the default (true).
	RecomputeOnDocChange *bool `yaml:"recompute_on_doc_change,omitempty" toml:"recompute_on_doc_change,omitempty"`

	// Rules contains per-rule configuration keyed by rule ID.
	Rules map[string]RuleConfig `yaml:"rules,omitempty" toml:"rules,omitempty"`

	// Scripts lists Lua rule files.
	Scripts []string `yaml:"scripts,omitempty" toml:"scripts,omitempty"`

	// Resources is the directory ":/<id>" resource addresses resolve against.
	Resources string `yaml:"resources,omitempty" toml:"resources,omitempty"`

	// LogLevel is the minimum level logged ("debug", "info", "warn", "error").
	LogLevel string `yaml:"log_level,omitempty" toml:"log_level,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-" toml:"-"`

	// EnableRules contains rule IDs to explicitly enable.
	EnableRules []string `yaml:"-" toml:"-"`

	// DisableRules contains rule IDs to explicitly disable.
	DisableRules []string `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	window := DefaultSelectionWindow
	recompute := true
	return &Config{
		Flavor:               FlavorGFM,
		SelectionWindow:      &window,
		RecomputeOnDocChange: &recompute,
		Rules:                make(map[string]RuleConfig),
		LogLevel:             DefaultLogLevel,
		Format:               FormatTable,
	}
}

// Window returns the selection window, or the default when unset.
func (c *Config) Window() int {
	if c.SelectionWindow == nil {
		return DefaultSelectionWindow
	}
	return *c.SelectionWindow
}

// RecomputeOnEdit reports whether block rules recompute on every edit.
func (c *Config) RecomputeOnEdit() bool {
	if c.RecomputeOnDocChange == nil {
		return true
	}
	return *c.RecomputeOnDocChange
}

// RuleEnabled reports whether the rule id runs. CLI lists win over the rules
// map, which wins over def.
func (c *Config) RuleEnabled(id string, def bool) bool {
	if slices.Contains(c.DisableRules, id) {
		return false
	}
	if slices.Contains(c.EnableRules, id) {
		return true
	}
	if rc, ok := c.Rules[id]; ok && rc.Enabled != nil {
		return *rc.Enabled
	}
	return def
}

// SelectRules returns the IDs of the enabled rules, in the order given.
func (c *Config) SelectRules(infos []RuleInfo) []string {
	var ids []string
	for _, info := range infos {
		if c.RuleEnabled(info.ID, info.Enabled) {
			ids = append(ids, info.ID)
		}
	}
	return ids
}

// RuleOptions returns the options of every configured rule.
func (c *Config) RuleOptions() map[string]map[string]any {
	out := make(map[string]map[string]any, len(c.Rules))
	for id, rc := range c.Rules {
		if rc.Options != nil {
			out[id] = rc.Options
		}
	}
	return out
}
