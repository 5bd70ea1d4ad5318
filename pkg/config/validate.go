package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "rules.image.enabled").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown rules).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownFlavors lists valid flavor values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFlavors = map[Flavor]bool{
	FlavorCommonMark: true,
	FlavorGFM:        true,
}

// knownFormats lists valid output format values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[OutputFormat]bool{
	FormatTable:   true,
	FormatText:    true,
	FormatJSON:    true,
	FormatSummary: true,
}

// knownLogLevels lists valid log levels.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks a configuration for errors and warnings. Rules missing
// from knownRules produce warnings; a nil knownRules skips that check.
func Validate(cfg *Config, knownRules []string) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Flavor != "" && !knownFlavors[cfg.Flavor] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "flavor",
			Value:   cfg.Flavor,
			Message: fmt.Sprintf("invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor),
		})
	}

	if cfg.SelectionWindow != nil && *cfg.SelectionWindow < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "selection_window",
			Value:   *cfg.SelectionWindow,
			Message: "selection_window must be >= 0",
		})
	}

	if cfg.Format != "" && !knownFormats[cfg.Format] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: table, text, json, summary", cfg.Format),
		})
	}

	if cfg.LogLevel != "" && !knownLogLevels[strings.ToLower(cfg.LogLevel)] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: fmt.Sprintf("invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel),
		})
	}

	for i, script := range cfg.Scripts {
		if strings.TrimSpace(script) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("scripts[%d]", i),
				Value:   script,
				Message: "script path is empty",
			})
		}
	}

	if knownRules != nil {
		validateRules(cfg, knownRules, result)
	}

	return result
}

// validateRules warns about rules that are not registered.
func validateRules(cfg *Config, knownRules []string, result *ValidationResult) {
	ids := make([]string, 0, len(cfg.Rules))
	for id := range cfg.Rules {
		ids = append(ids, id)
	}
	ids = append(ids, cfg.EnableRules...)
	ids = append(ids, cfg.DisableRules...)
	slices.Sort(ids)

	for _, id := range slices.Compact(ids) {
		if !slices.Contains(knownRules, id) {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "rules." + id,
				Value:   id,
				Message: fmt.Sprintf("unknown rule %q; it will be ignored", id),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *Config, knownRules []string, filePath string) *ValidationResult {
	result := Validate(cfg, knownRules)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFlavor returns true if the flavor is valid.
func IsValidFlavor(f Flavor) bool {
	return knownFlavors[f]
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f OutputFormat) bool {
	return knownFormats[f]
}
