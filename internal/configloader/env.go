package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/mdlive/pkg/config"
)

// envVarPrefix is the prefix for all mdlive environment variables.
const envVarPrefix = "MDLIVE_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
	help  string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FLAVOR":                  {field: "flavor", typ: envTypeString, help: "Markdown flavor: commonmark or gfm"},
	"SELECTION_WINDOW":        {field: "selection_window", typ: envTypeInt, help: "Lines around the cursor that hide block decorations"},
	"RECOMPUTE_ON_DOC_CHANGE": {field: "recompute_on_doc_change", typ: envTypeBool, help: "Recompute block decorations on every edit: true or false"},
	"RESOURCES":               {field: "resources", typ: envTypeString, help: "Resource directory"},
	"SCRIPTS":                 {field: "scripts", typ: envTypeSlice, help: "Comma-separated list of Lua rule scripts"},
	"LOG_LEVEL":               {field: "log_level", typ: envTypeString, help: "Log level: debug, info, warn, or error"},
	"FORMAT":                  {field: "format", typ: envTypeString, help: "Output format: table, text, json, or summary"},
	"ENABLE":                  {field: "enable_rules", typ: envTypeSlice, help: "Comma-separated list of rules to enable"},
	"DISABLE":                 {field: "disable_rules", typ: envTypeSlice, help: "Comma-separated list of rules to disable"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with MDLIVE_ (e.g., MDLIVE_FLAVOR).
func LoadFromEnv(cfg *config.Config) error {
	return loadFromEnv(cfg, os.Getenv)
}

func loadFromEnv(cfg *config.Config, getenv func(string) string) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "flavor":
		cfg.Flavor = config.Flavor(value)
	case "resources":
		cfg.Resources = value
	case "log_level":
		cfg.LogLevel = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "recompute_on_doc_change":
		cfg.RecomputeOnDocChange = &value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "selection_window":
		cfg.SelectionWindow = &value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "scripts":
		cfg.Scripts = value
	case "enable_rules":
		cfg.EnableRules = value
	case "disable_rules":
		cfg.DisableRules = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		out[envVarPrefix+suffix] = mapping.help
	}
	return out
}
