package configloader

import (
	"maps"

	"github.com/yaklabco/mdlive/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointer values: override overwrites base if override is non-nil
//   - Maps: deep merge, with override's values taking precedence
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Resources != "" {
		result.Resources = override.Resources
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Format != "" {
		result.Format = override.Format
	}

	if override.SelectionWindow != nil {
		result.SelectionWindow = override.SelectionWindow
	}
	if override.RecomputeOnDocChange != nil {
		result.RecomputeOnDocChange = override.RecomputeOnDocChange
	}

	result.Rules = mergeRules(base.Rules, override.Rules)

	if override.Scripts != nil {
		result.Scripts = override.Scripts
	}
	if override.EnableRules != nil {
		result.EnableRules = override.EnableRules
	}
	if override.DisableRules != nil {
		result.DisableRules = override.DisableRules
	}

	return &result
}

// mergeRules performs deep merge of rule configurations.
func mergeRules(base, override map[string]config.RuleConfig) map[string]config.RuleConfig {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]config.RuleConfig, len(base)+len(override))
	maps.Copy(result, base)

	for key, val := range override {
		if existing, ok := result[key]; ok {
			result[key] = mergeRuleConfig(existing, val)
		} else {
			result[key] = val
		}
	}

	return result
}

// mergeRuleConfig merges individual rule configurations.
// override's values take precedence over base's values.
func mergeRuleConfig(base, override config.RuleConfig) config.RuleConfig {
	result := base

	if override.Enabled != nil {
		result.Enabled = override.Enabled
	}

	if override.Options != nil {
		options := make(map[string]any, len(base.Options)+len(override.Options))
		maps.Copy(options, base.Options)
		maps.Copy(options, override.Options)
		result.Options = options
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
