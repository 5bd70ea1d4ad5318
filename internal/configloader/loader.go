// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support, and validation.
package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/yaklabco/mdlive/pkg/config"
	"github.com/yaklabco/mdlive/pkg/decorate/rules"
	"github.com/yaklabco/mdlive/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config

	// Registry resolves rule IDs. Nil uses rules.DefaultRegistry.
	Registry *rules.Registry
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (MDLIVE_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.mdlive.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/mdlive/config.yaml)
//  6. System config (/etc/mdlive/config.yaml)
//  7. Defaults
//
// Relative script and resource paths in a file are resolved against the
// directory of that file.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	registry := opts.Registry
	if registry == nil {
		registry = rules.DefaultRegistry
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	layers := []struct {
		name string
		path string
		skip bool
	}{
		{name: "system", path: paths.System, skip: opts.IgnoreSystemConfig},
		{name: "user", path: paths.User, skip: opts.IgnoreUserConfig},
		{name: "project", path: paths.Project, skip: opts.IgnoreProjectConfig},
		{name: "explicit", path: paths.Explicit},
	}
	for _, layer := range layers {
		if layer.skip || layer.path == "" {
			continue
		}
		fileCfg, err := LoadFile(layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		normalizeRuleKeys(fileCfg, result)
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	cfg.EnableRules = ExpandRuleList(cfg.EnableRules)
	cfg.DisableRules = ExpandRuleList(cfg.DisableRules)

	validation := config.Validate(cfg, registry.IDs())
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Message)
	}

	result.Config = cfg
	return result, nil
}

// LoadFile loads a configuration from a YAML or TOML file, chosen by
// extension.
func LoadFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg, err := config.Decode(config.FileFormatForPath(path), content)
	if err != nil {
		return nil, err
	}

	validation := config.ValidateWithFile(cfg, nil, path)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}

	resolveRelative(cfg, filepath.Dir(path))
	return cfg, nil
}

// WriteFile writes cfg to path in the format chosen by its extension.
func WriteFile(cfg *config.Config, path string) error {
	content, err := cfg.Encode(config.FileFormatForPath(path), config.DefaultTemplateHeader())
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := fsutil.WriteAtomic(context.Background(), path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// resolveRelative makes script and resource paths absolute against dir.
func resolveRelative(cfg *config.Config, dir string) {
	for i, script := range cfg.Scripts {
		if !filepath.IsAbs(script) {
			cfg.Scripts[i] = filepath.Join(dir, script)
		}
	}
	if cfg.Resources != "" && !filepath.IsAbs(cfg.Resources) {
		cfg.Resources = filepath.Join(dir, cfg.Resources)
	}
}

// normalizeRuleKeys converts rule aliases to canonical IDs in the config.
// If a rule is configured under several keys, warns and keeps the key that
// sorts last.
func normalizeRuleKeys(cfg *config.Config, result *LoadResult) {
	if len(cfg.Rules) == 0 {
		return
	}

	keys := make([]string, 0, len(cfg.Rules))
	for key := range cfg.Rules {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	normalized := make(map[string]config.RuleConfig, len(cfg.Rules))
	seenIDs := make(map[string]string)

	for _, key := range keys {
		canonicalID := NormalizeRuleID(key)

		if originalKey, exists := seenIDs[canonicalID]; exists {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("duplicate rule configuration: %q and %q both refer to %s; using %q",
					originalKey, key, canonicalID, key))
		}

		seenIDs[canonicalID] = key
		normalized[canonicalID] = cfg.Rules[key]
	}

	cfg.Rules = normalized
}
