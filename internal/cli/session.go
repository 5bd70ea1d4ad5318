package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlive/internal/configloader"
	"github.com/yaklabco/mdlive/internal/logging"
	"github.com/yaklabco/mdlive/pkg/config"
	"github.com/yaklabco/mdlive/pkg/decorate"
	"github.com/yaklabco/mdlive/pkg/decorate/rules"
	"github.com/yaklabco/mdlive/pkg/editor"
	goldmarkparser "github.com/yaklabco/mdlive/pkg/parser/goldmark"
	"github.com/yaklabco/mdlive/pkg/reporter"
	"github.com/yaklabco/mdlive/pkg/resource"
)

// session is an editor over one document with every configured rule
// attached.
type session struct {
	cfg      *config.Config
	logger   *log.Logger
	editor   *editor.Editor
	cache    *decorate.CounterCache
	resolver *resource.Resolver
	built    []rules.Built
	scripts  []*rules.LuaRule
}

// ruleInfos describes the registered rules for rule selection and templates.
func ruleInfos(reg *rules.Registry) []config.RuleInfo {
	entries := reg.Entries()
	infos := make([]config.RuleInfo, 0, len(entries))
	for _, entry := range entries {
		infos = append(infos, config.RuleInfo{
			ID:          entry.ID,
			Description: entry.Description,
			Scope:       entry.Scope.String(),
			Enabled:     entry.Default,
		})
	}
	return infos
}

// loadConfig merges configuration files, environment and CLI flags, logging
// any warnings.
func loadConfig(cmd *cobra.Command, cli *config.Config) (*config.Config, error) {
	logger := logging.FromContext(commandContext(cmd))

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cli,
		Registry:     rules.DefaultRegistry,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", result.LoadedFrom)
	}

	if debug, _ := cmd.Flags().GetBool("debug"); !debug && result.Config.LogLevel != "" {
		logging.SetLevel(result.Config.LogLevel)
	}

	logger.Debug("configuration loaded",
		logging.FieldFlavor, result.Config.Flavor,
		logging.FieldWindow, result.Config.Window(),
		logging.FieldResources, result.Config.Resources,
		logging.FieldScripts, len(result.Config.Scripts),
	)

	return result.Config, nil
}

// openSession parses content and attaches the enabled built-in rules and
// every configured script.
func openSession(ctx context.Context, cfg *config.Config, content string, logger *log.Logger) (_ *session, err error) {
	s := &session{
		cfg:    cfg,
		logger: logger,
		cache:  decorate.NewCounterCache(),
	}
	defer func() {
		if err != nil {
			_ = s.Close()
		}
	}()

	env := rules.Env{Cache: s.cache, Logger: logger}
	if cfg.Resources != "" {
		opts := resource.DefaultOptions()
		opts.Logger = logger
		s.resolver = resource.New(cfg.Resources, s.cache, opts)
		env.Resources = s.resolver
	}

	ids := cfg.SelectRules(ruleInfos(rules.DefaultRegistry))
	opts := make(map[string]rules.Options)
	for id, o := range cfg.RuleOptions() {
		opts[id] = o
	}
	built, err := rules.DefaultRegistry.Build(ids, env, opts)
	if err != nil {
		return nil, err
	}
	s.built = built

	for _, path := range cfg.Scripts {
		script, err := rules.LoadLuaRule(path, env)
		if err != nil {
			return nil, err
		}
		s.scripts = append(s.scripts, script)
		if !cfg.RuleEnabled(script.ID(), true) {
			continue
		}
		s.built = append(s.built, rules.Built{Rule: script, Scope: script.Scope()})
	}

	engineOpts := decorate.DefaultOptions()
	engineOpts.Logger = logger
	engineOpts.SelectionWindow = cfg.Window()
	engineOpts.RecomputeOnDocChange = cfg.RecomputeOnEdit()

	s.editor, err = editor.New(ctx, content, goldmarkparser.New(string(cfg.Flavor)), editor.Options{
		Engine: engineOpts,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	if err := s.editor.Attach(s.built...); err != nil {
		return nil, err
	}

	logger.Debug("session opened", logging.FieldDecorations, s.editor.Decorations().Len())

	return s, nil
}

// settle waits for outstanding resource lookups and forwards their refresh
// tokens to the engines.
func (s *session) settle() error {
	if s.resolver == nil {
		return nil
	}
	s.resolver.Wait()
	n, err := s.editor.Pump(s.resolver)
	if n > 0 {
		s.logger.Debug("resources refreshed", logging.FieldToken, n)
	}
	return err
}

// result snapshots the current decorations for reporting.
func (s *session) result(path string) *reporter.Result {
	engines := s.editor.Engines()
	layers := make([]reporter.Layer, 0, len(engines))
	for i, engine := range engines {
		layer := reporter.Layer{
			Rule: engine.Rule().ID(),
			Set:  engine.Decorations(),
		}
		if i < len(s.built) {
			layer.Scope = s.built[i].Scope.String()
		}
		if doc, ok := engine.(*decorate.DocumentEngine); ok {
			layer.Recomputes = doc.Recomputes()
		}
		layers = append(layers, layer)
	}
	return &reporter.Result{
		Path:   path,
		Doc:    s.editor.State().Doc,
		Layers: layers,
	}
}

// Close stops the resolver and releases script states.
func (s *session) Close() error {
	var err error
	if s.resolver != nil {
		err = s.resolver.Close()
	}
	for _, script := range s.scripts {
		script.Close()
	}
	return err
}

// commandContext returns the command context, or a background context.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
