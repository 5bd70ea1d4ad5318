package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlive/internal/configloader"
	"github.com/yaklabco/mdlive/internal/logging"
	"github.com/yaklabco/mdlive/pkg/config"
	"github.com/yaklabco/mdlive/pkg/decorate/rules"
)

type rulesFlags struct {
	format string
}

const formatJSON = "json"

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Scope       string   `json:"scope"`
	Default     bool     `json:"default"`
	Enabled     bool     `json:"enabled"`
	Aliases     []string `json:"aliases,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available decoration rules",
		Long: `List all built-in decoration rules with their IDs, scopes, aliases
and whether the current configuration enables them.

Inline rules run over the visible ranges and are recomputed on every
change. Block rules run over the whole document and map their decorations
through edits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, &config.Config{})
			if err != nil {
				return err
			}

			infos := listRules(rules.DefaultRegistry, cfg)

			if flags.format == formatJSON {
				return outputRulesJSON(cmd.OutOrStdout(), infos)
			}

			logger := logging.NewInteractive()
			logger.Info("available rules")

			for _, info := range infos {
				enabled := "-"
				if info.Enabled {
					enabled = "yes"
				}
				logger.Info(info.ID,
					logging.FieldScope, info.Scope,
					"enabled", enabled,
					"description", info.Description,
				)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text",
		"output format: text, json")

	return cmd
}

// listRules describes every registered rule under cfg.
func listRules(reg *rules.Registry, cfg *config.Config) []ruleInfo {
	entries := reg.Entries()
	infos := make([]ruleInfo, 0, len(entries))
	for _, entry := range entries {
		infos = append(infos, ruleInfo{
			ID:          entry.ID,
			Description: entry.Description,
			Scope:       entry.Scope.String(),
			Default:     entry.Default,
			Enabled:     cfg.RuleEnabled(entry.ID, entry.Default),
			Aliases:     configloader.GetAliasesForRule(entry.ID),
		})
	}
	return infos
}

// outputRulesJSON outputs rules as a JSON array.
func outputRulesJSON(w io.Writer, infos []ruleInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
