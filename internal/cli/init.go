package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlive/internal/logging"
	"github.com/yaklabco/mdlive/pkg/config"
	"github.com/yaklabco/mdlive/pkg/decorate/rules"
	"github.com/yaklabco/mdlive/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new mdlive configuration file",
		Long: `Create a new .mdlive.yml configuration file in the current directory
with sensible defaults. The file can be customized to enable or disable
rules, pass rule options, add Lua rule scripts and point at a resource
directory.

Examples:
  mdlive init                      Create minimal .mdlive.yml
  mdlive init --full               Create full config with all rules documented
  mdlive init --format toml        Create .mdlive.toml instead
  mdlive init --output custom.yml  Write to a custom file path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(commandContext(cmd), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with all rules documented")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .mdlive.yml or .mdlive.toml)")

	return cmd
}

func runInit(ctx context.Context, flags *initFlags) error {
	logger := logging.NewInteractive()

	format := config.FileFormat(flags.format)
	if format != config.FileFormatYAML && format != config.FileFormatTOML {
		return fmt.Errorf("invalid format %q: must be yaml or toml", flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		if format == config.FileFormatTOML {
			outputPath = ".mdlive.toml"
		} else {
			outputPath = ".mdlive.yml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
		}
		backupPath, err := fsutil.Backup(ctx, absPath)
		if err != nil {
			return err
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath, "backup", backupPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: format,
		Rules:  ruleInfos(rules.DefaultRegistry),
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(ctx, absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)

	if flags.full {
		logger.Info("full template includes all rules with documentation")
	}

	logger.Info("run 'mdlive rules' to see all available rules")

	return nil
}
