// Package cli provides the Cobra command structure for mdlive.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlive/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root mdlive command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "mdlive",
		Short: "Live decorations for Markdown source",
		Long: `mdlive computes live-preview decorations for Markdown source text.

Rules turn syntax nodes into presentation instructions: checkboxes for task
markers, rendered images on their own line, styled inline HTML, language
badges on code fences. Decorations disappear near the cursor so the
underlying Markdown stays editable, and survive edits by being mapped
through them. Lua scripts can add rules of their own.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
			cmd.SetContext(logging.WithLogger(commandContext(cmd), logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
