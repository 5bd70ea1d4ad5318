package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlive/internal/logging"
	"github.com/yaklabco/mdlive/pkg/config"
	"github.com/yaklabco/mdlive/pkg/editor"
	"github.com/yaklabco/mdlive/pkg/fsutil"
	"github.com/yaklabco/mdlive/pkg/reporter"
	"github.com/yaklabco/mdlive/pkg/text"
)

// ErrInvalidLineRange is returned for malformed --lines values.
var ErrInvalidLineRange = errors.New("invalid line range")

type renderFlags struct {
	format    string
	flavor    string
	enable    []string
	disable   []string
	resources string
	cursor    int
	line      int
	lines     string
	noContext bool
	compact   bool
	noSummary bool
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Print the decorations of a Markdown file",
		Long:  renderLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], flags)
		},
	}

	addRenderFlags(cmd, flags)

	return cmd
}

const renderLongDescription = `Parse a Markdown file, run every enabled decoration rule over it and
print the resulting decorations.

The cursor position matters: rules hide their decorations near the cursor
so the underlying Markdown stays editable. By default the cursor sits at
the start of the file, as in a freshly opened buffer.

Examples:
  mdlive render README.md                    # Table of decorations
  mdlive render README.md --line 12          # Cursor on line 12
  mdlive render README.md --lines 1-40       # Only lines 1-40 are visible
  mdlive render README.md --format json      # Machine-readable output
  mdlive render notes.md --resources ./res   # Resolve :/<id> images`

func addRenderFlags(cmd *cobra.Command, flags *renderFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "table", "output format: table, text, json, summary")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "gfm", "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule IDs, aliases or tags to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule IDs, aliases or tags to disable")
	cmd.Flags().StringVar(&flags.resources, "resources", "", "directory that :/<id> resource addresses resolve against")
	cmd.Flags().IntVar(&flags.cursor, "cursor", 0, "cursor byte offset")
	cmd.Flags().IntVar(&flags.line, "line", 0, "cursor line (1-based); overrides --cursor")
	cmd.Flags().StringVar(&flags.lines, "lines", "", "visible line range FIRST-LAST (1-based, inclusive)")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in text output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "omit the summary line")
}

// cliConfig maps explicitly set flags onto a config overlay.
func (f *renderFlags) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{
		EnableRules:  f.enable,
		DisableRules: f.disable,
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = config.OutputFormat(f.format)
	}
	if cmd.Flags().Changed("flavor") {
		cfg.Flavor = config.Flavor(f.flavor)
	}
	if cmd.Flags().Changed("resources") {
		cfg.Resources = f.resources
	}
	return cfg
}

func runRender(cmd *cobra.Command, path string, flags *renderFlags) error {
	ctx := commandContext(cmd)
	logger := logging.ForDocument(logging.FromContext(ctx), path)

	cfg, err := loadConfig(cmd, flags.cliConfig(cmd))
	if err != nil {
		return err
	}

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	sess, err := openSession(ctx, cfg, string(content), logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := sess.Close(); closeErr != nil {
			logger.Warn("close session", logging.FieldError, closeErr)
		}
	}()

	if err := flags.position(ctx, sess.editor); err != nil {
		return err
	}
	if err := sess.settle(); err != nil {
		return err
	}

	rep, err := newReporter(cmd, cfg, flags.noContext, flags.compact, !flags.noSummary)
	if err != nil {
		return err
	}
	if _, err := rep.Report(ctx, sess.result(path)); err != nil {
		return fmt.Errorf("report decorations: %w", err)
	}

	return nil
}

// position applies the cursor and viewport flags.
func (f *renderFlags) position(ctx context.Context, ed *editor.Editor) error {
	doc := ed.State().Doc

	if f.lines != "" {
		visible, err := parseLineRange(doc, f.lines)
		if err != nil {
			return err
		}
		if err := ed.SetVisibleRanges(ctx, []text.Range{visible}); err != nil {
			return fmt.Errorf("set visible ranges: %w", err)
		}
	}

	cursor := f.cursor
	if f.line > 0 {
		line, ok := doc.Line(f.line)
		if !ok {
			return fmt.Errorf("line %d out of range (1-%d)", f.line, doc.LineCount())
		}
		cursor = line.From
	}
	if cursor != 0 {
		if err := ed.SetSelection(ctx, text.SingleCursor(cursor)); err != nil {
			return fmt.Errorf("set selection: %w", err)
		}
	}

	return nil
}

// parseLineRange converts "FIRST-LAST" into the offsets spanning those lines.
func parseLineRange(doc *text.Doc, spec string) (text.Range, error) {
	firstStr, lastStr, ok := strings.Cut(spec, "-")
	if !ok {
		lastStr = firstStr
	}
	first, err := strconv.Atoi(strings.TrimSpace(firstStr))
	if err != nil {
		return text.Range{}, fmt.Errorf("%w %q: %w", ErrInvalidLineRange, spec, err)
	}
	last, err := strconv.Atoi(strings.TrimSpace(lastStr))
	if err != nil {
		return text.Range{}, fmt.Errorf("%w %q: %w", ErrInvalidLineRange, spec, err)
	}
	if first < 1 || last < first {
		return text.Range{}, fmt.Errorf("%w %q", ErrInvalidLineRange, spec)
	}

	last = min(last, doc.LineCount())
	start, ok := doc.Line(first)
	if !ok {
		return text.Range{}, fmt.Errorf("%w %q: document has %d lines", ErrInvalidLineRange, spec, doc.LineCount())
	}
	end, _ := doc.Line(last)
	return text.Range{From: start.From, To: end.To}, nil
}

// newReporter creates a reporter writing to the command output.
func newReporter(cmd *cobra.Command, cfg *config.Config, noContext, compact, summary bool) (reporter.Reporter, error) {
	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return nil, fmt.Errorf("invalid format: %w", err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode,
		ShowContext: !noContext,
		ShowSummary: summary,
		Compact:     compact,
	})
	if err != nil {
		return nil, fmt.Errorf("create reporter: %w", err)
	}
	return rep, nil
}
