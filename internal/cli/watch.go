package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlive/internal/logging"
	"github.com/yaklabco/mdlive/pkg/decorate"
	"github.com/yaklabco/mdlive/pkg/editor"
	"github.com/yaklabco/mdlive/pkg/fsutil"
	"github.com/yaklabco/mdlive/pkg/text"
)

func newWatchCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-print decorations whenever a Markdown file changes",
		Long: `Watch a Markdown file and keep its decorations live.

Every save is turned into a minimal edit and dispatched to the engines, so
block decorations are mapped through the edit instead of being rebuilt
unless a rule asks for it. When a resource directory is configured, files
appearing or changing there refresh the images that reference them.

Press Ctrl-C to stop.

Examples:
  mdlive watch README.md
  mdlive watch notes.md --resources ./res --format summary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], flags)
		},
	}

	addRenderFlags(cmd, flags)

	return cmd
}

func runWatch(cmd *cobra.Command, path string, flags *renderFlags) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	logger := logging.ForDocument(logging.FromContext(ctx), path)

	cfg, err := loadConfig(cmd, flags.cliConfig(cmd))
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	content, snap, err := fsutil.ReadFile(ctx, absPath)
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

	rep, err := newReporter(cmd, cfg, flags.noContext, flags.compact, !flags.noSummary)
	if err != nil {
		return err
	}
	report := func() error {
		if _, err := rep.Report(ctx, sess.result(path)); err != nil {
			return fmt.Errorf("report decorations: %w", err)
		}
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so saves that replace the file are seen.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}

	var updates <-chan decorate.Token
	if sess.resolver != nil {
		if err := sess.resolver.Watch(); err != nil {
			return fmt.Errorf("watch resources: %w", err)
		}
		updates = sess.resolver.Updates()
	}

	if err := report(); err != nil {
		return err
	}

	logging.NewInteractive().Info("watching for changes", logging.FieldPath, path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			updated, next, err := fsutil.ReadFile(ctx, absPath)
			if err != nil {
				logger.Warn("read changed file", logging.FieldError, err)
				continue
			}
			// Editors often emit several events per save.
			if next.Same(snap) {
				continue
			}
			snap = next
			changed, err := applyContent(ctx, sess.editor, string(updated))
			if err != nil {
				logger.Warn("apply change", logging.FieldError, err)
			}
			if changed {
				if err := report(); err != nil {
					return err
				}
			}

		case token := <-updates:
			if err := sess.editor.Notify(token); err != nil {
				logger.Warn("refresh", logging.FieldToken, token.Key, logging.FieldError, err)
			}
			if err := report(); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logging.FieldError, err)
		}
	}
}

// applyContent dispatches the minimal edit turning the editor text into
// content. It reports whether anything changed.
func applyContent(ctx context.Context, ed *editor.Editor, content string) (bool, error) {
	edit, ok := diffEdit(ed.Text(), content)
	if !ok {
		return false, nil
	}
	if _, err := ed.Dispatch(ctx, editor.TransactionSpec{Edits: []text.Edit{edit}}); err != nil {
		return true, fmt.Errorf("dispatch: %w", err)
	}
	return true, nil
}

// diffEdit returns the single replacement that turns before into after,
// trimming their common prefix and suffix.
func diffEdit(before, after string) (text.Edit, bool) {
	if before == after {
		return text.Edit{}, false
	}

	prefix := 0
	limit := min(len(before), len(after))
	for prefix < limit && before[prefix] == after[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < limit-prefix && before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}

	return text.Replace(prefix, len(before)-suffix, after[prefix:len(after)-suffix]), true
}
