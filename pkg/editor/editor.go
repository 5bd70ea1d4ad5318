// Package editor provides a reference host for the decoration engines.
//
// An Editor owns the document, its syntax tree, the selection and the
// visible ranges. Every change goes through Dispatch, which applies it,
// reparses, and hands one transaction to each attached engine in
// attachment order before calling transaction listeners. Everything runs on
// the caller's goroutine; an Editor is not safe for concurrent use.
package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdlive/pkg/decorate"
	"github.com/yaklabco/mdlive/pkg/decorate/rules"
	"github.com/yaklabco/mdlive/pkg/decoration"
	"github.com/yaklabco/mdlive/pkg/mdast"
	"github.com/yaklabco/mdlive/pkg/text"
)

// Parser builds a syntax tree for a document version.
type Parser interface {
	Parse(ctx context.Context, doc *text.Doc) (*mdast.Tree, error)
}

// Engine is the part of a decoration engine the editor drives.
type Engine interface {
	Rule() decorate.Rule
	Decorations() decoration.Set
	Update(tr *decorate.Transaction) error
	Notify(token decorate.Token) error
}

// Listener is called after every dispatched transaction.
type Listener func(tr *decorate.Transaction) error

// TokenSource queues refresh tokens produced off the host goroutine.
type TokenSource interface {
	Drain(fn func(decorate.Token)) int
}

// Options configures an Editor.
type Options struct {
	// Engine is passed to every engine the editor attaches.
	Engine decorate.Options

	// ManualParse stops Dispatch from reparsing after edits. The tree stays
	// at its old version until Reparse is called.
	ManualParse bool

	// Logger receives host diagnostics. Nil uses the default logger.
	Logger *log.Logger
}

// DefaultOptions returns the default editor options.
func DefaultOptions() Options {
	return Options{Engine: decorate.DefaultOptions()}
}

// TransactionSpec describes one change to the editor state.
type TransactionSpec struct {
	// Edits are applied together against the current document.
	Edits []text.Edit

	// Selection replaces the selection. Nil maps the current selection
	// through the edits.
	Selection *text.Selection

	// Visible replaces the visible ranges. Nil maps the current ones.
	Visible []text.Range

	// Tokens are delivered with the transaction.
	Tokens []decorate.Token
}

// Editor hosts a document and the engines decorating it.
type Editor struct {
	parser Parser
	opts   Options
	logger *log.Logger

	state     *decorate.State
	engines   []Engine
	listeners []Listener
}

// New parses content and returns an editor with the cursor at offset 0.
func New(ctx context.Context, content string, parser Parser, opts Options) (*Editor, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.Engine.Logger == nil {
		opts.Engine.Logger = logger
	}

	doc := text.NewDoc(content)
	tree, err := parser.Parse(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return &Editor{
		parser: parser,
		opts:   opts,
		logger: logger,
		state: &decorate.State{
			Doc:       doc,
			Tree:      tree,
			Selection: text.SingleCursor(0),
		},
	}, nil
}

// State returns the current state. It must not be modified.
func (e *Editor) State() *decorate.State {
	return e.state
}

// Text returns the current document content.
func (e *Editor) Text() string {
	return e.state.Doc.String()
}

// AttachViewport attaches a viewport engine for rule.
func (e *Editor) AttachViewport(rule decorate.Rule) (*decorate.ViewportEngine, error) {
	engine, err := decorate.NewViewportEngine(rule, e.state, e.opts.Engine)
	if err != nil {
		return nil, fmt.Errorf("attach %s: %w", rule.ID(), err)
	}
	e.engines = append(e.engines, engine)
	return engine, nil
}

// AttachDocument attaches a whole-document engine for rule.
func (e *Editor) AttachDocument(rule decorate.Rule) (*decorate.DocumentEngine, error) {
	engine, err := decorate.NewDocumentEngine(rule, e.state, e.opts.Engine)
	if err != nil {
		return nil, fmt.Errorf("attach %s: %w", rule.ID(), err)
	}
	e.engines = append(e.engines, engine)
	return engine, nil
}

// Attach attaches an engine for each built rule, choosing the engine by the
// rule's scope.
func (e *Editor) Attach(built ...rules.Built) error {
	for _, b := range built {
		var err error
		switch b.Scope {
		case rules.ScopeBlock:
			_, err = e.AttachDocument(b.Rule)
		default:
			_, err = e.AttachViewport(b.Rule)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Engines returns the attached engines in attachment order.
func (e *Editor) Engines() []Engine {
	return append([]Engine(nil), e.engines...)
}

// OnTransaction registers a listener called after the engines have
// processed each transaction.
func (e *Editor) OnTransaction(listener Listener) {
	e.listeners = append(e.listeners, listener)
}

// Dispatch applies spec and delivers the resulting transaction. Invalid
// edits are rejected before anything changes. Engine and listener errors
// do not stop delivery; they are joined into the returned error.
func (e *Editor) Dispatch(ctx context.Context, spec TransactionSpec) (*decorate.Transaction, error) {
	start := e.state

	changes, err := text.NewChangeSet(start.Doc.Len(), spec.Edits...)
	if err != nil {
		return nil, fmt.Errorf("invalid edits: %w", err)
	}
	doc, err := start.Doc.Apply(changes)
	if err != nil {
		return nil, fmt.Errorf("apply edits: %w", err)
	}

	tree := start.Tree
	if doc != start.Doc && !e.opts.ManualParse {
		tree, err = e.parser.Parse(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("parse document: %w", err)
		}
	}

	next := &decorate.State{
		Doc:       doc,
		Tree:      tree,
		Selection: e.selection(spec, changes, doc),
		Visible:   e.visible(spec, changes, doc),
	}
	tr := &decorate.Transaction{
		Start:   start,
		State:   next,
		Changes: changes,
		Tokens:  spec.Tokens,
	}
	return tr, e.deliver(tr)
}

// Notify delivers a refresh token to every engine.
func (e *Editor) Notify(token decorate.Token) error {
	var errs []error
	for _, engine := range e.engines {
		if err := engine.Notify(token); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Pump forwards every token queued in src to the engines and returns how
// many were delivered.
func (e *Editor) Pump(src TokenSource) (int, error) {
	var errs []error
	n := src.Drain(func(token decorate.Token) {
		if err := e.Notify(token); err != nil {
			errs = append(errs, err)
		}
	})
	return n, errors.Join(errs...)
}

// Reparse parses the current document and delivers the new tree.
func (e *Editor) Reparse(ctx context.Context) error {
	start := e.state
	tree, err := e.parser.Parse(ctx, start.Doc)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}

	next := *start
	next.Tree = tree
	return e.deliver(&decorate.Transaction{
		Start:   start,
		State:   &next,
		Changes: text.EmptyChangeSet(start.Doc.Len()),
	})
}

// SetSelection replaces the selection.
func (e *Editor) SetSelection(ctx context.Context, sel text.Selection) error {
	_, err := e.Dispatch(ctx, TransactionSpec{Selection: &sel})
	return err
}

// SetVisibleRanges replaces the visible ranges. An empty list makes the
// whole document visible.
func (e *Editor) SetVisibleRanges(ctx context.Context, ranges []text.Range) error {
	if ranges == nil {
		ranges = []text.Range{}
	}
	_, err := e.Dispatch(ctx, TransactionSpec{Visible: ranges})
	return err
}

// Decorations merges the sets of all engines, ordered by start position.
// Ranges with equal bounds keep attachment order.
func (e *Editor) Decorations() decoration.Set {
	var ranges []decoration.Range
	for _, engine := range e.engines {
		ranges = append(ranges, engine.Decorations().Ranges()...)
	}
	return decoration.NewSet(ranges...)
}

// DecorationsOf returns the set of the first engine running the rule id.
func (e *Editor) DecorationsOf(id string) (decoration.Set, bool) {
	for _, engine := range e.engines {
		if engine.Rule().ID() == id {
			return engine.Decorations(), true
		}
	}
	return decoration.Set{}, false
}

func (e *Editor) deliver(tr *decorate.Transaction) error {
	e.state = tr.State

	var errs []error
	for _, engine := range e.engines {
		if err := engine.Update(tr); err != nil {
			e.logger.Debug("engine update failed", "rule", engine.Rule().ID(), "error", err)
			errs = append(errs, err)
		}
	}
	for _, listener := range e.listeners {
		if err := listener(tr); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *Editor) selection(spec TransactionSpec, changes text.ChangeSet, doc *text.Doc) text.Selection {
	if spec.Selection != nil {
		return spec.Selection.Clamp(doc.Len())
	}
	return e.state.Selection.Map(changes, 1)
}

func (e *Editor) visible(spec TransactionSpec, changes text.ChangeSet, doc *text.Doc) []text.Range {
	source := e.state.Visible
	if spec.Visible != nil {
		source = spec.Visible
		changes = text.EmptyChangeSet(e.state.Doc.Len())
	}

	out := make([]text.Range, 0, len(source))
	for _, r := range source {
		from := min(max(changes.MapPos(r.From, -1), 0), doc.Len())
		to := min(max(changes.MapPos(r.To, 1), from), doc.Len())
		out = append(out, text.Range{From: from, To: to})
	}
	return out
}
