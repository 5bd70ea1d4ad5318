package rules

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdlive/pkg/decorate"
)

// Scope selects the engine a rule runs under.
type Scope int

const (
	// ScopeInline rules run under the viewport engine.
	ScopeInline Scope = iota

	// ScopeBlock rules run under the whole-document engine.
	ScopeBlock
)

// String returns the scope name.
func (s Scope) String() string {
	if s == ScopeBlock {
		return "block"
	}
	return "inline"
}

// ParseScope converts "inline" or "block" to a Scope.
func ParseScope(name string) (Scope, error) {
	switch name {
	case "", "inline":
		return ScopeInline, nil
	case "block":
		return ScopeBlock, nil
	default:
		return ScopeInline, fmt.Errorf("unknown rule scope %q", name)
	}
}

// Env carries the collaborators rule factories may need.
type Env struct {
	// Cache holds per-resource refresh counters.
	Cache decorate.RefreshCache

	// Resources loads resources referenced by rules. May be nil.
	Resources ResourceRequester

	// Logger receives rule diagnostics. Nil uses the default logger.
	Logger *log.Logger
}

func (e Env) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.Default()
}

// Options holds rule-specific configuration values.
type Options map[string]any

// String returns a string option or def when unset or of another type.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Bool returns a bool option or def when unset or of another type.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// Factory builds a rule instance for one composition.
type Factory func(env Env, opts Options) (decorate.Rule, error)

// Entry describes a registered rule.
type Entry struct {
	ID          string
	Description string
	Scope       Scope

	// Default marks rules enabled when configuration does not mention them.
	Default bool

	New Factory
}

// Registry holds the known rule factories.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]Entry
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Entry)}
}

// Register adds an entry to the registry.
// If an entry with the same ID already exists, it is replaced.
func (r *Registry) Register(entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[entry.ID] = entry
}

// Get retrieves an entry by ID.
func (r *Registry) Get(id string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.byID[id]
	return entry, ok
}

// Entries returns all registered entries sorted by ID.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Entry, 0, len(r.byID))
	for _, entry := range r.byID {
		result = append(result, entry)
	}
	slices.SortFunc(result, func(a, b Entry) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return result
}

// IDs returns all registered rule IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.byID))
	for id := range r.byID {
		result = append(result, id)
	}
	slices.Sort(result)
	return result
}

// DefaultIDs returns the IDs of the rules enabled by default, sorted.
func (r *Registry) DefaultIDs() []string {
	var ids []string
	for _, entry := range r.Entries() {
		if entry.Default {
			ids = append(ids, entry.ID)
		}
	}
	return ids
}

// Built is a rule instance together with the scope it runs under.
type Built struct {
	Rule  decorate.Rule
	Scope Scope
}

// Build instantiates the rules with the given IDs, in order.
func (r *Registry) Build(ids []string, env Env, opts map[string]Options) ([]Built, error) {
	built := make([]Built, 0, len(ids))
	for _, id := range ids {
		entry, ok := r.Get(id)
		if !ok {
			return nil, fmt.Errorf("unknown rule %q", id)
		}
		rule, err := entry.New(env, opts[id])
		if err != nil {
			return nil, fmt.Errorf("build rule %s: %w", id, err)
		}
		built = append(built, Built{Rule: rule, Scope: entry.Scope})
	}
	return built, nil
}

// RegisterAll registers the built-in rules with the given registry.
func RegisterAll(reg *Registry) {
	reg.Register(Entry{
		ID:          CheckboxID,
		Description: "Render task markers as checkboxes",
		Scope:       ScopeInline,
		Default:     true,
		New: func(Env, Options) (decorate.Rule, error) {
			return NewCheckboxRule(), nil
		},
	})
	reg.Register(Entry{
		ID:          ImageID,
		Description: "Render resource images as blocks",
		Scope:       ScopeBlock,
		Default:     true,
		New: func(env Env, _ Options) (decorate.Rule, error) {
			rule := NewImageRule(env.Cache)
			rule.SetResources(env.Resources)
			return rule, nil
		},
	})
	reg.Register(Entry{
		ID:          HTMLTagsID,
		Description: "Hide sub, sup, strike and span tags",
		Scope:       ScopeInline,
		Default:     true,
		New: func(Env, Options) (decorate.Rule, error) {
			return NewHTMLTagsRule(), nil
		},
	})
	reg.Register(Entry{
		ID:          HTMLContentID,
		Description: "Style the content of sub, sup, strike and span tags",
		Scope:       ScopeInline,
		Default:     true,
		New: func(Env, Options) (decorate.Rule, error) {
			return NewHTMLContentRule(), nil
		},
	})
	reg.Register(Entry{
		ID:          StyledSpansID,
		Description: "Apply span colors, also next to the cursor",
		Scope:       ScopeInline,
		New: func(Env, Options) (decorate.Rule, error) {
			return NewStyledSpansRule(), nil
		},
	})
	reg.Register(Entry{
		ID:          CodeBadgeID,
		Description: "Label fenced code blocks with their detected language",
		Scope:       ScopeInline,
		Default:     true,
		New: func(_ Env, opts Options) (decorate.Rule, error) {
			return NewCodeBadgeRule(opts.Bool("label_declared", false)), nil
		},
	})
}

// DefaultRegistry is the global registry for built-in rules.
// Rules register themselves during init().
//
//nolint:gochecknoglobals // Global registry is intentional for rule registration
var DefaultRegistry = NewRegistry()

func init() {
	RegisterAll(DefaultRegistry)
}
