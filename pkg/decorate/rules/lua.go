package rules

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/yaklabco/mdlive/pkg/decorate"
	"github.com/yaklabco/mdlive/pkg/decoration"
	"github.com/yaklabco/mdlive/pkg/mdast"
	"github.com/yaklabco/mdlive/pkg/text"
)

// DefaultLuaCallTimeout bounds a single decide call.
const DefaultLuaCallTimeout = 50 * time.Millisecond

// ErrNoDecide is returned when a script does not define decide.
var ErrNoDecide = errors.New("script does not define a decide function")

// LuaRule is a decoration rule implemented by a Lua script.
//
// The script defines a global function decide(node, tags). node is a table
// with kind, from, to, line and text fields; tags maps node kinds to the
// number of enclosing ancestors of that kind. decide returns nil or a table:
//
//	{ kind = "mark" | "hide" | "widget" | "line",
//	  class = "...", text = "...", block = false,
//	  from = 0, to = 0 }
//
// from and to are optional and override the target range. Optional globals
// id, scope ("inline" or "block") and suppress_near_selection configure the
// rule.
//
// Scripts run with the base, table, string and math libraries only.
type LuaRule struct {
	decorate.BaseRule

	mu      sync.Mutex
	vm      *lua.LState
	decide  *lua.LFunction
	scope   Scope
	timeout time.Duration
	logger  *log.Logger

	// Decide stores a custom target for the TargetRange call that follows.
	lastNode   *mdast.Node
	lastTarget text.Range
	hasTarget  bool
}

// LoadLuaRule reads and compiles a rule script. The rule ID defaults to the
// file name without extension.
func LoadLuaRule(path string, env Env) (*LuaRule, error) {
	//nolint:gosec // script paths come from user configuration
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule script: %w", err)
	}
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewLuaRule(id, string(source), env)
}

// NewLuaRule compiles a rule script.
func NewLuaRule(id, source string, env Env) (*LuaRule, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("load rule script %s: %w", id, err)
	}

	decide, ok := L.GetGlobal("decide").(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("rule script %s: %w", id, ErrNoDecide)
	}

	if s, ok := L.GetGlobal("id").(lua.LString); ok && s != "" {
		id = string(s)
	}
	scope := ScopeInline
	if s, ok := L.GetGlobal("scope").(lua.LString); ok {
		parsed, err := ParseScope(string(s))
		if err != nil {
			L.Close()
			return nil, fmt.Errorf("rule script %s: %w", id, err)
		}
		scope = parsed
	}

	rule := &LuaRule{
		BaseRule: decorate.NewBaseRule(id, id, "Lua script rule"),
		vm:       L,
		decide:   decide,
		scope:    scope,
		timeout:  DefaultLuaCallTimeout,
		logger:   env.logger(),
	}
	if b, ok := L.GetGlobal("suppress_near_selection").(lua.LBool); ok {
		rule.SetSuppressNearSelection(bool(b))
	}
	return rule, nil
}

// Scope returns the scope declared by the script.
func (r *LuaRule) Scope() Scope {
	return r.scope
}

// Close releases the Lua state.
func (r *LuaRule) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vm.Close()
}

// Decide implements decorate.Rule. Script errors count as no decoration.
func (r *LuaRule) Decide(node *mdast.Node, state *decorate.State, tags decorate.TagCounts) (decoration.Decoration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastNode, r.hasTarget = node, false

	result, err := r.call(r.nodeTable(node, state), r.tagsTable(tags))
	if err != nil {
		r.logger.Debug("lua rule failed", "rule", r.ID(), "node", node.Kind, "from", node.From, "error", err)
		return decoration.Decoration{}, false
	}
	tbl, ok := result.(*lua.LTable)
	if !ok {
		return decoration.Decoration{}, false
	}

	dec, ok := r.toDecoration(tbl)
	if !ok {
		return decoration.Decoration{}, false
	}

	from, hasFrom := tbl.RawGetString("from").(lua.LNumber)
	to, hasTo := tbl.RawGetString("to").(lua.LNumber)
	if hasFrom {
		if !hasTo {
			to = from
		}
		r.lastTarget = text.Range{From: int(from), To: int(to)}
		r.hasTarget = true
	}
	return dec, true
}

// TargetRange implements decorate.TargetRanger. Without a script-provided
// range, inline rules target the node and block rules its full lines.
func (r *LuaRule) TargetRange(node *mdast.Node, state *decorate.State) (text.Range, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hasTarget && r.lastNode == node {
		return r.lastTarget, true
	}
	if r.scope == ScopeBlock {
		return text.Range{From: state.LineAt(node.From).From, To: state.LineAt(node.To).To}, true
	}
	return text.Range{From: node.From, To: node.To}, true
}

func (r *LuaRule) call(args ...lua.LValue) (lua.LValue, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	r.vm.SetContext(ctx)
	defer r.vm.RemoveContext()

	if err := r.vm.CallByParam(lua.P{Fn: r.decide, NRet: 1, Protect: true}, args...); err != nil {
		return lua.LNil, err
	}
	ret := r.vm.Get(-1)
	r.vm.Pop(1)
	return ret, nil
}

func (r *LuaRule) nodeTable(node *mdast.Node, state *decorate.State) *lua.LTable {
	tbl := r.vm.NewTable()
	tbl.RawSetString("kind", lua.LString(node.Kind.String()))
	tbl.RawSetString("from", lua.LNumber(node.From))
	tbl.RawSetString("to", lua.LNumber(node.To))
	tbl.RawSetString("line", lua.LNumber(state.LineAt(node.From).Number))
	tbl.RawSetString("text", lua.LString(state.Text(node)))
	return tbl
}

func (r *LuaRule) tagsTable(tags decorate.TagCounts) *lua.LTable {
	tbl := r.vm.NewTable()
	for kind := range mdast.NodeKind(mdast.NodeKindCount) {
		if n := tags.Get(kind); n > 0 {
			tbl.RawSetString(kind.String(), lua.LNumber(n))
		}
	}
	return tbl
}

func (r *LuaRule) toDecoration(tbl *lua.LTable) (decoration.Decoration, bool) {
	class := lua.LVAsString(tbl.RawGetString("class"))
	label := lua.LVAsString(tbl.RawGetString("text"))
	block := lua.LVAsBool(tbl.RawGetString("block"))

	switch kind := lua.LVAsString(tbl.RawGetString("kind")); kind {
	case "mark":
		return decoration.Mark(class, nil), true
	case "hide":
		return decoration.Hide(), true
	case "widget":
		return decoration.Replace(decoration.TextWidget{Text: label, IsBlock: block}), true
	case "line":
		return decoration.Line(class, nil), true
	default:
		r.logger.Debug("lua rule returned unknown kind", "rule", r.ID(), "kind", kind)
		return decoration.Decoration{}, false
	}
}
