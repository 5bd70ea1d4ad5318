// Package decoration defines immutable presentation instructions over
// document ranges and the ordered sets that hold them.
package decoration

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Widget is an opaque renderable that replaces or sits between text.
// Implementations must be immutable values.
type Widget interface {
	// Eq reports whether the widget renders identically to other.
	// Hosts use it to skip redrawing unchanged widgets.
	Eq(other Widget) bool

	// Block reports whether the widget occupies its own line.
	Block() bool

	// String describes the widget for logs and tooling.
	String() string
}

// Kind classifies a decoration.
type Kind uint8

const (
	// KindReplace hides its range and optionally draws a widget instead.
	KindReplace Kind = iota

	// KindMark styles its range without hiding it.
	KindMark

	// KindWidget draws a widget at a single position.
	KindWidget

	// KindLine styles the line starting at its position.
	KindLine
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindReplace:
		return "replace"
	case KindMark:
		return "mark"
	case KindWidget:
		return "widget"
	case KindLine:
		return "line"
	default:
		return "unknown"
	}
}

// Decoration is an immutable presentation instruction. The zero value is
// an inline replace without a widget, i.e. hidden text.
type Decoration struct {
	kind   Kind
	widget Widget
	block  bool
	side   int
	class  string
	attrs  map[string]string
}

// Replace returns a decoration that hides its range behind w. The
// decoration is block-level when the widget is.
func Replace(w Widget) Decoration {
	return Decoration{kind: KindReplace, widget: w, block: w != nil && w.Block()}
}

// Hide returns a decoration that hides its range without drawing anything.
func Hide() Decoration {
	return Decoration{kind: KindReplace}
}

// Mark returns a decoration that styles its range with a class and
// optional attributes.
func Mark(class string, attrs map[string]string) Decoration {
	return Decoration{kind: KindMark, class: class, attrs: maps.Clone(attrs)}
}

// Point returns a widget decoration drawn at a single position. Side orders
// it against text inserted at the same position: negative sides stay before.
func Point(w Widget, side int) Decoration {
	return Decoration{kind: KindWidget, widget: w, block: w != nil && w.Block(), side: side}
}

// Line returns a decoration that styles a whole line.
func Line(class string, attrs map[string]string) Decoration {
	return Decoration{kind: KindLine, class: class, attrs: maps.Clone(attrs)}
}

// Kind returns the decoration kind.
func (d Decoration) Kind() Kind { return d.kind }

// Widget returns the widget, or nil.
func (d Decoration) Widget() Widget { return d.widget }

// Block reports whether the decoration is block-level.
func (d Decoration) Block() bool { return d.block }

// Side returns the point side for widget decorations.
func (d Decoration) Side() int { return d.side }

// Class returns the style class for marks and line decorations.
func (d Decoration) Class() string { return d.class }

// Attr returns a single attribute.
func (d Decoration) Attr(key string) (string, bool) {
	v, ok := d.attrs[key]
	return v, ok
}

// Attrs returns a copy of the attributes.
func (d Decoration) Attrs() map[string]string {
	return maps.Clone(d.attrs)
}

// IsPoint reports whether the decoration occupies a single position.
func (d Decoration) IsPoint() bool {
	return d.kind == KindWidget || d.kind == KindLine
}

// AsPoint converts a replacement into a point widget at the same position.
// Other kinds are returned unchanged.
func (d Decoration) AsPoint() Decoration {
	if d.kind != KindReplace {
		return d
	}
	return Point(d.widget, 0)
}

// Eq reports whether two decorations are interchangeable. Widget equality
// is delegated to the widgets.
func (d Decoration) Eq(other Decoration) bool {
	if d.kind != other.kind || d.block != other.block || d.side != other.side || d.class != other.class {
		return false
	}
	if !maps.Equal(d.attrs, other.attrs) {
		return false
	}
	switch {
	case d.widget == nil || other.widget == nil:
		return d.widget == nil && other.widget == nil
	default:
		return d.widget.Eq(other.widget)
	}
}

func (d Decoration) String() string {
	var b strings.Builder
	b.WriteString(d.kind.String())
	if d.block {
		b.WriteString("(block)")
	}
	if d.widget != nil {
		b.WriteString(" ")
		b.WriteString(d.widget.String())
	}
	if d.class != "" {
		b.WriteString(" .")
		b.WriteString(d.class)
	}
	if len(d.attrs) > 0 {
		keys := slices.Sorted(maps.Keys(d.attrs))
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%q", k, d.attrs[k])
		}
	}
	return b.String()
}

// TextWidget is a simple widget that renders a fixed label.
type TextWidget struct {
	Text    string
	IsBlock bool
}

// Eq implements Widget.
func (w TextWidget) Eq(other Widget) bool {
	o, ok := other.(TextWidget)
	return ok && o == w
}

// Block implements Widget.
func (w TextWidget) Block() bool { return w.IsBlock }

func (w TextWidget) String() string { return fmt.Sprintf("text(%q)", w.Text) }
