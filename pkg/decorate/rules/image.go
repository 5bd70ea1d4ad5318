package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/mdlive/pkg/decorate"
	"github.com/yaklabco/mdlive/pkg/decoration"
	"github.com/yaklabco/mdlive/pkg/mdast"
)

// ImageID is the ID of the block image rule.
const ImageID = "image"

// ResourceTokenKind is the token kind published when a resource reloads.
// The token key is the resource address.
const ResourceTokenKind = "resource"

var (
	resourceAddrPattern = regexp.MustCompile(`:/[a-zA-Z0-9]{32}`)
	imageAltPattern     = regexp.MustCompile(`!\s*\[(.+)\]`)
)

// ResourceAddr returns the first resource address in s.
func ResourceAddr(s string) (string, bool) {
	addr := resourceAddrPattern.FindString(s)
	return addr, addr != ""
}

// ImageWidget renders a resource image as a block.
type ImageWidget struct {
	Src string
	Alt string

	// Revision is the refresh counter of Src when the widget was built.
	// A reloaded resource yields a widget that is no longer equal.
	Revision int
}

// Eq implements decoration.Widget.
func (w ImageWidget) Eq(other decoration.Widget) bool {
	o, ok := other.(ImageWidget)
	return ok && o == w
}

// Block implements decoration.Widget.
func (w ImageWidget) Block() bool { return true }

func (w ImageWidget) String() string {
	return fmt.Sprintf("image(%s rev=%d %q)", w.Src, w.Revision, w.Alt)
}

// ResourceRequester starts loading a resource. Request must not block.
type ResourceRequester interface {
	Request(addr string)
}

// ImageRule replaces resource images that stand alone on their line with a
// block widget.
type ImageRule struct {
	decorate.BaseRule

	cache     decorate.RefreshCache
	resources ResourceRequester
}

// NewImageRule creates a new image rule reading refresh counters from cache.
// A nil cache gives every image revision zero.
func NewImageRule(cache decorate.RefreshCache) *ImageRule {
	return &ImageRule{
		BaseRule: decorate.NewBaseRule(ImageID, "Block images", "Render resource images as blocks"),
		cache:    cache,
	}
}

// SetResources sets the requester asked to load every address the rule
// renders. The widget starts at the current revision; a completed load
// bumps the counter and refreshes it.
func (r *ImageRule) SetResources(resources ResourceRequester) {
	r.resources = resources
}

// Decide implements decorate.Rule.
func (r *ImageRule) Decide(node *mdast.Node, state *decorate.State, _ decorate.TagCounts) (decoration.Decoration, bool) {
	if node.Kind != mdast.NodeImage {
		return decoration.Decoration{}, false
	}

	first := state.LineAt(node.From)
	last := state.LineAt(node.To)
	if strings.TrimSpace(state.Slice(first.From, node.From)) != "" ||
		strings.TrimSpace(state.Slice(node.To, last.To)) != "" {
		return decoration.Decoration{}, false
	}

	source := state.Text(node)
	src, ok := ResourceAddr(source)
	if !ok {
		return decoration.Decoration{}, false
	}

	widget := ImageWidget{Src: src}
	if m := imageAltPattern.FindStringSubmatch(source); m != nil {
		widget.Alt = m[1]
	}
	if r.cache != nil {
		widget.Revision = r.cache.Get(src)
	}
	if r.resources != nil {
		r.resources.Request(src)
	}
	return decoration.Replace(widget), true
}

// ForceFullRecompute implements decorate.RecomputeForcer. Reloaded resources
// change widget revisions, which the mapped set cannot know about.
func (r *ImageRule) ForceFullRecompute(tr *decorate.Transaction) bool {
	return tr.HasToken(ResourceTokenKind, "")
}
