// Package goldmark provides a syntax tree parser backed by the goldmark library.
package goldmark

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdlive/pkg/mdast"
	"github.com/yaklabco/mdlive/pkg/text"
)

// Flavor identifies the Markdown flavor supported by the parser.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Parser produces positioned mdast trees using goldmark.
type Parser struct {
	flavor string
	md     goldmark.Markdown
}

// New creates a new goldmark-based parser for the given flavor.
// Supported flavors are "commonmark" and "gfm".
// Invalid flavors default to "gfm", since task lists and strikethrough
// are only recognized there.
func New(flavor string) *Parser {
	f := flavorOrDefault(flavor)
	return &Parser{
		flavor: f,
		md:     newGoldmarkInstance(f),
	}
}

// Flavor returns the configured Markdown flavor.
func (p *Parser) Flavor() string {
	return p.flavor
}

// Parse builds the syntax tree for doc. The tree is keyed to doc's version.
// Returns nil and an error if the context is cancelled.
func (p *Parser) Parse(ctx context.Context, doc *text.Doc) (*mdast.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	content := doc.Bytes()
	reader := gmtext.NewReader(content)
	gmDoc := p.md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	root := newMapper(content).mapDocument(gmDoc)

	return &mdast.Tree{
		Content: doc.String(),
		Root:    root,
		Version: doc.Version(),
	}, nil
}

// flavorOrDefault returns the flavor if valid, otherwise defaults to GFM.
func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorGFM
	}
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option

	switch flavor {
	case FlavorGFM:
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	case FlavorCommonMark:
		// No extensions for pure CommonMark.
	}

	return goldmark.New(opts...)
}
