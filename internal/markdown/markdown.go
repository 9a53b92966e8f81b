// Package markdown converts Markdown bodies to HTML fragments and inspects
// their links. Front matter must already be removed.
package markdown

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

func newGoldmark(opts Options) goldmark.Markdown {
	parserOpts := []parser.Option{parser.WithAutoHeadingID()}
	if opts.RewriteDocLinks {
		parserOpts = append(parserOpts, parser.WithASTTransformers(util.Prioritized(docLinkRewriter{}, 500)))
	}
	gmOpts := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parserOpts...),
	}
	if opts.AllowRawHTML {
		gmOpts = append(gmOpts, goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	}
	return goldmark.New(gmOpts...)
}

// Render converts a Markdown body into an HTML fragment.
func Render(body []byte, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := newGoldmark(opts).Convert(body, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ExtractLinks parses a Markdown body and extracts link-like constructs.
//
// Links inside code spans and code blocks are not reported.
func ExtractLinks(body []byte, opts Options) ([]Link, error) {
	// Destinations are reported as written in the source.
	opts.RewriteDocLinks = false
	ctx := parser.NewContext()
	root := newGoldmark(opts).Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			// Reference-style links resolve to a Link node with a Destination.
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not in the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}

	return links, nil
}
