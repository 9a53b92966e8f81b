package markdown

import (
	"net/url"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// docLinkRewriter points links to sibling Markdown pages at their HTML output.
type docLinkRewriter struct{}

func (docLinkRewriter) Transform(doc *gmast.Document, _ text.Reader, _ parser.Context) {
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if link, ok := n.(*gmast.Link); ok {
			link.Destination = []byte(RewriteDocLink(string(link.Destination)))
		}
		return gmast.WalkContinue, nil
	})
}

// IsExternal reports whether dest leaves the documentation tree: it has a
// scheme or host, is absolute, or cannot be parsed.
func IsExternal(dest string) bool {
	if strings.HasPrefix(dest, "/") {
		return true
	}
	u, err := url.Parse(dest)
	if err != nil {
		return true
	}
	return u.Scheme != "" || u.Host != ""
}

// SplitFragment separates a link into its path and "#fragment" parts.
func SplitFragment(dest string) (string, string) {
	if i := strings.IndexByte(dest, '#'); i >= 0 {
		return dest[:i], dest[i:]
	}
	return dest, ""
}

// RewriteDocLink rewrites a relative "page.md#frag" link to "page.html#frag".
// Other destinations are returned unchanged.
func RewriteDocLink(dest string) string {
	if IsExternal(dest) {
		return dest
	}
	p, frag := SplitFragment(dest)
	if len(p) > 3 && strings.EqualFold(p[len(p)-3:], ".md") {
		return p[:len(p)-3] + ".html" + frag
	}
	return dest
}
