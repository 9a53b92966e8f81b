package site

import (
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/docrender/internal/markdown"
)

// BrokenLink is a relative link to a Markdown page that was not discovered.
type BrokenLink struct {
	Source string
	Target string
}

// findBrokenLinks reports relative .md links in docs whose target is not
// one of docs.
func findBrokenLinks(docs []*Document) []BrokenLink {
	known := make(map[string]bool, len(docs))
	for _, d := range docs {
		known[d.Rel] = true
	}

	var broken []BrokenLink
	for _, d := range docs {
		links, err := markdown.ExtractLinks(d.Body, markdown.Options{})
		if err != nil {
			continue
		}
		for _, l := range links {
			if l.Kind != markdown.LinkKindInline || markdown.IsExternal(l.Destination) {
				continue
			}
			target, _ := markdown.SplitFragment(l.Destination)
			if unescaped, err := url.PathUnescape(target); err == nil {
				target = unescaped
			}
			if !strings.EqualFold(path.Ext(target), ".md") {
				continue
			}
			resolved := path.Clean(path.Join(path.Dir(d.Rel), target))
			if !known[resolved] {
				broken = append(broken, BrokenLink{Source: d.Rel, Target: l.Destination})
			}
		}
	}
	return broken
}
