package site

import (
	"strings"

	"golang.org/x/net/html"
)

// sidebar renders the navigation for current: the crate name followed by a
// link to every page, relative to current's location.
func sidebar(crate string, docs []*Document, current *Document) string {
	root := current.RootPath()

	var sb strings.Builder
	sb.WriteString(`<p class="location"><a href="`)
	sb.WriteString(root + html.EscapeString(crate) + "/index.html")
	sb.WriteString(`">`)
	sb.WriteString(html.EscapeString(crate))
	sb.WriteString("</a></p>\n")
	sb.WriteString(`        <div class="block items"><ul>`)
	for _, d := range docs {
		sb.WriteString("\n            <li><a href=\"")
		sb.WriteString(root + html.EscapeString(d.OutputRel))
		sb.WriteString(`"`)
		if d == current {
			sb.WriteString(` class="current"`)
		}
		sb.WriteString(">")
		sb.WriteString(html.EscapeString(d.Title()))
		sb.WriteString("</a></li>")
	}
	sb.WriteString("\n        </ul></div>")
	return sb.String()
}
