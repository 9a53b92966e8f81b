package layout

import (
	"fmt"
	"io"
	"text/template"
)

const pageSkeleton = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="generator" content="rustdoc">
    <meta name="description" content="{{.Description}}">
    <meta name="keywords" content="{{.Keywords}}">

    <title>{{.Title}}</title>

    <link rel="stylesheet" type="text/css" href="{{.RootPath}}normalize.css">
    <link rel="stylesheet" type="text/css" href="{{.RootPath}}rustdoc.css">
    <link rel="stylesheet" type="text/css" href="{{.RootPath}}main.css">
    {{.ThemeCSS}}

    {{.Favicon}}
    {{.InHeader}}
</head>
<body class="rustdoc {{.CSSClass}}">
    <!--[if lte IE 8]>
    <div class="warning">
        This old browser is unsupported and will most likely display funky
        things.
    </div>
    <![endif]-->

    {{.BeforeContent}}

    <nav class="sidebar">
        {{.Logo}}
        {{.Sidebar}}
    </nav>

    <nav class="sub">
        <form class="search-form js-only">
            <div class="search-container">
                <input class="search-input" name="search"
                       autocomplete="off"
                       placeholder="Click or press ‘S’ to search, ‘?’ for more options…"
                       type="search">
            </div>
        </form>
    </nav>

    <section id='main' class="content">{{.Content}}</section>
    <section id='search' class="content hidden"></section>

    <section class="footer"></section>

    <aside id="help" class="hidden">
        <div>
            <h1 class="hidden">Help</h1>

            <div class="shortcuts">
                <h2>Keyboard Shortcuts</h2>

                <dl>
                    <dt>?</dt>
                    <dd>Show this help dialog</dd>
                    <dt>S</dt>
                    <dd>Focus the search field</dd>
                    <dt>↑</dt>
                    <dd>Move up in search results</dd>
                    <dt>↓</dt>
                    <dd>Move down in search results</dd>
                    <dt>↹</dt>
                    <dd>Switch tab</dd>
                    <dt>&#9166;</dt>
                    <dd>Go to active search result</dd>
                    <dt style="width:31px;">+ / -</dt>
                    <dd>Collapse/expand all sections</dd>
                </dl>
            </div>

            <div class="infos">
                <h2>Search Tricks</h2>

                <p>
                    Prefix searches with a type followed by a colon (e.g.
                    <code>fn:</code>) to restrict the search to a given type.
                </p>

                <p>
                    Accepted types are: <code>fn</code>, <code>mod</code>,
                    <code>struct</code>, <code>enum</code>,
                    <code>trait</code>, <code>type</code>, <code>macro</code>,
                    and <code>const</code>.
                </p>

                <p>
                    Search functions by type signature (e.g.
                    <code>vec -> usize</code> or <code>* -> vec</code>)
                </p>
            </div>
        </div>
    </aside>

    {{.AfterContent}}

    <script>
        window.rootPath = "{{.RootPath}}";
        window.currentCrate = "{{.Krate}}";
    </script>
    <script src="{{.RootPath}}main.js"></script>
    <script defer src="{{.RootPath}}search-index.js"></script>
</body>
</html>`

// text/template performs no escaping, which is what the skeleton needs.
var pageTemplate = template.Must(template.New("page").Option("missingkey=error").Parse(pageSkeleton))

// Render writes the complete HTML document for one page to w.
//
// sidebar and content are embedded verbatim inside the sidebar nav and the
// main section. themeCSS controls the optional theme.css link. The only error
// Render returns is one reported by w, unchanged.
func Render(w io.Writer, l *Layout, p *Page, sidebar, content fmt.Stringer, themeCSS bool) error {
	return pageTemplate.Execute(w, pageFields(l, p, sidebar, content, themeCSS))
}

func pageFields(l *Layout, p *Page, sidebar, content fmt.Stringer, themeCSS bool) map[string]string {
	if l == nil {
		l = &Layout{}
	}
	if p == nil {
		p = &Page{}
	}

	fields := map[string]string{
		"Title":       p.Title,
		"Description": p.Description,
		"Keywords":    p.Keywords,
		"CSSClass":    p.CSSClass,
		"RootPath":    p.RootPath,
		"Krate":       l.Krate,
		"Sidebar":     fragment(sidebar),
		"Content":     fragment(content),
	}
	for _, s := range slots {
		fields[s.Name] = s.Fill(l, p, themeCSS)
	}
	return fields
}

func fragment(s fmt.Stringer) string {
	if s == nil {
		return ""
	}
	return s.String()
}
