package markdown

// Options controls how Markdown is parsed and rendered.
type Options struct {
	// AllowRawHTML passes raw HTML blocks and inline tags through to the
	// output instead of omitting them.
	AllowRawHTML bool
	// RewriteDocLinks points relative links to .md pages at the rendered
	// .html pages.
	RewriteDocLinks bool
}

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
}
