// Package layout renders documentation pages into complete HTML5 documents.
//
// A Layout carries the site-wide settings shared by every page of a
// generation run; a Page carries per-document metadata. Render composes both
// with a pre-rendered sidebar and main content into the fixed page skeleton,
// and Redirect writes a stub document that forwards the browser elsewhere.
//
// Nothing in this package escapes or validates its inputs. Fragments and
// metadata are embedded verbatim, so callers must hand over strings that are
// already safe for the position they end up in.
package layout

// ExternalHTML holds configuration-supplied markup injected at fixed points of
// every page. Empty fields are omitted.
type ExternalHTML struct {
	InHeader      string
	BeforeContent string
	AfterContent  string
}

// Layout is the site-wide part of a page. It is built once per generation run
// and shared read-only across renders.
type Layout struct {
	Logo         string
	Favicon      string
	ExternalHTML ExternalHTML
	// Krate names the documented unit. It is used as display text and as the
	// first path segment of the logo link.
	Krate string
}

// Page is the per-document metadata of a single render.
type Page struct {
	Title       string
	CSSClass    string
	RootPath    string
	Description string
	Keywords    string
}

// HTML is a pre-rendered fragment of markup.
type HTML string

func (h HTML) String() string { return string(h) }
