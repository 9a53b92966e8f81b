package layout

import "fmt"

// Slot names of the optional page fragments, in skeleton order.
const (
	SlotThemeCSS      = "ThemeCSS"
	SlotFavicon       = "Favicon"
	SlotInHeader      = "InHeader"
	SlotBeforeContent = "BeforeContent"
	SlotLogo          = "Logo"
	SlotAfterContent  = "AfterContent"
)

// Slot is a named optional position in the page skeleton. Fill returns the
// markup for the slot, or "" when the governing field or flag is absent.
type Slot struct {
	Name string
	Fill func(l *Layout, p *Page, themeCSS bool) string
}

var slots = []Slot{
	{Name: SlotThemeCSS, Fill: themeCSSSlot},
	{Name: SlotFavicon, Fill: faviconSlot},
	{Name: SlotInHeader, Fill: func(l *Layout, _ *Page, _ bool) string { return l.ExternalHTML.InHeader }},
	{Name: SlotBeforeContent, Fill: func(l *Layout, _ *Page, _ bool) string { return l.ExternalHTML.BeforeContent }},
	{Name: SlotLogo, Fill: logoSlot},
	{Name: SlotAfterContent, Fill: func(l *Layout, _ *Page, _ bool) string { return l.ExternalHTML.AfterContent }},
}

// Slots returns the optional slots of the page skeleton in document order.
func Slots() []Slot {
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}

func themeCSSSlot(_ *Layout, p *Page, themeCSS bool) string {
	if !themeCSS {
		return ""
	}
	return fmt.Sprintf(`<link rel="stylesheet" type="text/css" href="%stheme.css">`, p.RootPath)
}

func faviconSlot(l *Layout, _ *Page, _ bool) string {
	if l.Favicon == "" {
		return ""
	}
	return fmt.Sprintf(`<link rel="shortcut icon" href="%s">`, l.Favicon)
}

func logoSlot(l *Layout, p *Page, _ bool) string {
	if l.Logo == "" {
		return ""
	}
	return fmt.Sprintf(`<a href='%s%s/index.html'><img src='%s' alt='logo' width='100'></a>`,
		p.RootPath, l.Krate, l.Logo)
}

// AssetFiles lists the files a rendered page expects to find under its root
// path.
func AssetFiles(themeCSS bool) []string {
	files := []string{"normalize.css", "rustdoc.css", "main.css"}
	if themeCSS {
		files = append(files, "theme.css")
	}
	return append(files, "main.js", "search-index.js")
}
