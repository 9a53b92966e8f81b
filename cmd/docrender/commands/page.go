package commands

import (
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docrender/internal/config"
	derrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
	"git.home.luguber.info/inful/docrender/internal/layout"
	"git.home.luguber.info/inful/docrender/internal/markdown"
)

// PageCmd implements the 'page' command. Metadata flags are embedded verbatim.
type PageCmd struct {
	Title       string `help:"Page title"`
	CSSClass    string `name:"css-class" help:"Body CSS class" default:"mod"`
	RootPath    string `name:"root-path" help:"Prefix leading from the page back to the site root, e.g. ../../"`
	Description string `help:"Meta description"`
	Keywords    string `help:"Meta keywords"`

	Sidebar string `type:"existingfile" help:"File with the sidebar HTML"`
	Content string `type:"existingfile" help:"File with the main content; .md files are rendered as Markdown"`

	Crate    string `help:"Crate name (overrides configuration)"`
	Logo     string `help:"Logo URL (overrides configuration)"`
	Favicon  string `help:"Favicon URL (overrides configuration)"`
	ThemeCSS bool   `name:"theme-css" help:"Link the theme stylesheet"`

	Out string `short:"o" help:"Output file (default stdout)" type:"path"`
}

func (p *PageCmd) Run(g *Global, root *CLI) error {
	l, themeCSS, err := p.layout(root.Config)
	if err != nil {
		return err
	}
	sidebar, err := readFragment(p.Sidebar)
	if err != nil {
		return err
	}
	content, err := readFragment(p.Content)
	if err != nil {
		return err
	}

	page := &layout.Page{
		Title:       p.Title,
		CSSClass:    p.CSSClass,
		RootPath:    p.RootPath,
		Description: p.Description,
		Keywords:    p.Keywords,
	}

	out, err := openOutput(p.Out, g.Stdout)
	if err != nil {
		return err
	}
	if err := layout.Render(out, l, page, layout.HTML(sidebar), layout.HTML(content), themeCSS); err != nil {
		_ = out.Close()
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write page").
			WithContext("output", outputName(p.Out)).
			Build()
	}
	if err := out.Close(); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "close output").
			WithContext("output", outputName(p.Out)).
			Build()
	}
	return nil
}

// layout starts from the configuration file when one exists and applies
// the flag overrides.
func (p *PageCmd) layout(configPath string) (*layout.Layout, bool, error) {
	l := &layout.Layout{}
	themeCSS := p.ThemeCSS
	if fileExists(configPath) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, false, err
		}
		if l, err = cfg.Layout(); err != nil {
			return nil, false, err
		}
		themeCSS = themeCSS || cfg.ThemeCSS
	}
	if p.Crate != "" {
		l.Krate = p.Crate
	}
	if p.Logo != "" {
		l.Logo = p.Logo
	}
	if p.Favicon != "" {
		l.Favicon = p.Favicon
	}
	return l, themeCSS, nil
}

func readFragment(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	// #nosec G304 -- fragment path is provided by the operator.
	data, err := os.ReadFile(path)
	if err != nil {
		return "", derrors.WrapError(err, derrors.CategoryFileSystem, "read fragment").
			WithContext("path", path).
			Build()
	}
	if !strings.EqualFold(filepath.Ext(path), ".md") {
		return string(data), nil
	}
	html, err := markdown.Render(data, markdown.Options{AllowRawHTML: true, RewriteDocLinks: true})
	if err != nil {
		return "", derrors.WrapError(err, derrors.CategoryMarkdown, "render fragment").
			WithContext("path", path).
			Build()
	}
	return html, nil
}

func outputName(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}
