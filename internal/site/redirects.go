package site

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	derrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
	"git.home.luguber.info/inful/docrender/internal/layout"
)

// redirect is a stub page at From (relative to the site root) forwarding to To.
type redirect struct {
	From string
	To   string
}

// collectRedirects merges the configured redirects with front matter aliases.
// Alias targets are made relative to the alias location.
func collectRedirects(configured map[string]string, docs []*Document) ([]redirect, error) {
	pages := make(map[string]string, len(docs))
	for _, d := range docs {
		pages[d.OutputRel] = d.Rel
	}

	seen := make(map[string]bool)
	var out []redirect
	add := func(from, to, origin string) error {
		if pages[from] != "" {
			return derrors.ValidationError("redirect overwrites a page").
				WithContext("redirect", from).
				WithContext("origin", origin).
				Build()
		}
		if seen[from] {
			return derrors.ValidationError("duplicate redirect").
				WithContext("redirect", from).
				WithContext("origin", origin).
				Build()
		}
		seen[from] = true
		out = append(out, redirect{From: from, To: to})
		return nil
	}

	keys := make([]string, 0, len(configured))
	for k := range configured {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, from := range keys {
		if err := add(path.Clean(filepath.ToSlash(from)), configured[from], "config"); err != nil {
			return nil, err
		}
	}

	for _, d := range docs {
		for _, alias := range d.Meta.Aliases {
			from, err := aliasPath(alias)
			if err != nil {
				return nil, derrors.WrapError(err, derrors.CategoryValidation, "invalid alias").
					WithContext("page", d.Rel).
					Build()
			}
			if err := add(from, RootPathFor(from)+d.OutputRel, d.Rel); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// aliasPath normalizes a front matter alias: directories get an index.html.
func aliasPath(alias string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(filepath.ToSlash(alias), "/"))
	if clean == "." || !filepath.IsLocal(filepath.FromSlash(clean)) {
		return "", derrors.ValidationError("alias must stay inside the site").
			WithContext("alias", alias).
			Build()
	}
	if path.Ext(clean) != ".html" {
		clean = path.Join(clean, "index.html")
	}
	return clean, nil
}

// writeRedirect streams a redirect document straight into its output file.
func writeRedirect(outputDir string, r redirect) error {
	p := filepath.Join(outputDir, filepath.FromSlash(r.From))
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return err
	}
	// #nosec G304 -- p is validated to stay under outputDir.
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if err := layout.Redirect(f, r.To); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
