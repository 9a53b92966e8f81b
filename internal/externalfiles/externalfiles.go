// Package externalfiles loads the operator-supplied HTML injected into every
// page: extra head markup, a banner before the content and a trailer after it.
package externalfiles

import (
	"os"
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
	"git.home.luguber.info/inful/docrender/internal/layout"
	"git.home.luguber.info/inful/docrender/internal/markdown"
)

// Load reads the files for each injection point and concatenates them in
// order. Files with a .md extension are converted from Markdown first; raw
// HTML inside them is kept.
func Load(inHeader, beforeContent, afterContent []string) (layout.ExternalHTML, error) {
	var ext layout.ExternalHTML
	var err error
	if ext.InHeader, err = loadAll(inHeader); err != nil {
		return layout.ExternalHTML{}, err
	}
	if ext.BeforeContent, err = loadAll(beforeContent); err != nil {
		return layout.ExternalHTML{}, err
	}
	if ext.AfterContent, err = loadAll(afterContent); err != nil {
		return layout.ExternalHTML{}, err
	}
	return ext, nil
}

func loadAll(paths []string) (string, error) {
	var sb strings.Builder
	for _, p := range paths {
		chunk, err := loadFile(p)
		if err != nil {
			return "", err
		}
		sb.WriteString(chunk)
	}
	return sb.String(), nil
}

func loadFile(path string) (string, error) {
	// #nosec G304 -- paths come from the operator's configuration.
	data, err := os.ReadFile(path)
	if err != nil {
		return "", derrors.WrapError(err, derrors.CategoryFileSystem, "read external html").
			WithContext("path", path).
			UserAction().
			Build()
	}
	if !strings.EqualFold(filepath.Ext(path), ".md") {
		return string(data), nil
	}
	rendered, err := markdown.Render(data, markdown.Options{AllowRawHTML: true})
	if err != nil {
		return "", derrors.WrapError(err, derrors.CategoryMarkdown, "render external markdown").
			WithContext("path", path).
			Build()
	}
	return rendered, nil
}
