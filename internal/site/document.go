package site

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	derrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
	"git.home.luguber.info/inful/docrender/internal/frontmatter"
)

// Document is a Markdown source file and the page it renders to.
type Document struct {
	// SourcePath is the file on disk.
	SourcePath string
	// Rel is the slash-separated source path relative to the source root.
	Rel string
	// OutputRel is the slash-separated output path relative to the site root,
	// including the crate directory.
	OutputRel string
	Meta      frontmatter.Metadata
	Body      []byte
}

// Title returns the front matter title or one derived from the file name.
func (d *Document) Title() string {
	if d.Meta.Title != "" {
		return d.Meta.Title
	}
	return titleFromRel(d.Rel)
}

// CSSClass returns the body class for the page.
func (d *Document) CSSClass() string {
	if d.Meta.CSSClass != "" {
		return d.Meta.CSSClass
	}
	if path.Base(d.Rel) == "index.md" {
		return "mod"
	}
	return "page"
}

// RootPath returns the prefix leading from the page back to the site root.
func (d *Document) RootPath() string {
	return RootPathFor(d.OutputRel)
}

// RootPathFor returns "../" once per directory level of the slash-separated
// output path rel, so "a/b/c.html" yields "../../".
func RootPathFor(rel string) string {
	return strings.Repeat("../", strings.Count(path.Clean(rel), "/"))
}

// OutputPathFor maps a Markdown source path to its page under the crate directory.
func OutputPathFor(crate, rel string) string {
	return path.Join(crate, strings.TrimSuffix(rel, path.Ext(rel))+".html")
}

func titleFromRel(rel string) string {
	base := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	if base == "index" {
		dir := path.Dir(rel)
		if dir == "." {
			return "Overview"
		}
		base = path.Base(dir)
	}
	// Casers are stateful and not safe for concurrent use.
	return cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(base))
}

// Discover finds all Markdown documents below source, skipping hidden
// directories, and returns them ordered by sidebar weight and path.
func Discover(source, crate string) ([]*Document, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryNotFound, "source directory not found").
			WithContext("path", source).
			UserAction().
			Build()
	}
	if !info.IsDir() {
		return nil, derrors.ValidationError("source is not a directory").WithContext("path", source).Build()
	}

	var docs []*Document
	err = filepath.WalkDir(source, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != source && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), ".md") {
			return nil
		}
		doc, err := loadDocument(source, p, crate)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		if derrors.IsClassified(err) {
			return nil, err
		}
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "walk source directory").
			WithContext("path", source).
			Build()
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Meta.Weight != docs[j].Meta.Weight {
			return docs[i].Meta.Weight < docs[j].Meta.Weight
		}
		return docs[i].Rel < docs[j].Rel
	})
	return docs, nil
}

func loadDocument(root, p, crate string) (*Document, error) {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	// #nosec G304 -- p is discovered under the configured source directory.
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "read document").
			WithContext("path", p).
			Build()
	}
	meta, body, err := frontmatter.Parse(data)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryMarkdown, "parse front matter").
			WithContext("path", p).
			UserAction().
			Build()
	}
	return &Document{
		SourcePath: p,
		Rel:        rel,
		OutputRel:  OutputPathFor(crate, rel),
		Meta:       meta,
		Body:       body,
	}, nil
}
