package site

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
)

func TestRootPathFor(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"index.html", ""},
		{"mycrate/index.html", "../"},
		{"Foo/mod/index.html", "../../"},
		{"a/b/c/d.html", "../../../"},
		{"./a/b.html", "../"},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, RootPathFor(tt.rel))
		})
	}
}

func TestOutputPathFor(t *testing.T) {
	assert.Equal(t, "mycrate/index.html", OutputPathFor("mycrate", "index.md"))
	assert.Equal(t, "mycrate/guide/setup.html", OutputPathFor("mycrate", "guide/setup.md"))
	assert.Equal(t, "mycrate/NOTES.html", OutputPathFor("mycrate", "NOTES.MD"))
}

func TestDocumentTitleAndClass(t *testing.T) {
	tests := []struct {
		name      string
		doc       Document
		wantTitle string
		wantClass string
	}{
		{"root index", Document{Rel: "index.md"}, "Overview", "mod"},
		{"section index", Document{Rel: "getting_started/index.md"}, "Getting Started", "mod"},
		{"plain page", Document{Rel: "guide/error-handling.md"}, "Error Handling", "page"},
		{"single letter", Document{Rel: "x.md"}, "X", "page"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantTitle, tt.doc.Title())
			assert.Equal(t, tt.wantClass, tt.doc.CSSClass())
		})
	}

	d := Document{Rel: "x.md"}
	d.Meta.Title = "Struct Foo"
	d.Meta.CSSClass = "struct"
	assert.Equal(t, "Struct Foo", d.Title())
	assert.Equal(t, "struct", d.CSSClass())
}

func TestDiscover(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"index.md":          "# Home\n",
		"b.md":              "---\nweight: -1\n---\nfirst\n",
		"a.md":              "a\n",
		"guide/intro.md":    "---\ntitle: Intro\n---\nbody\n",
		".hidden/secret.md": "nope\n",
		"image.png":         "png",
	})

	docs, err := Discover(src, "mycrate")
	require.NoError(t, err)

	var rels []string
	for _, d := range docs {
		rels = append(rels, d.Rel)
	}
	assert.Equal(t, []string{"b.md", "a.md", "guide/intro.md", "index.md"}, rels)

	intro := docs[2]
	assert.Equal(t, "mycrate/guide/intro.html", intro.OutputRel)
	assert.Equal(t, "../../", intro.RootPath())
	assert.Equal(t, "Intro", intro.Title())
	assert.Equal(t, "body\n", string(intro.Body))
}

func TestDiscoverFrontMatterOnlyPage(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"index.md": "---\ntitle: Home\n---"})

	docs, err := Discover(src, "mycrate")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Home", docs[0].Title())
	assert.Empty(t, docs[0].Body)
}

func TestDiscoverErrors(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		_, err := Discover(t.TempDir()+"/missing", "mycrate")
		require.Error(t, err)
		assert.True(t, derrors.HasCategory(err, derrors.CategoryNotFound))
	})

	t.Run("bad front matter", func(t *testing.T) {
		src := t.TempDir()
		writeTree(t, src, map[string]string{"bad.md": "---\ntitle: [unclosed\n---\nbody\n"})
		_, err := Discover(src, "mycrate")
		require.Error(t, err)
		assert.True(t, derrors.HasCategory(err, derrors.CategoryMarkdown))
	})
}

func TestTitleFromRelConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := titleFromRel(fmt.Sprintf("guide/getting-started-guide-%d.md", i))
			assert.Equal(t, fmt.Sprintf("Getting Started Guide %d", i), got)
		}()
	}
	wg.Wait()
}
