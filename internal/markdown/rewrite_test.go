package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewriteDocLink(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"guide.md", "guide.html"},
		{"../api/Foo.MD#methods", "../api/Foo.html#methods"},
		{"#section", "#section"},
		{"image.png", "image.png"},
		{"https://example.com/readme.md", "https://example.com/readme.md"},
		{"/abs/page.md", "/abs/page.md"},
		{".md", ".md"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, RewriteDocLink(tt.in), tt.in)
	}
}

func TestIsExternal(t *testing.T) {
	require.True(t, IsExternal("mailto:a@example.com"))
	require.True(t, IsExternal("//cdn.example.com/x.js"))
	require.True(t, IsExternal("/root.html"))
	require.False(t, IsExternal("sibling.md"))
	require.False(t, IsExternal("#top"))
}

func TestRender_RewritesDocLinks(t *testing.T) {
	src := []byte("[Guide](guide.md#intro) and [site](https://example.com/x.md)\n")

	out, err := Render(src, Options{RewriteDocLinks: true})
	require.NoError(t, err)
	require.Contains(t, out, `<a href="guide.html#intro">Guide</a>`)
	require.Contains(t, out, `<a href="https://example.com/x.md">site</a>`)

	plain, err := Render(src, Options{})
	require.NoError(t, err)
	require.Contains(t, plain, `<a href="guide.md#intro">Guide</a>`)
}
