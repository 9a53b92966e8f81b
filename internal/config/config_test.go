package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
)

func TestParse_Defaults(t *testing.T) {
	base := t.TempDir()
	cfg, err := Parse([]byte("crate: mycrate\n"), base)
	require.NoError(t, err)

	assert.Equal(t, "mycrate", cfg.Crate)
	assert.Equal(t, filepath.Join(base, "docs"), cfg.Source)
	assert.Equal(t, filepath.Join(base, "site"), cfg.Output)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
	assert.False(t, cfg.ThemeCSS)
}

func TestParse_FullFile(t *testing.T) {
	base := t.TempDir()
	data := `
crate: widgets
logo: https://example.com/logo.png
favicon: /favicon.ico
theme_css: true
source: content
output: /var/www/widgets
workers: 2
external_html:
  in_header: [head.html]
  before_content: [banner.md, notice.html]
  after_content: [/abs/footer.html]
redirects:
  widgets/old.html: index.html
watch:
  debounce: 250ms
  rebuild_interval: 1h
`
	cfg, err := Parse([]byte(data), base)
	require.NoError(t, err)

	assert.Equal(t, "widgets", cfg.Crate)
	assert.True(t, cfg.ThemeCSS)
	assert.Equal(t, filepath.Join(base, "content"), cfg.Source)
	assert.Equal(t, "/var/www/widgets", cfg.Output)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, []string{filepath.Join(base, "head.html")}, cfg.ExternalHTML.InHeader)
	assert.Equal(t, []string{filepath.Join(base, "banner.md"), filepath.Join(base, "notice.html")}, cfg.ExternalHTML.BeforeContent)
	assert.Equal(t, []string{"/abs/footer.html"}, cfg.ExternalHTML.AfterContent)
	assert.Equal(t, map[string]string{"widgets/old.html": "index.html"}, cfg.Redirects)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, time.Hour, cfg.Watch.RebuildInterval)
}

func TestParse_EnvExpansionAndOverrides(t *testing.T) {
	t.Setenv("LOGO_HOST", "cdn.example.com")
	t.Setenv(EnvCrate, "fromenv")

	cfg, err := Parse([]byte("crate: fromfile\nlogo: https://${LOGO_HOST}/logo.png\n"), "")
	require.NoError(t, err)

	assert.Equal(t, "fromenv", cfg.Crate)
	assert.Equal(t, "https://cdn.example.com/logo.png", cfg.Logo)
	assert.Equal(t, DefaultSource, cfg.Source, "no base dir leaves paths untouched")
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("crate: a\nthemes: [dark]\n"), "")
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}

func TestParse_EmptyDocumentFailsValidation(t *testing.T) {
	_, err := Parse(nil, "")
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryValidation))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Crate: "c", Workers: 1, Watch: WatchConfig{Debounce: time.Second}}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing crate", func(c *Config) { c.Crate = "" }, true},
		{"crate with slash", func(c *Config) { c.Crate = "a/b" }, true},
		{"crate dotdot", func(c *Config) { c.Crate = ".." }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, true},
		{"redirect ok", func(c *Config) { c.Redirects = map[string]string{"a/b.html": "../c.html"} }, false},
		{"redirect escapes", func(c *Config) { c.Redirects = map[string]string{"../b.html": "c.html"} }, true},
		{"redirect absolute", func(c *Config) { c.Redirects = map[string]string{"/b.html": "c.html"} }, true},
		{"redirect not html", func(c *Config) { c.Redirects = map[string]string{"b.txt": "c.html"} }, true},
		{"redirect empty target", func(c *Config) { c.Redirects = map[string]string{"b.html": ""} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, derrors.HasCategory(err, derrors.CategoryValidation))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}

func TestInitThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "docrender.yaml")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false), "existing file requires force")
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mycrate", cfg.Crate)
	assert.Equal(t, filepath.Join(dir, "conf", "docs"), cfg.Source)
	assert.Equal(t, []string{filepath.Join(dir, "conf", "html", "footer.md")}, cfg.ExternalHTML.AfterContent)
}

func TestConfigLayout(t *testing.T) {
	dir := t.TempDir()
	head := filepath.Join(dir, "head.html")
	require.NoError(t, os.WriteFile(head, []byte(`<meta name="x">`), 0o600))

	cfg := &Config{
		Crate:        "c",
		Logo:         "logo.png",
		Favicon:      "fav.ico",
		ExternalHTML: ExternalHTMLConfig{InHeader: []string{head}},
	}
	l, err := cfg.Layout()
	require.NoError(t, err)
	assert.Equal(t, "c", l.Krate)
	assert.Equal(t, "logo.png", l.Logo)
	assert.Equal(t, "fav.ico", l.Favicon)
	assert.Equal(t, `<meta name="x">`, l.ExternalHTML.InHeader)
	assert.Empty(t, l.ExternalHTML.BeforeContent)

	cfg.ExternalHTML.AfterContent = []string{filepath.Join(dir, "missing.html")}
	_, err = cfg.Layout()
	require.Error(t, err)
}
