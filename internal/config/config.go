package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
)

// Config represents the docrender configuration file.
type Config struct {
	Crate        string             `yaml:"crate"`
	Logo         string             `yaml:"logo,omitempty"`
	Favicon      string             `yaml:"favicon,omitempty"`
	ThemeCSS     bool               `yaml:"theme_css"`
	Source       string             `yaml:"source"`
	Output       string             `yaml:"output"`
	Workers      int                `yaml:"workers"`
	ExternalHTML ExternalHTMLConfig `yaml:"external_html,omitempty"`
	// Redirects maps an output path (relative to Output) to the URL it forwards to.
	Redirects map[string]string `yaml:"redirects,omitempty"`
	Watch     WatchConfig       `yaml:"watch,omitempty"`
}

// ExternalHTMLConfig lists the files concatenated into each injection point.
type ExternalHTMLConfig struct {
	InHeader      []string `yaml:"in_header,omitempty"`
	BeforeContent []string `yaml:"before_content,omitempty"`
	AfterContent  []string `yaml:"after_content,omitempty"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
	// RebuildInterval triggers a full rebuild periodically; zero disables it.
	RebuildInterval time.Duration `yaml:"rebuild_interval,omitempty"`
}

// Load loads configuration from the specified file.
//
// .env files are loaded first so that ${VAR} references in the YAML can be
// expanded. Relative paths in the file are resolved against its directory.
func Load(configPath string) (*Config, error) {
	if loaded := loadEnvFiles(); loaded != "" {
		fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", loaded)
	}

	// #nosec G304 -- configPath is provided by the operator.
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, derrors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "read config file").
			WithContext("path", configPath).
			Build()
	}

	baseDir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "resolve config directory").Build()
	}
	cfg, err := Parse(data, baseDir)
	if err != nil {
		if classified, ok := derrors.AsClassified(err); ok {
			return nil, classified.WithContext("path", configPath)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes, defaults, overrides and validates configuration data.
// Relative paths are resolved against baseDir.
func Parse(data []byte, baseDir string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to unmarshal config").Build()
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	cfg.resolvePaths(baseDir)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolvePaths(baseDir string) {
	if baseDir == "" {
		return
	}
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	resolveAll := func(paths []string) {
		for i := range paths {
			paths[i] = abs(paths[i])
		}
	}
	c.Source = abs(c.Source)
	c.Output = abs(c.Output)
	resolveAll(c.ExternalHTML.InHeader)
	resolveAll(c.ExternalHTML.BeforeContent)
	resolveAll(c.ExternalHTML.AfterContent)
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Config{
		Crate:    "mycrate",
		Logo:     "https://example.com/logo.png",
		Favicon:  "https://example.com/favicon.ico",
		ThemeCSS: true,
		Source:   DefaultSource,
		Output:   DefaultOutput,
		Workers:  DefaultWorkers,
		ExternalHTML: ExternalHTMLConfig{
			InHeader:     []string{"html/in-header.html"},
			AfterContent: []string{"html/footer.md"},
		},
		Redirects: map[string]string{
			"mycrate/old.html": "index.html",
		},
		Watch: WatchConfig{Debounce: DefaultDebounce},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "marshal example config").Build()
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "create config directory").Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
