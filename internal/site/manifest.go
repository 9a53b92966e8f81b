package site

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestFile is written to the output root and records what the last build
// produced.
const ManifestFile = ".docrender-manifest.yaml"

// manifest maps output paths (slash-separated, relative to the site root) to
// the fingerprint of their content.
type manifest struct {
	BuildID string            `yaml:"build_id"`
	Files   map[string]string `yaml:"files"`
}

func readManifest(outputDir string) (*manifest, error) {
	// #nosec G304 -- fixed file name under the output directory.
	data, err := os.ReadFile(filepath.Join(outputDir, ManifestFile))
	if errors.Is(err, os.ErrNotExist) {
		return &manifest{Files: map[string]string{}}, nil
	}
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		// Treat a corrupt manifest as empty.
		return &manifest{Files: map[string]string{}}, nil
	}
	if m.Files == nil {
		m.Files = map[string]string{}
	}
	return &m, nil
}

func writeManifest(outputDir string, m *manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, ManifestFile), data, 0o600)
}
