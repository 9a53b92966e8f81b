package config

import (
	"path"
	"strings"

	derrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
)

// Validate checks the configuration after defaults have been applied.
func Validate(cfg *Config) error {
	if cfg.Crate == "" {
		return derrors.ValidationError("crate is required").Build()
	}
	if strings.ContainsAny(cfg.Crate, `/\`) || cfg.Crate == "." || cfg.Crate == ".." {
		return derrors.ValidationError("crate must be a single path segment").
			WithContext("crate", cfg.Crate).
			Build()
	}
	if cfg.Workers < 1 {
		return derrors.ValidationError("workers must be at least 1").
			WithContext("workers", cfg.Workers).
			Build()
	}
	if cfg.Watch.Debounce < 0 || cfg.Watch.RebuildInterval < 0 {
		return derrors.ValidationError("watch durations must not be negative").Build()
	}
	for from, to := range cfg.Redirects {
		if err := validateRedirect(from, to); err != nil {
			return err
		}
	}
	return nil
}

func validateRedirect(from, to string) error {
	if to == "" {
		return derrors.ValidationError("redirect target is empty").
			WithContext("redirect", from).
			Build()
	}
	clean := path.Clean(strings.ReplaceAll(from, `\`, "/"))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return derrors.ValidationError("redirect path must stay inside the output directory").
			WithContext("redirect", from).
			Build()
	}
	if path.Ext(clean) != ".html" {
		return derrors.ValidationError("redirect path must end in .html").
			WithContext("redirect", from).
			Build()
	}
	return nil
}
