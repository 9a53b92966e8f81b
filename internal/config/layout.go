package config

import (
	"git.home.luguber.info/inful/docrender/internal/externalfiles"
	"git.home.luguber.info/inful/docrender/internal/layout"
)

// Layout builds the site-wide page layout, loading the external HTML files.
func (c *Config) Layout() (*layout.Layout, error) {
	ext, err := externalfiles.Load(c.ExternalHTML.InHeader, c.ExternalHTML.BeforeContent, c.ExternalHTML.AfterContent)
	if err != nil {
		return nil, err
	}
	return &layout.Layout{
		Logo:         c.Logo,
		Favicon:      c.Favicon,
		ExternalHTML: ext,
		Krate:        c.Crate,
	}, nil
}
