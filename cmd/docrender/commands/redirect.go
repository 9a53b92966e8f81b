package commands

import (
	derrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
	"git.home.luguber.info/inful/docrender/internal/layout"
)

// RedirectCmd implements the 'redirect' command.
type RedirectCmd struct {
	URL string `arg:"" name:"url" help:"Redirect target, embedded verbatim"`
	Out string `short:"o" help:"Output file (default stdout)" type:"path"`
}

func (r *RedirectCmd) Run(g *Global) error {
	out, err := openOutput(r.Out, g.Stdout)
	if err != nil {
		return err
	}
	if err := layout.Redirect(out, r.URL); err != nil {
		_ = out.Close()
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write redirect").
			WithContext("output", outputName(r.Out)).
			Build()
	}
	if err := out.Close(); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "close output").
			WithContext("output", outputName(r.Out)).
			Build()
	}
	return nil
}
