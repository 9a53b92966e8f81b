package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"git.home.luguber.info/inful/docrender/internal/config"
	derrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
	"git.home.luguber.info/inful/docrender/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output  string `short:"o" help:"Override the configured output directory" type:"path"`
	Workers int    `short:"w" help:"Override the number of concurrent page renders"`
}

func (b *BuildCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output = b.Output
	}
	if b.Workers != 0 {
		if b.Workers < 0 {
			return derrors.ValidationError("workers must be at least 1").
				WithContext("workers", b.Workers).
				Build()
		}
		cfg.Workers = b.Workers
	}

	_, _ = fmt.Fprintln(g.Stdout, "Starting docrender build")
	builder, err := newSiteBuilder(cfg, g)
	if err != nil {
		return err
	}
	report, err := builder.Build(ctx)
	if err != nil {
		return err
	}
	printReport(g.Stdout, report)
	return nil
}

// newSiteBuilder loads the layout (including external HTML files) for cfg.
func newSiteBuilder(cfg *config.Config, g *Global) (*site.Builder, error) {
	l, err := cfg.Layout()
	if err != nil {
		return nil, err
	}
	return site.NewBuilder(cfg, l).WithLogger(g.Logger), nil
}

func printReport(w io.Writer, r *site.Report) {
	_, _ = fmt.Fprintf(w, "Built %d pages (%d written, %d unchanged), %d redirects, %d pruned in %s\n",
		r.Pages, r.Written, r.Unchanged, r.Redirects, r.Pruned, r.Duration.Round(time.Millisecond))
	for _, asset := range r.MissingAssets {
		_, _ = fmt.Fprintf(w, "  missing asset: %s\n", asset)
	}
	for _, bl := range r.BrokenLinks {
		_, _ = fmt.Fprintf(w, "  broken link: %s -> %s\n", bl.Source, bl.Target)
	}
}
