// Package commands implements the docrender command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	derrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
	"git.home.luguber.info/inful/docrender/internal/version"
)

// EnvLogLevel selects the log level when --verbose is not given.
const EnvLogLevel = "DOCRENDER_LOG_LEVEL"

// Global carries state shared by all subcommands.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docrender.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Render the Markdown source tree into a static site"`
	Page     PageCmd     `cmd:"" help:"Render a single documentation page"`
	Redirect RedirectCmd `cmd:"" help:"Render a redirect page pointing at URL"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Watch    WatchCmd    `cmd:"" help:"Build, then rebuild whenever sources or configuration change"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// NewParser returns the kong parser for cli.
func NewParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	opts := []kong.Option{
		kong.Name("docrender"),
		kong.Description("Render documentation pages and redirect stubs into static HTML."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	}
	return kong.New(cli, append(opts, options...)...)
}

// Execute runs the selected command with ctx bound for commands that block.
func Execute(ctx context.Context, kctx *kong.Context, g *Global) error {
	if g.Logger == nil {
		g.Logger = slog.Default()
	}
	if g.Stdout == nil {
		g.Stdout = os.Stdout
	}
	kctx.BindTo(ctx, (*context.Context)(nil))
	return kctx.Run(g)
}

// parseLogLevel honors --verbose first, then DOCRENDER_LOG_LEVEL.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns path opened for writing, or stdout when path is empty.
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "create output directory").
			WithContext("path", path).
			Build()
	}
	// #nosec G304 -- output path is provided by the operator.
	f, err := os.Create(path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "create output file").
			WithContext("path", path).
			Build()
	}
	return f, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
