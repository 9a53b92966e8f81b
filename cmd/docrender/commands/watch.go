package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docrender/internal/config"
	derrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
	"git.home.luguber.info/inful/docrender/internal/logfields"
	"git.home.luguber.info/inful/docrender/internal/metrics"
	"git.home.luguber.info/inful/docrender/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address, e.g. :9090"`
	Debounce    time.Duration `help:"Override watch.debounce"`
}

func (wc *WatchCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if wc.Debounce > 0 {
		cfg.Watch.Debounce = wc.Debounce
	}

	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)
	if wc.MetricsAddr != "" {
		stop, err := serveMetrics(wc.MetricsAddr, reg, g)
		if err != nil {
			return err
		}
		defer stop()
	}

	// The layout is reloaded on every rebuild so edits to external HTML
	// files show up without a config change.
	rebuild := func(ctx context.Context) error {
		builder, err := newSiteBuilder(cfg, g)
		if err != nil {
			return err
		}
		report, err := builder.WithRecorder(recorder).Build(ctx)
		if err != nil {
			return err
		}
		printReport(g.Stdout, report)
		return nil
	}

	if err := rebuild(ctx); err != nil {
		g.Logger.Error("Initial build failed", logfields.Error(err))
	}

	started := cfg
	w, err := watch.New(watch.Options{
		Source:          cfg.Source,
		ConfigPath:      root.Config,
		Debounce:        cfg.Watch.Debounce,
		RebuildInterval: cfg.Watch.RebuildInterval,
		Ignore:          []string{cfg.Output},
	}, func(ctx context.Context, trigger watch.Trigger) error {
		if trigger.ConfigChanged {
			next, err := config.Load(root.Config)
			if err != nil {
				return err
			}
			if wc.Debounce > 0 {
				next.Watch.Debounce = wc.Debounce
			}
			if changed := restartRequired(started, next); len(changed) > 0 {
				g.Logger.Warn("Watch settings changed; restart watch to apply them",
					slog.Any("fields", changed),
					logfields.Path(next.Source))
			}
			cfg = next
			g.Logger.Info("Configuration reloaded", logfields.Path(root.Config))
		}
		return rebuild(ctx)
	})
	if err != nil {
		return err
	}
	return w.WithLogger(g.Logger).Run(ctx)
}

// restartRequired lists the settings the running watcher was built with that
// differ in next. A reload cannot apply them.
func restartRequired(prev, next *config.Config) []string {
	var changed []string
	if next.Source != prev.Source {
		changed = append(changed, "source")
	}
	if next.Output != prev.Output {
		changed = append(changed, "output")
	}
	if next.Watch.Debounce != prev.Watch.Debounce {
		changed = append(changed, "watch.debounce")
	}
	if next.Watch.RebuildInterval != prev.Watch.RebuildInterval {
		changed = append(changed, "watch.rebuild_interval")
	}
	return changed
}

// serveMetrics starts the promhttp endpoint and returns its shutdown func.
func serveMetrics(addr string, reg *prom.Registry, g *Global) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Surface bind failures before watching starts.
	select {
	case err := <-errCh:
		if err != nil {
			return nil, derrors.RuntimeError("failed to serve metrics").
				WithCause(err).
				WithContext("addr", addr).
				Build()
		}
	case <-time.After(100 * time.Millisecond):
	}
	g.Logger.Info("Serving metrics", slog.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			g.Logger.Warn("Metrics server shutdown failed", logfields.Error(err))
		}
	}, nil
}
