// Package watch rebuilds the site when sources or the configuration change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	derrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
	"git.home.luguber.info/inful/docrender/internal/logfields"
)

// DefaultDebounce is used when Options.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// Trigger describes why a rebuild runs.
type Trigger struct {
	// Reason is "change" for file events and "scheduled" for periodic rebuilds.
	Reason string
	// Paths lists the changed files, sorted. Empty for scheduled rebuilds.
	Paths []string
	// ConfigChanged is set when the configuration file was among the changes.
	ConfigChanged bool
}

// BuildFunc runs one rebuild. Errors are logged and watching continues.
type BuildFunc func(ctx context.Context, trigger Trigger) error

// Options configures a Watcher.
type Options struct {
	Source          string
	ConfigPath      string
	Debounce        time.Duration
	RebuildInterval time.Duration
	// Ignore lists directories whose events never trigger a rebuild, such as
	// an output directory placed inside the source tree.
	Ignore []string
}

// Watcher runs BuildFunc after bursts of file changes settle and,
// optionally, on a fixed interval. Builds never overlap.
type Watcher struct {
	opts   Options
	build  BuildFunc
	logger *slog.Logger

	readyOnce sync.Once
	ready     chan struct{}
	scheduled chan struct{}
}

// New returns a Watcher for opts. Paths are made absolute.
func New(opts Options, build BuildFunc) (*Watcher, error) {
	if build == nil {
		return nil, derrors.ValidationError("build function is required").Build()
	}
	if opts.Source == "" {
		return nil, derrors.ValidationError("source directory is required").Build()
	}
	src, err := filepath.Abs(opts.Source)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "resolve source directory").Build()
	}
	opts.Source = src
	if opts.ConfigPath != "" {
		if opts.ConfigPath, err = filepath.Abs(opts.ConfigPath); err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "resolve config path").Build()
		}
	}
	for i, p := range opts.Ignore {
		if opts.Ignore[i], err = filepath.Abs(p); err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "resolve ignored path").Build()
		}
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{
		opts:      opts,
		build:     build,
		logger:    slog.Default(),
		ready:     make(chan struct{}),
		scheduled: make(chan struct{}, 1),
	}, nil
}

// WithLogger sets the logger. A nil logger is ignored.
func (w *Watcher) WithLogger(l *slog.Logger) *Watcher {
	if l != nil {
		w.logger = l
	}
	return w
}

// Ready is closed once Run watches every directory.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is canceled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return derrors.WatchError("failed to create file watcher").WithCause(err).Build()
	}
	defer func() {
		if err := fsw.Close(); err != nil {
			w.logger.Warn("Error closing file watcher", logfields.Error(err))
		}
	}()

	if err := w.addTree(fsw, w.opts.Source); err != nil {
		return err
	}
	// Watch the directory containing the config file; editors replace files.
	if w.opts.ConfigPath != "" {
		if err := fsw.Add(filepath.Dir(w.opts.ConfigPath)); err != nil {
			return derrors.WatchError("failed to watch config directory").
				WithCause(err).
				WithContext("path", w.opts.ConfigPath).
				Build()
		}
	}

	if w.opts.RebuildInterval > 0 {
		s, err := newScheduler()
		if err != nil {
			return derrors.WatchError("failed to create scheduler").WithCause(err).Build()
		}
		if _, err := s.schedulePeriodic(w.opts.RebuildInterval, w.triggerScheduled); err != nil {
			return derrors.WatchError("failed to schedule periodic rebuild").WithCause(err).Build()
		}
		s.start()
		defer func() {
			if err := s.stop(); err != nil {
				w.logger.Warn("Error stopping scheduler", logfields.Error(err))
			}
		}()
	}

	w.logger.Info("Watching for changes",
		logfields.Path(w.opts.Source),
		slog.String("config_path", w.opts.ConfigPath),
		slog.Duration("debounce", w.opts.Debounce))
	w.readyOnce.Do(func() { close(w.ready) })

	return w.loop(ctx, fsw)
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) error {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	var timerC <-chan time.Time

	pending := make(map[string]bool)
	configChanged := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Info("Stopping watcher")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			relevant, isConfig := w.classify(fsw, event)
			if !relevant {
				continue
			}
			w.logger.Debug("Change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			pending[event.Name] = true
			configChanged = configChanged || isConfig
			timer.Reset(w.opts.Debounce)
			timerC = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))

		case <-timerC:
			timerC = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			w.run(ctx, Trigger{Reason: "change", Paths: paths, ConfigChanged: configChanged})
			pending = make(map[string]bool)
			configChanged = false

		case <-w.scheduled:
			w.run(ctx, Trigger{Reason: "scheduled"})
		}
	}
}

// classify reports whether event should cause a rebuild and whether it
// touched the config file. New directories below the source are watched.
func (w *Watcher) classify(fsw *fsnotify.Watcher, event fsnotify.Event) (relevant, isConfig bool) {
	if event.Op == fsnotify.Chmod {
		return false, false
	}
	if w.opts.ConfigPath != "" && filepath.Clean(event.Name) == w.opts.ConfigPath {
		return true, true
	}
	rel, err := filepath.Rel(w.opts.Source, event.Name)
	if err != nil || !filepath.IsLocal(rel) || hidden(rel) || w.ignored(event.Name) {
		return false, false
	}
	if event.Op.Has(fsnotify.Create) {
		if err := w.addTree(fsw, event.Name); err != nil {
			w.logger.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
		}
	}
	return true, false
}

func (w *Watcher) run(ctx context.Context, trigger Trigger) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	w.logger.Info("Rebuilding",
		slog.String("reason", trigger.Reason),
		slog.Int("changes", len(trigger.Paths)),
		slog.Bool("config_changed", trigger.ConfigChanged))
	if err := w.build(ctx, trigger); err != nil {
		w.logger.Error("Rebuild failed", logfields.Error(err))
		return
	}
	w.logger.Debug("Rebuild finished", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}

// triggerScheduled queues a periodic rebuild unless one is already pending.
func (w *Watcher) triggerScheduled() {
	select {
	case w.scheduled <- struct{}{}:
	default:
	}
}

// addTree watches root and every non-hidden directory below it. A root
// that is not a directory is ignored.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return derrors.WatchError("failed to walk directory").
					WithCause(err).
					WithContext("path", root).
					Build()
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.opts.Source && (strings.HasPrefix(d.Name(), ".") || w.ignored(p)) {
			return filepath.SkipDir
		}
		if err := fsw.Add(p); err != nil {
			return derrors.WatchError("failed to watch directory").
				WithCause(err).
				WithContext("path", p).
				Build()
		}
		return nil
	})
}

func (w *Watcher) ignored(p string) bool {
	for _, dir := range w.opts.Ignore {
		if rel, err := filepath.Rel(dir, p); err == nil && (rel == "." || filepath.IsLocal(rel)) {
			return true
		}
	}
	return false
}

func hidden(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
