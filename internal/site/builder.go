package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inful/mdfp"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docrender/internal/config"
	derrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
	"git.home.luguber.info/inful/docrender/internal/layout"
	"git.home.luguber.info/inful/docrender/internal/logfields"
	"git.home.luguber.info/inful/docrender/internal/markdown"
	"git.home.luguber.info/inful/docrender/internal/metrics"
)

// Report summarizes a completed build.
type Report struct {
	BuildID       string
	Pages         int
	Written       int
	Unchanged     int
	Redirects     int
	Pruned        int
	Bytes         int
	MissingAssets []string
	BrokenLinks   []BrokenLink
	Duration      time.Duration
}

// Builder renders the Markdown tree of a Config into a static site.
// A Builder may run Build repeatedly but not concurrently.
type Builder struct {
	cfg      *config.Config
	layout   *layout.Layout
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewBuilder returns a Builder sharing l across every page it renders.
func NewBuilder(cfg *config.Config, l *layout.Layout) *Builder {
	return &Builder{
		cfg:      cfg,
		layout:   l,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
}

// WithRecorder sets the metrics recorder. A nil recorder is ignored.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

// WithLogger sets the logger. A nil logger is ignored.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	if l != nil {
		b.logger = l
	}
	return b
}

// Build renders every page, writes redirects and prunes outputs left over
// from the previous build. Pages whose rendered bytes did not change are
// not rewritten.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{BuildID: uuid.NewString()}
	log := b.logger.With(logfields.BuildID(report.BuildID), logfields.Crate(b.cfg.Crate))
	log.Info("Starting site build", logfields.Path(b.cfg.Source), logfields.Output(b.cfg.Output))

	err := b.build(ctx, log, report)
	report.Duration = time.Since(start)
	b.recorder.ObserveBuildDuration(report.Duration)
	if err != nil {
		b.recorder.IncBuildOutcome(metrics.BuildFailed)
		log.Error("Site build failed", logfields.Error(err), logfields.DurationMS(float64(report.Duration.Milliseconds())))
		return report, err
	}

	b.recorder.IncBuildOutcome(metrics.BuildSuccess)
	log.Info("Site build completed",
		slog.Int("pages", report.Pages),
		slog.Int("written", report.Written),
		slog.Int("unchanged", report.Unchanged),
		slog.Int("redirects", report.Redirects),
		slog.Int("pruned", report.Pruned),
		logfields.Bytes(report.Bytes),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

func (b *Builder) build(ctx context.Context, log *slog.Logger, report *Report) error {
	docs, err := Discover(b.cfg.Source, b.cfg.Crate)
	if err != nil {
		return err
	}
	report.Pages = len(docs)
	log.Debug("Discovered documents", logfields.Stage("discover"), slog.Int("count", len(docs)))

	redirects, err := collectRedirects(b.cfg.Redirects, docs)
	if err != nil {
		return err
	}

	report.BrokenLinks = findBrokenLinks(docs)
	for _, bl := range report.BrokenLinks {
		log.Warn("Link to missing page", logfields.Page(bl.Source), logfields.URL(bl.Target))
	}

	if err := os.MkdirAll(b.cfg.Output, 0o750); err != nil {
		return derrors.FileSystemError("create output directory").
			WithCause(err).
			WithContext("path", b.cfg.Output).
			Build()
	}
	prev, err := readManifest(b.cfg.Output)
	if err != nil {
		return derrors.FileSystemError("read build manifest").
			WithCause(err).
			WithContext("path", b.cfg.Output).
			Build()
	}
	next := &manifest{BuildID: report.BuildID, Files: make(map[string]string, len(docs)+len(redirects))}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)
	for _, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := b.renderDocument(log, docs, doc, prev.Files[doc.OutputRel])
			if err != nil {
				b.recorder.IncPageResult(metrics.PageFailed)
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			next.Files[doc.OutputRel] = res.fingerprint
			if res.written {
				report.Written++
				report.Bytes += res.bytes
			} else {
				report.Unchanged++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range redirects {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeRedirect(b.cfg.Output, r); err != nil {
			return derrors.RenderError("write redirect").
				WithCause(err).
				WithContext("redirect", r.From).
				WithContext("url", r.To).
				Build()
		}
		next.Files[r.From] = "redirect:" + r.To
		report.Redirects++
		b.recorder.IncRedirect()
		log.Debug("Redirect written", logfields.Output(r.From), logfields.URL(r.To))
	}

	report.Pruned = b.prune(log, prev, next)
	report.MissingAssets = b.missingAssets()
	if len(report.MissingAssets) > 0 {
		log.Warn("Expected assets missing from output", slog.Any("assets", report.MissingAssets))
	}

	if err := writeManifest(b.cfg.Output, next); err != nil {
		return derrors.FileSystemError("write build manifest").
			WithCause(err).
			WithContext("path", b.cfg.Output).
			Build()
	}
	return nil
}

type pageResult struct {
	fingerprint string
	written     bool
	bytes       int
}

func (b *Builder) renderDocument(log *slog.Logger, docs []*Document, doc *Document, prevFingerprint string) (pageResult, error) {
	start := time.Now()
	content, err := markdown.Render(doc.Body, markdown.Options{AllowRawHTML: true, RewriteDocLinks: true})
	if err != nil {
		return pageResult{}, derrors.WrapError(err, derrors.CategoryMarkdown, "render markdown").
			WithContext("page", doc.Rel).
			Build()
	}

	page := b.pageFor(doc)
	var buf bytes.Buffer
	err = layout.Render(&buf, b.layout, page, layout.HTML(sidebar(b.cfg.Crate, docs, doc)), layout.HTML(content), b.cfg.ThemeCSS)
	if err != nil {
		return pageResult{}, derrors.WrapError(err, derrors.CategoryRender, "render page").
			WithContext("page", doc.Rel).
			Build()
	}
	b.recorder.ObservePageRender(time.Since(start))

	fingerprint := mdfp.CalculateFingerprintFromParts("", buf.String())
	outPath := filepath.Join(b.cfg.Output, filepath.FromSlash(doc.OutputRel))
	if fingerprint == prevFingerprint && fileExists(outPath) {
		b.recorder.IncPageResult(metrics.PageUnchanged)
		log.Debug("Page unchanged", logfields.Page(doc.Rel))
		return pageResult{fingerprint: fingerprint}, nil
	}

	if err := writeFile(outPath, buf.Bytes()); err != nil {
		return pageResult{}, derrors.FileSystemError("write page").
			WithCause(err).
			WithContext("page", doc.Rel).
			WithContext("output", outPath).
			Build()
	}
	b.recorder.IncPageResult(metrics.PageWritten)
	b.recorder.AddBytesWritten(buf.Len())
	log.Debug("Page written",
		logfields.Page(doc.Rel),
		logfields.Output(doc.OutputRel),
		logfields.RootPath(page.RootPath),
		logfields.Bytes(buf.Len()))
	return pageResult{fingerprint: fingerprint, written: true, bytes: buf.Len()}, nil
}

// pageFor builds the page metadata. Front matter is plain text and gets
// escaped here; layout embeds whatever it is given.
func (b *Builder) pageFor(doc *Document) *layout.Page {
	crate := b.cfg.Crate
	title := doc.Title()

	description := doc.Meta.Description
	if description == "" {
		description = fmt.Sprintf("Documentation for the %s crate: %s.", crate, title)
	}
	keywords := doc.Meta.Keywords.String()
	if keywords == "" {
		keywords = crate
	}

	return &layout.Page{
		Title:       html.EscapeString(title + " - " + crate),
		CSSClass:    html.EscapeString(doc.CSSClass()),
		RootPath:    doc.RootPath(),
		Description: html.EscapeString(description),
		Keywords:    html.EscapeString(keywords),
	}
}

// prune removes outputs recorded by the previous build that this build did
// not produce.
func (b *Builder) prune(log *slog.Logger, prev, next *manifest) int {
	stale := make([]string, 0)
	for rel := range prev.Files {
		if _, ok := next.Files[rel]; !ok {
			stale = append(stale, rel)
		}
	}
	sort.Strings(stale)

	pruned := 0
	for _, rel := range stale {
		local := filepath.FromSlash(rel)
		if !filepath.IsLocal(local) {
			continue
		}
		err := os.Remove(filepath.Join(b.cfg.Output, local))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("Failed to remove stale output", logfields.Output(rel), logfields.Error(err))
			continue
		}
		pruned++
		log.Debug("Removed stale output", logfields.Output(rel))
	}
	return pruned
}

func (b *Builder) missingAssets() []string {
	var missing []string
	for _, asset := range layout.AssetFiles(b.cfg.ThemeCSS) {
		if !fileExists(filepath.Join(b.cfg.Output, asset)) {
			missing = append(missing, asset)
		}
	}
	return missing
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func writeFile(p string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return err
	}
	// #nosec G306 -- published site content must be world readable.
	return os.WriteFile(p, data, 0o644)
}
