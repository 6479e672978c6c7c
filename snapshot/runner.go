// Package snapshot captures a fixed list of pages from a live site into
// screenshots, raw markup and structured JSON.
//
// A run is strictly sequential: one page is opened, navigated, settled,
// captured, extracted, persisted and closed before the next one starts.
// The aggregate file is written only once every page has been captured
// (or, with ContinueOnError, once every page has been attempted).
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/startech-innovation/sitekit/config"
	"github.com/startech-innovation/sitekit/drift"
	"github.com/startech-innovation/sitekit/extract"
	"github.com/startech-innovation/sitekit/models"
)

// Runner performs snapshot runs against a shared Browser.
type Runner struct {
	browser  Browser
	cfg      config.SnapshotConfig
	store    store
	markdown *extract.MarkdownExporter
}

// NewRunner creates a Runner. The browser stays owned by the caller.
func NewRunner(browser Browser, cfg config.SnapshotConfig) *Runner {
	r := &Runner{
		browser: browser,
		cfg:     cfg,
		store: store{
			screenshotDir: cfg.ScreenshotDir,
			captureDir:    cfg.CaptureDir,
		},
	}
	if cfg.Markdown {
		r.markdown = extract.NewMarkdownExporter()
	}
	return r
}

// Run captures every target and writes the aggregate file.
//
// The returned summary is never nil; it lists the pages attempted so far
// even when err is non-nil. Without ContinueOnError the first failure
// aborts the run and no aggregate is written.
func (r *Runner) Run(ctx context.Context) (summary *models.RunSummary, err error) {
	start := time.Now()
	summary = &models.RunSummary{Pages: []models.PageResult{}}
	defer func() {
		summary.DurationMs = time.Since(start).Milliseconds()
		summary.Error = models.DetailOf(err)
	}()

	if err := checkConfig(r.cfg); err != nil {
		return summary, err
	}
	targets, err := resolveTargets(r.cfg.Targets, r.cfg.DefaultPageName)
	if err != nil {
		return summary, err
	}
	if err := r.store.ensureDirs(); err != nil {
		return summary, err
	}

	agg := make(models.Aggregate, len(targets))
	var failures []error

	for i, t := range targets {
		slog.Info("capturing page",
			"page", t.Name,
			"url", t.URL,
			"progress", fmt.Sprintf("%d/%d", i+1, len(targets)),
		)

		res, err := r.capture(ctx, t)
		if err != nil {
			slog.Error("page capture failed",
				"page", t.Name,
				"url", t.URL,
				"code", models.CodeOf(err),
				"error", err,
			)
			summary.Pages = append(summary.Pages, models.PageResult{
				Name:  t.Name,
				URL:   t.URL,
				Error: models.DetailOf(err),
			})
			if !r.cfg.ContinueOnError || fatal(err) {
				return summary, err
			}
			failures = append(failures, fmt.Errorf("%s: %w", t.Name, err))
			continue
		}

		agg[t.Name] = res.Content
		summary.Pages = append(summary.Pages, *res)
		slog.Info("page captured", "page", t.Name, "screenshot", res.Artifacts.Screenshot)
	}

	if len(agg) > 0 {
		path := r.store.aggregatePath()
		if err := writeJSON(path, agg); err != nil {
			return summary, err
		}
		summary.Aggregate = path
		slog.Info("aggregate written", "path", path, "pages", len(agg))
	}

	if len(failures) > 0 {
		return summary, errors.Join(failures...)
	}
	return summary, nil
}

// checkConfig rejects capture parameters the browser cannot honour.
func checkConfig(cfg config.SnapshotConfig) error {
	switch {
	case cfg.ViewportWidth <= 0 || cfg.ViewportHeight <= 0:
		return invalidInput(fmt.Sprintf("viewport %dx%d must be positive", cfg.ViewportWidth, cfg.ViewportHeight))
	case cfg.JPEGQuality < 0 || cfg.JPEGQuality > 100:
		return invalidInput(fmt.Sprintf("JPEG quality %d is outside 0-100", cfg.JPEGQuality))
	case cfg.NavigationTimeout <= 0:
		return invalidInput("navigation timeout must be positive")
	case cfg.SettleDelay < 0:
		return invalidInput("settle delay must not be negative")
	case cfg.ScreenshotDir == "" || cfg.CaptureDir == "":
		return invalidInput("output directories must be set")
	}
	return nil
}

func invalidInput(msg string) *models.SnapError {
	return models.NewSnapError(models.ErrCodeInvalidInput, msg, nil)
}

// fatal reports errors that end the run even with ContinueOnError: the
// browser is gone or the run was cancelled.
func fatal(err error) bool {
	switch models.CodeOf(err) {
	case models.ErrCodeBrowser, models.ErrCodeCanceled, models.ErrCodeFilesystem:
		return true
	}
	return errors.Is(err, context.Canceled)
}

// capture runs the per-page sequence. Nothing is written until the page
// has been fully captured and extracted, so a failed page leaves no files.
func (r *Runner) capture(ctx context.Context, t target) (*models.PageResult, error) {
	page, err := r.browser.OpenPage(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := page.Close(); err != nil {
			slog.Warn("failed to close page", "page", t.Name, "error", err)
		}
	}()

	if err := page.SetViewport(ctx, r.cfg.ViewportWidth, r.cfg.ViewportHeight); err != nil {
		return nil, err
	}
	if err := page.Navigate(ctx, t.URL, r.cfg.NavigationTimeout); err != nil {
		return nil, err
	}
	if err := settle(ctx, r.cfg.SettleDelay); err != nil {
		return nil, err
	}

	img, err := page.Screenshot(ctx, r.cfg.JPEGQuality)
	if err != nil {
		return nil, err
	}
	rawHTML, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}
	content, err := extract.Collect(ctx, page)
	if err != nil {
		return nil, err
	}

	r.reportDrift(t.Name, content)

	res := &models.PageResult{
		Name: t.Name,
		URL:  t.URL,
		Artifacts: models.Artifacts{
			Screenshot: r.store.screenshotPath(t.Name),
			HTML:       r.store.htmlPath(t.Name),
			Content:    r.store.contentPath(t.Name),
		},
		Content: content,
	}

	if err := writeFile(res.Artifacts.Screenshot, img); err != nil {
		return nil, err
	}
	if err := writeFile(res.Artifacts.HTML, []byte(rawHTML)); err != nil {
		return nil, err
	}
	if err := writeJSON(res.Artifacts.Content, content); err != nil {
		return nil, err
	}

	if r.markdown != nil {
		md, err := r.markdown.Export(rawHTML, t.URL)
		if err != nil {
			slog.Warn("markdown export failed", "page", t.Name, "error", err)
		} else {
			path := r.store.markdownPath(t.Name)
			if err := writeFile(path, []byte(md)); err != nil {
				return nil, err
			}
			res.Artifacts.Markdown = path
		}
	}

	return res, nil
}

// settle waits d for late dynamic content, returning early on cancellation.
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return models.NewSnapError(models.ErrCodeCanceled, "run canceled during settle delay", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// reportDrift compares content with the capture left by the previous run.
func (r *Runner) reportDrift(name string, content *models.PageContent) {
	prev, err := readContent(r.store.contentPath(name))
	if err != nil {
		slog.Debug("previous capture unreadable, skipping change detection", "page", name, "error", err)
		return
	}
	if prev == nil {
		slog.Debug("no previous capture", "page", name)
		return
	}

	rep := drift.Compare(prev, content)
	slog.Info("change detection",
		"page", name,
		"unchanged", rep.Unchanged(),
		"text_distance", rep.TextDistance,
		"outline_distance", rep.OutlineDistance,
	)
}
