package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/startech-innovation/sitekit/config"
	"github.com/startech-innovation/sitekit/models"
	"github.com/startech-innovation/sitekit/scraper"
	"github.com/startech-innovation/sitekit/snapshot"
	"github.com/startech-innovation/sitekit/webhook"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(os.Stdout, cfg.Log)

	start := time.Now()
	runID := fmt.Sprintf("run-%d", start.UnixMilli())
	slog.Info("sitesnap starting",
		"run_id", runID,
		"targets", len(cfg.Snapshot.Targets),
		"screenshots", cfg.Snapshot.ScreenshotDir,
		"captured", cfg.Snapshot.CaptureDir,
	)

	// SIGINT/SIGTERM cancel the run; the browser is still closed below.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── 3. Launch the shared browser ────────────────────────────────
	sc, err := scraper.NewScraper(cfg.Browser)
	if err != nil {
		slog.Error("failed to initialise scraper", "error", err)
		notify(cfg.Webhook, runID, &models.RunSummary{
			Pages:      []models.PageResult{},
			DurationMs: time.Since(start).Milliseconds(),
			Error:      models.DetailOf(err),
		})
		return 1
	}
	defer sc.Close()

	// ── 4. Capture every target ─────────────────────────────────────
	summary, err := snapshot.NewRunner(sc, cfg.Snapshot).Run(ctx)
	notify(cfg.Webhook, runID, summary)

	if err != nil {
		slog.Error("snapshot run failed",
			"code", models.CodeOf(err),
			"error", err,
			"pages_attempted", len(summary.Pages),
			"duration_ms", summary.DurationMs,
		)
		return 1
	}

	slog.Info("snapshot run complete",
		"pages", len(summary.Pages),
		"aggregate", summary.Aggregate,
		"duration_ms", summary.DurationMs,
	)
	return 0
}

// notify sends the run event when a webhook is configured. Failure is
// logged and never changes the exit code.
func notify(cfg config.WebhookConfig, runID string, summary *models.RunSummary) {
	if cfg.URL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n := webhook.NewNotifier(cfg.URL, cfg.Secret)
	if err := n.Notify(ctx, webhook.NewEvent(runID, summary)); err != nil {
		slog.Error("run notification not delivered", "error", err)
	}
}

// initLogger configures slog based on the LogConfig.
func initLogger(w io.Writer, cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}
