package scraper

import (
	"context"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/startech-innovation/sitekit/config"
	"github.com/startech-innovation/sitekit/models"
	"github.com/startech-innovation/sitekit/snapshot"
)

// Scraper owns the shared browser process for one snapshot run.
// Pages are opened one at a time; it is not meant for concurrent use.
type Scraper struct {
	browser  *rod.Browser
	launcher *launcher.Launcher // nil when connected to an external browser
	cfg      config.BrowserConfig
}

var (
	_ snapshot.Browser = (*Scraper)(nil)
	_ snapshot.Page    = (*Page)(nil)
)

// NewScraper launches a headless browser, or connects to cfg.ControlURL
// when set.
func NewScraper(cfg config.BrowserConfig) (*Scraper, error) {
	s := &Scraper{cfg: cfg}

	controlURL := cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().
			Headless(cfg.Headless).
			NoSandbox(cfg.NoSandbox)

		if cfg.BrowserBin != "" {
			l = l.Bin(cfg.BrowserBin)
		}

		l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
		l.Delete(flags.Flag("enable-automation"))
		l.Set(flags.Flag("disable-dev-shm-usage"))
		l.Set(flags.Flag("disable-extensions"))
		l.Set(flags.Flag("disable-component-update"))
		l.Set(flags.Flag("hide-scrollbars"))
		l.Set(flags.Flag("no-first-run"))

		u, err := l.Launch()
		if err != nil {
			return nil, models.NewSnapError(
				models.ErrCodeBrowser,
				"failed to launch browser",
				err,
			)
		}
		slog.Info("browser launched", "controlURL", u)
		controlURL = u
		s.launcher = l
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		if s.launcher != nil {
			s.launcher.Kill()
		}
		return nil, models.NewSnapError(
			models.ErrCodeBrowser,
			"failed to connect to browser",
			err,
		)
	}
	s.browser = browser
	return s, nil
}

// OpenPage opens a page in its own incognito context (unless disabled),
// applying stealth, user agent, extra headers and ad blocking.
func (s *Scraper) OpenPage(ctx context.Context) (snapshot.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, categorizeError(err, "run canceled before opening page")
	}

	b := s.browser
	var owner *rod.Browser

	if s.cfg.Incognito {
		inc, err := b.Incognito()
		if err != nil {
			return nil, models.NewSnapError(
				models.ErrCodeBrowser,
				"failed to create browsing context",
				err,
			)
		}
		b = inc
		owner = inc
	}

	var (
		page *rod.Page
		err  error
	)
	if s.cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		if owner != nil {
			_ = owner.Close()
		}
		return nil, models.NewSnapError(
			models.ErrCodeBrowser,
			"failed to open page",
			err,
		)
	}

	p := &Page{page: page, context: owner}

	// The user agent override carries Accept-Language itself; the extra
	// header is only needed when the browser's own user agent is kept.
	switch {
	case s.cfg.UserAgent != "":
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      s.cfg.UserAgent,
			AcceptLanguage: s.cfg.AcceptLanguage,
		}); err != nil {
			slog.Warn("failed to override user agent", "error", err)
		}
	case s.cfg.AcceptLanguage != "":
		if err := (proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{"Accept-Language": s.cfg.AcceptLanguage}),
		}).Call(page); err != nil {
			slog.Warn("failed to set Accept-Language header", "error", err)
		}
	}
	if s.cfg.BlockAds {
		p.router = setupAdBlock(page)
	}

	return p, nil
}

// Close shuts the browser down. For a launched browser it also waits for
// the process to exit and removes its profile directory.
// Call it exactly once, on every exit path.
func (s *Scraper) Close() {
	slog.Info("scraper shutting down: closing browser")
	if err := s.browser.Close(); err != nil {
		slog.Warn("failed to close browser", "error", err)
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
	}
	slog.Info("scraper shutdown complete")
}
