package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/startech-innovation/sitekit/models"
	"github.com/ysmood/gson"
)

// Page adapts a rod page to snapshot.Page. Every call binds the caller's
// context, so cancelling the run interrupts the current CDP call.
type Page struct {
	page    *rod.Page
	context *rod.Browser // incognito context to dispose on Close; nil if shared
	router  *rod.HijackRouter
}

func (p *Page) SetViewport(ctx context.Context, width, height int) error {
	err := p.page.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return categorizeBrowserError(err, "failed to set viewport")
	}
	return nil
}

// Navigate loads url and blocks until the new document has fired both the
// DOMContentLoaded and networkIdle lifecycle events.
//
// Lifecycle events are enabled once for the whole wait. Enabling them
// replays the events of the current document (about:blank), so events are
// matched on the loader id returned by Page.navigate.
func (p *Page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page := p.page.Context(navCtx)

	if err := (proto.PageSetLifecycleEventsEnabled{Enabled: true}).Call(page); err != nil {
		return categorizeError(err, "failed to enable lifecycle events")
	}
	defer func() {
		_ = proto.PageSetLifecycleEventsEnabled{Enabled: false}.Call(p.page)
	}()

	var loaderID proto.NetworkLoaderID
	seen := make(map[proto.PageLifecycleEventName]bool, 2)

	// Callbacks only run inside wait(), after loaderID has been set.
	wait := page.EachEvent(func(e *proto.PageLifecycleEvent) bool {
		if e.LoaderID != loaderID {
			return false
		}
		switch e.Name {
		case proto.PageLifecycleEventNameDOMContentLoaded, proto.PageLifecycleEventNameNetworkIdle:
			seen[e.Name] = true
		}
		return seen[proto.PageLifecycleEventNameDOMContentLoaded] &&
			seen[proto.PageLifecycleEventNameNetworkIdle]
	})

	res, err := proto.PageNavigate{URL: url}.Call(page)
	if err != nil {
		return categorizeError(err, "navigation to target URL failed")
	}
	if res.ErrorText != "" {
		return categorizeError(&rod.NavigationError{Reason: res.ErrorText}, "navigation to target URL failed")
	}
	loaderID = res.LoaderID

	// Returns early when navCtx ends.
	wait()

	if err := navCtx.Err(); err != nil {
		return categorizeError(err, "page did not settle before the navigation timeout")
	}
	return nil
}

func (p *Page) Screenshot(ctx context.Context, quality int) ([]byte, error) {
	img, err := p.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(quality),
	})
	if err != nil {
		return nil, categorizeBrowserError(err, "failed to capture screenshot")
	}
	return img, nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	html, err := p.page.Context(ctx).HTML()
	if err != nil {
		return "", categorizeBrowserError(err, "failed to read page HTML")
	}
	return html, nil
}

// Close stops the ad-block router, closes the page and disposes of its
// incognito context. It does not take a context so that cleanup still
// runs after the run was cancelled.
func (p *Page) Close() error {
	if p.router != nil {
		_ = p.router.Stop()
	}
	err := p.page.Close()
	if p.context != nil {
		err = errors.Join(err, p.context.Close())
	}
	return err
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps navigation errors into typed SnapErrors so the run
// log and the webhook event carry a stable code.
func categorizeError(err error, msg string) *models.SnapError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewSnapError(models.ErrCodeNavTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewSnapError(models.ErrCodeCanceled, "run canceled", err)
	default:
		return models.NewSnapError(models.ErrCodeNavigation, msg, err)
	}
}

// categorizeBrowserError is categorizeError for calls made after the page
// has loaded, where a non-context failure means the browser went away.
func categorizeBrowserError(err error, msg string) *models.SnapError {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return models.NewSnapError(models.ErrCodeCanceled, "run canceled", err)
	}
	return models.NewSnapError(models.ErrCodeBrowser, msg, err)
}
