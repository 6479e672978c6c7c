package snapshot

import (
	"context"
	"time"

	"github.com/startech-innovation/sitekit/extract"
)

// Browser is the shared browser process a run borrows pages from. The
// caller that created it owns it and closes it; Runner never does.
type Browser interface {
	// OpenPage opens a page in a fresh, isolated browsing context.
	OpenPage(ctx context.Context) (Page, error)
}

// Page is one open browsing context. Besides driving the page it answers
// the extraction queries of extract.PageInspector against the live DOM.
type Page interface {
	extract.PageInspector

	SetViewport(ctx context.Context, width, height int) error

	// Navigate loads url and waits for both network idle and
	// DOMContentLoaded. Exceeding timeout fails with NAVIGATION_TIMEOUT.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// Screenshot captures the full page as JPEG.
	Screenshot(ctx context.Context, quality int) ([]byte, error)

	// HTML returns the serialised DOM at call time.
	HTML(ctx context.Context) (string, error)

	// Close releases the page and its browsing context.
	Close() error
}
