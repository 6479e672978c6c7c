package scraper

import (
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// trackerDomains are ad, analytics and social-widget hosts whose requests
// are failed when BlockAds is on. Subdomains match too.
var trackerDomains = map[string]struct{}{
	"doubleclick.net":       {},
	"googlesyndication.com": {},
	"googleadservices.com":  {},
	"google-analytics.com":  {},
	"googletagmanager.com":  {},
	"googletagservices.com": {},
	"connect.facebook.net":  {},
	"facebook.net":          {},
	"adnxs.com":             {},
	"amazon-adsystem.com":   {},
	"criteo.com":            {},
	"criteo.net":            {},
	"outbrain.com":          {},
	"taboola.com":           {},
	"hotjar.com":            {},
	"clarity.ms":            {},
	"mixpanel.com":          {},
	"segment.io":            {},
	"segment.com":           {},
	"ads-twitter.com":       {},
	"analytics.twitter.com": {},
	"snap.licdn.com":        {},
	"ads.linkedin.com":      {},
	"hubspot.com":           {},
	"hs-analytics.net":      {},
	"intercom.io":           {},
	"consensu.org":          {},
}

// isTrackerHost reports whether host or one of its parent domains is a
// known tracker.
func isTrackerHost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for host != "" {
		if _, ok := trackerDomains[host]; ok {
			return true
		}
		idx := strings.IndexByte(host, '.')
		if idx < 0 {
			break
		}
		host = host[idx+1:]
	}
	return false
}

// setupAdBlock installs a request interceptor that fails tracker requests
// and lets everything else through untouched. Images and stylesheets are
// never blocked because the screenshot needs them.
//
// The returned router must be stopped when the page closes.
func setupAdBlock(page *rod.Page) *rod.HijackRouter {
	router := page.HijackRequests()

	_ = router.Add("*", "", func(h *rod.Hijack) {
		if u, err := url.Parse(h.Request.URL().String()); err == nil && isTrackerHost(u.Hostname()) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// Run blocks until Stop.
	go router.Run()

	return router
}
