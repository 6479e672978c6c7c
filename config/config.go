package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Snapshot  SnapshotConfig
	Browser   BrowserConfig
	Server    ServerConfig
	Contact   ContactConfig
	RateLimit RateLimitConfig
	Webhook   WebhookConfig
	Log       LogConfig
}

// DefaultTargets are the pages captured by a snapshot run.
var DefaultTargets = []string{
	"https://www.startech-innovation.com/",
	"https://www.startech-innovation.com/solutions",
	"https://www.startech-innovation.com/clients",
}

// SnapshotConfig controls a snapshot run.
type SnapshotConfig struct {
	// Targets is the ordered list of pages to capture.
	Targets []string

	// DefaultPageName names pages whose URL has no usable last path segment.
	DefaultPageName string // default: "home"

	// ScreenshotDir receives <name>-screenshot.jpg files.
	ScreenshotDir string // default: "screenshots"

	// CaptureDir receives markup, per-page JSON and all-content.json.
	CaptureDir string // default: "captured"

	// ViewportWidth and ViewportHeight fix the rendering size.
	ViewportWidth  int // default: 1920
	ViewportHeight int // default: 1080

	// NavigationTimeout bounds navigation until network idle + DOMContentLoaded.
	NavigationTimeout time.Duration // default: 30s

	// SettleDelay is the fixed wait after load before capture.
	SettleDelay time.Duration // default: 3s

	// JPEGQuality is the screenshot quality (0-100).
	JPEGQuality int // default: 90

	// ContinueOnError skips failed pages instead of aborting the run.
	ContinueOnError bool // default: false

	// Markdown additionally writes <name>.md per page.
	Markdown bool // default: false
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// ControlURL connects to an already running browser instead of launching one.
	ControlURL string

	// Incognito opens every page in its own browser context.
	Incognito bool // default: true

	// Stealth masks automation fingerprints on every page.
	Stealth bool // default: false

	// BlockAds blocks requests to well-known ad and tracking domains.
	BlockAds bool // default: false

	// UserAgent overrides the browser user agent when set.
	UserAgent string

	// AcceptLanguage is sent as an extra header on every page request.
	AcceptLanguage string // default: "en-US,en;q=0.9"
}

// ServerConfig controls the contact form HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8788
	Mode string // "debug", "release", "test"; default: "release"
}

// ContactConfig controls contact form email delivery.
type ContactConfig struct {
	// ResendAPIKey is the Resend credential. Empty means unconfigured.
	ResendAPIKey string

	// ResendBaseURL is the Resend API root.
	ResendBaseURL string // default: "https://api.resend.com"

	// From is the sender address shown on notification emails.
	From string // default: "Startech Website <onboarding@resend.dev>"

	// To lists the inboxes receiving submissions.
	To []string // default: ["info@startech-innovation.com"]

	// SiteName is used in the email footer.
	SiteName string // default: "Startech Innovation"

	// SendTimeout bounds one call to the email API.
	SendTimeout time.Duration // default: 10s
}

// RateLimitConfig controls per-client rate limiting of the contact route.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client IP.
	RequestsPerSecond float64 // default: 0.2

	// Burst is the maximum burst size per client IP.
	Burst int // default: 5
}

// WebhookConfig controls the run notification.
type WebhookConfig struct {
	URL    string
	Secret string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"
}

// DefaultSnapshotConfig returns the fixed capture parameters. Targets,
// output layout and timings are not read from the environment; only the
// optional behaviours (ContinueOnError, Markdown) are.
func DefaultSnapshotConfig() SnapshotConfig {
	return SnapshotConfig{
		Targets:           append([]string(nil), DefaultTargets...),
		DefaultPageName:   "home",
		ScreenshotDir:     "screenshots",
		CaptureDir:        "captured",
		ViewportWidth:     1920,
		ViewportHeight:    1080,
		NavigationTimeout: 30 * time.Second,
		SettleDelay:       3 * time.Second,
		JPEGQuality:       90,
		ContinueOnError:   envBoolOr("SITESNAP_CONTINUE_ON_ERROR", false),
		Markdown:          envBoolOr("SITESNAP_MARKDOWN", false),
	}
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Snapshot: DefaultSnapshotConfig(),
		Browser: BrowserConfig{
			Headless:   envBoolOr("SITESNAP_HEADLESS", true),
			NoSandbox:  envBoolOr("SITESNAP_NO_SANDBOX", true),
			BrowserBin: os.Getenv("SITESNAP_BROWSER_BIN"),
			ControlURL: os.Getenv("SITESNAP_CONTROL_URL"),
			Incognito:  envBoolOr("SITESNAP_INCOGNITO", true),
			Stealth:    envBoolOr("SITESNAP_STEALTH", false),
			BlockAds:   envBoolOr("SITESNAP_BLOCK_ADS", false),
			UserAgent:  os.Getenv("SITESNAP_USER_AGENT"),

			AcceptLanguage: envOr("SITESNAP_ACCEPT_LANGUAGE", "en-US,en;q=0.9"),
		},
		Server: ServerConfig{
			Host: envOr("SITEKIT_HOST", "0.0.0.0"),
			Port: envIntOr("SITEKIT_PORT", 8788),
			Mode: envOr("SITEKIT_MODE", "release"),
		},
		Contact: ContactConfig{
			ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
			ResendBaseURL: envOr("RESEND_BASE_URL", "https://api.resend.com"),
			From:          envOr("SITEKIT_CONTACT_FROM", "Startech Website <onboarding@resend.dev>"),
			To:            envSliceOr("SITEKIT_CONTACT_TO", []string{"info@startech-innovation.com"}),
			SiteName:      envOr("SITEKIT_SITE_NAME", "Startech Innovation"),
			SendTimeout:   envDurationOr("SITEKIT_SEND_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SITEKIT_RATE_RPS", 0.2),
			Burst:             envIntOr("SITEKIT_RATE_BURST", 5),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("SITESNAP_WEBHOOK_URL"),
			Secret: os.Getenv("SITESNAP_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:  envOr("SITEKIT_LOG_LEVEL", "info"),
			Format: os.Getenv("SITEKIT_LOG_FORMAT"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return append([]string(nil), fallback...)
}
