package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if !reflect.DeepEqual(cfg.Snapshot.Targets, DefaultTargets) {
		t.Errorf("Targets = %v, want %v", cfg.Snapshot.Targets, DefaultTargets)
	}
	if cfg.Snapshot.DefaultPageName != "home" {
		t.Errorf("DefaultPageName = %q, want home", cfg.Snapshot.DefaultPageName)
	}
	if cfg.Snapshot.ViewportWidth != 1920 || cfg.Snapshot.ViewportHeight != 1080 {
		t.Errorf("viewport = %dx%d, want 1920x1080", cfg.Snapshot.ViewportWidth, cfg.Snapshot.ViewportHeight)
	}
	if cfg.Snapshot.NavigationTimeout != 30*time.Second {
		t.Errorf("NavigationTimeout = %v, want 30s", cfg.Snapshot.NavigationTimeout)
	}
	if cfg.Snapshot.SettleDelay != 3*time.Second {
		t.Errorf("SettleDelay = %v, want 3s", cfg.Snapshot.SettleDelay)
	}
	if cfg.Snapshot.JPEGQuality != 90 {
		t.Errorf("JPEGQuality = %d, want 90", cfg.Snapshot.JPEGQuality)
	}
	if cfg.Snapshot.ContinueOnError {
		t.Error("ContinueOnError should default to false")
	}
	if cfg.Contact.ResendAPIKey != "" {
		t.Error("ResendAPIKey should be empty without RESEND_API_KEY")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SITESNAP_CONTINUE_ON_ERROR", "true")
	t.Setenv("SITESNAP_MARKDOWN", "1")
	t.Setenv("SITEKIT_RATE_RPS", "1.5")
	t.Setenv("SITEKIT_PORT", "not-a-number")

	cfg := Load()

	if !cfg.Snapshot.ContinueOnError {
		t.Error("ContinueOnError should be true")
	}
	if !cfg.Snapshot.Markdown {
		t.Error("Markdown should be true")
	}
	if cfg.RateLimit.RequestsPerSecond != 1.5 {
		t.Errorf("RequestsPerSecond = %v, want 1.5", cfg.RateLimit.RequestsPerSecond)
	}
	if cfg.Server.Port != 8788 {
		t.Errorf("invalid int should fall back, got %d", cfg.Server.Port)
	}
}

func TestLoad_CaptureParametersIgnoreEnv(t *testing.T) {
	t.Setenv("SITESNAP_TARGETS", "https://a.example/")
	t.Setenv("SITESNAP_DEFAULT_PAGE", "index")
	t.Setenv("SITESNAP_JPEG_QUALITY", "150")
	t.Setenv("SITESNAP_VIEWPORT_WIDTH", "0")
	t.Setenv("SITESNAP_NAV_TIMEOUT", "1ms")
	t.Setenv("SITESNAP_SETTLE_DELAY", "1h")

	got := Load().Snapshot
	want := DefaultSnapshotConfig()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot = %+v, want fixed defaults %+v", got, want)
	}
}

func TestDefaultSnapshotConfig_DoesNotAliasTargets(t *testing.T) {
	cfg := DefaultSnapshotConfig()
	cfg.Targets[0] = "mutated"
	if DefaultTargets[0] == "mutated" {
		t.Fatal("DefaultSnapshotConfig returned DefaultTargets itself")
	}
}

func TestEnvSliceOr_DoesNotAliasFallback(t *testing.T) {
	got := envSliceOr("SITEKIT_UNSET_FOR_TEST", DefaultTargets)
	got[0] = "mutated"
	if DefaultTargets[0] == "mutated" {
		t.Fatal("envSliceOr returned the fallback slice itself")
	}
}
