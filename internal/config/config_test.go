package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func unsetAll(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetAll(t, "API_PORT", "STORE_DRIVER", "DEMO_MODE", "NATS_ENABLED", "NATS_URL",
		"API_RATE_LIMIT_RPS", "API_RATE_LIMIT_BURST", "API_BACKPRESSURE_WAIT",
		"STALE_SIGNATURE_DAYS", "LOG_FORMAT", "OCR_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.APIPort)
	}
	if cfg.StoreDriver != StorePostgres {
		t.Fatalf("expected default store postgres, got %q", cfg.StoreDriver)
	}
	if cfg.DemoMode {
		t.Fatalf("expected demo mode off by default")
	}
	if cfg.APIRateLimitRPS != 20 || cfg.APIRateLimitBurst != 40 {
		t.Fatalf("unexpected rate limit defaults: %v/%d", cfg.APIRateLimitRPS, cfg.APIRateLimitBurst)
	}
	if cfg.APIBackpressureWait != 250*time.Millisecond {
		t.Fatalf("expected 250ms backpressure wait, got %s", cfg.APIBackpressureWait)
	}
	if cfg.StaleSignatureDays != 90 {
		t.Fatalf("expected 90 stale days, got %d", cfg.StaleSignatureDays)
	}
	if !cfg.AsyncIngestEnabled() {
		t.Fatalf("expected async ingest enabled by default")
	}
	if cfg.OCRURL != "" {
		t.Fatalf("expected OCR disabled by default, got %q", cfg.OCRURL)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/heritage.db")
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("NATS_ENABLED", "false")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("API_RATE_LIMIT_BURST", "0")
	t.Setenv("RETRY_INITIAL_BACKOFF", "1s")
	t.Setenv("STALE_SIGNATURE_DAYS", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StoreDriver != StoreSQLite || cfg.SQLitePath != "/tmp/heritage.db" {
		t.Fatalf("unexpected store config: %q %q", cfg.StoreDriver, cfg.SQLitePath)
	}
	if !cfg.DemoMode {
		t.Fatalf("expected demo mode")
	}
	if cfg.AsyncIngestEnabled() {
		t.Fatalf("expected async ingest disabled")
	}
	if cfg.APIRateLimitBurst != 2 {
		t.Fatalf("expected burst derived from rps, got %d", cfg.APIRateLimitBurst)
	}
	if cfg.RetryInitialBackoff != time.Second {
		t.Fatalf("expected 1s backoff, got %s", cfg.RetryInitialBackoff)
	}
	if cfg.StaleSignatureDays != 30 {
		t.Fatalf("expected 30 stale days, got %d", cfg.StaleSignatureDays)
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("API_MAX_IN_FLIGHT", "many")
	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for malformed int")
	}
	if !strings.Contains(err.Error(), "API_MAX_IN_FLIGHT") {
		t.Fatalf("expected variable name in error, got %v", err)
	}
}

func TestLoadRejectsUnknownStoreDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "STORE_DRIVER") {
		t.Fatalf("expected STORE_DRIVER error, got %v", err)
	}
}
