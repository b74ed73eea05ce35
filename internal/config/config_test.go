package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t, "HTTP_PORT", "STORE_DRIVER", "DATABASE_URL", "RATE_LIMIT_PER_MINUTE",
		"REQUEST_TIMEOUT", "CORS_ORIGIN", "TRUSTED_PROXIES")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "5000" || cfg.StoreDriver != StoreMongo {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.RequestTimeout != 10*time.Second || cfg.RateLimitPerMinute != 0 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.CORSOrigin != "*" || len(cfg.TrustedProxies) != 0 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfig_TrustedProxies(t *testing.T) {
	clearEnv(t, "STORE_DRIVER")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,192.0.2.0/24")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[1] != "192.0.2.0/24" {
		t.Fatalf("unexpected trusted proxies %v", cfg.TrustedProxies)
	}
}

func TestLoadConfig_PostgresRequiresURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", StorePostgres)
	t.Setenv("DATABASE_URL", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/hellomap")
	if _, err := LoadConfig(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestLoadConfig_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "cassandra")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestLoadClientConfig(t *testing.T) {
	t.Setenv("HELLOMAP_LAT", "51.5")
	t.Setenv("HELLOMAP_LNG", "-0.09")
	cfg, err := LoadClientConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Latitude == nil || *cfg.Latitude != 51.5 {
		t.Fatalf("expected latitude 51.5, got %v", cfg.Latitude)
	}
	if cfg.Longitude == nil || *cfg.Longitude != -0.09 {
		t.Fatalf("expected longitude -0.09, got %v", cfg.Longitude)
	}
	if cfg.GeoIPURL != "https://ipapi.co/json" {
		t.Fatalf("unexpected geo url %q", cfg.GeoIPURL)
	}
}
