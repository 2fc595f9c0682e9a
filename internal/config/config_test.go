package config

import "testing"

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("port: %d", cfg.HTTPPort)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("driver: %s", cfg.DBDriver)
	}
	if got := cfg.GetHTTPAddr(); got != ":8080" {
		t.Fatalf("addr: %s", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("YUMELOG_HTTP_PORT", "9999")
	t.Setenv("YUMELOG_DB_DRIVER", "postgres")
	t.Setenv("YUMELOG_POSTGRES_DSN", "postgres://localhost/yumelog")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.HTTPPort != 9999 || cfg.DBDriver != "postgres" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestResolveDefaultsRejectsBadDriver(t *testing.T) {
	t.Setenv("YUMELOG_DB_DRIVER", "mysql")
	if _, err := New(); err == nil {
		t.Fatal("want error for unsupported driver")
	}
}

func TestResolveDefaultsRequiresPostgresDSN(t *testing.T) {
	t.Setenv("YUMELOG_DB_DRIVER", "postgres")
	t.Setenv("YUMELOG_POSTGRES_DSN", "")
	if _, err := New(); err == nil {
		t.Fatal("want error for missing DSN")
	}
}
