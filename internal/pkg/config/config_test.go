package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("mapboard-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("expected port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected sqlite driver, got %s", cfg.Database.Driver)
	}
	if cfg.Uploads.Dir != "static/uploads" {
		t.Errorf("expected static/uploads, got %s", cfg.Uploads.Dir)
	}
	if cfg.Telemetry.ServiceName != "mapboard-test" {
		t.Errorf("expected service name mapboard-test, got %s", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MAPBOARD_SERVER_PORT", "8081")
	t.Setenv("MAPBOARD_SERVER_DEBUG", "true")
	t.Setenv("MAPBOARD_DATABASE_DRIVER", "postgres")

	cfg, err := Load("mapboard-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("expected port 8081, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("debug flag should force log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected postgres driver, got %s", cfg.Database.Driver)
	}
}

func TestLoad_LegacyAMapEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AMAP_API_KEY", "k-123")
	t.Setenv("AMAP_SECURITY_KEY", "s-456")

	cfg, err := Load("mapboard-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AMap.Key != "k-123" {
		t.Errorf("expected key k-123, got %q", cfg.AMap.Key)
	}
	if cfg.AMap.SecurityCode != "s-456" {
		t.Errorf("expected security code s-456, got %q", cfg.AMap.SecurityCode)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Port: 0, ReadTimeout: 1, WriteTimeout: 1, BodyLimitMB: 1},
		Database:  DatabaseConfig{Driver: "mysql"},
		RateLimit: RateLimitConfig{Max: 1, WindowSeconds: 1},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"server.port", "database.driver", "uploads.dir"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in error, got %s", want, msg)
		}
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 5433, DBName: "maps", SSLMode: "disable"}
	want := "postgres://u:p@db:5433/maps?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
