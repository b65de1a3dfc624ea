package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://localhost:5000/api" {
		t.Fatalf("unexpected api url %q", cfg.APIURL)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.RequestTimeout)
	}
	if cfg.Snapshot.Backend != BackendFile {
		t.Fatalf("unexpected backend %q", cfg.Snapshot.Backend)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Mongo.Database != "smart_farming" {
		t.Fatalf("unexpected store defaults %+v %+v", cfg.Redis, cfg.Mongo)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"FARM_API_URL":         "https://farm.example/api",
		"FARM_REQUEST_TIMEOUT": "3s",
		"SNAPSHOT_BACKEND":     "redis",
		"SNAPSHOT_PATH":        "/var/lib/farm",
		"REDIS_DB":             "2",
		"LOG_PRETTY":           "true",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "https://farm.example/api" || cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("unexpected api settings %+v", cfg)
	}
	if cfg.Snapshot.Backend != BackendRedis || cfg.Redis.DB != 2 || !cfg.LogPretty {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if cfg.SnapshotDir() != "/var/lib/farm" {
		t.Fatalf("unexpected snapshot dir %q", cfg.SnapshotDir())
	}
}

func TestLoadFrom_RejectsUnknownBackend(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"SNAPSHOT_BACKEND": "sqlite",
	}))
	if err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
