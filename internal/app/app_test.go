package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/infrastructure/config"
	"github.com/smartfarming/farm-client/internal/testing/fakeapi"
)

func loadConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(context.Background(), envconfig.MapLookuper(env))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func newApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func TestApp_SessionSurvivesRestartWithFileBackend(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.AddUser(domain.Identity{Name: "Asha", Email: "asha@farm.in", Location: "Pune"}, "secret1")

	env := map[string]string{
		"FARM_API_URL":     srv.BaseURL(),
		"SNAPSHOT_BACKEND": "file",
		"SNAPSHOT_PATH":    t.TempDir(),
	}
	ctx := context.Background()

	first := newApp(t, loadConfig(t, env))
	first.Start(ctx)
	sess, err := first.Auth.Login(ctx, "asha@farm.in", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	second := newApp(t, loadConfig(t, env))
	second.Start(ctx)
	got, ok := second.Session.Current()
	if !ok || got != sess {
		t.Fatalf("restored %+v, want %+v", got, sess)
	}
	if tok, _ := second.Client.Credential(); tok != sess.Token {
		t.Fatalf("restored credential not bound")
	}

	if _, err := second.Client.Profile(ctx); err != nil {
		t.Fatalf("profile with restored credential: %v", err)
	}
	if rec, _ := srv.LastRequest("/api/user/profile"); rec.Authorization != "Bearer "+sess.Token {
		t.Fatalf("unexpected header %q", rec.Authorization)
	}
}

func TestApp_SealedRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	srv := fakeapi.New()
	defer srv.Close()
	srv.AddUser(domain.Identity{Name: "Ravi", Email: "ravi@farm.in"}, "secret1")

	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 32))
	a := newApp(t, loadConfig(t, map[string]string{
		"FARM_API_URL":     srv.BaseURL(),
		"SNAPSHOT_BACKEND": "redis",
		"REDIS_ADDR":       mr.Addr(),
		"SNAPSHOT_KEY":     key,
	}))
	ctx := context.Background()
	a.Start(ctx)

	sess, err := a.Auth.Login(ctx, "ravi@farm.in", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	raw, err := mr.Get("farm:snapshot:user")
	if err != nil {
		t.Fatalf("snapshot missing: %v", err)
	}
	if bytes.Contains([]byte(raw), []byte(sess.Token)) {
		t.Fatalf("token stored unsealed")
	}
	if a.Pinger() == nil || a.Pinger().Ping(ctx) != nil {
		t.Fatalf("expected healthy pinger")
	}
}

func TestApp_RejectsBadSealingKey(t *testing.T) {
	cfg := loadConfig(t, map[string]string{"SNAPSHOT_BACKEND": "memory", "SNAPSHOT_KEY": "short"})
	if _, err := New(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for bad key")
	}
}
