package views

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/notify"
	"github.com/smartfarming/farm-client/internal/core/service"
	"github.com/smartfarming/farm-client/internal/infrastructure/db/memory"
	"github.com/smartfarming/farm-client/internal/infrastructure/http/apiclient"
	"github.com/smartfarming/farm-client/internal/testing/fakeapi"
)

// harness wires the real client stack against the fake backend.
type harness struct {
	srv       *fakeapi.Server
	client    *apiclient.Client
	bus       *notify.Bus
	snapshots *memory.SnapshotStore
	store     *service.SessionStore
	auth      *service.AuthService
	cart      *service.CartService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := fakeapi.New()
	t.Cleanup(srv.Close)

	log := zerolog.Nop()
	client := apiclient.New(srv.BaseURL(), apiclient.WithTimeout(5*time.Second))
	bus := notify.NewBus(log)
	snapshots := memory.NewSnapshotStore()
	store := service.NewSessionStore(snapshots, client, bus, log)

	return &harness{
		srv:       srv,
		client:    client,
		bus:       bus,
		snapshots: snapshots,
		store:     store,
		auth:      service.NewAuthService(client, store, log),
		cart:      service.NewCartService(client, bus, log),
	}
}

var asha = domain.Identity{Name: "Asha", Email: "asha@farm.in", Location: "Pune"}

// loggedIn registers identity on the backend and logs it in.
func (h *harness) loggedIn(t *testing.T, identity domain.Identity) {
	t.Helper()
	h.srv.AddUser(identity, "secret1")
	h.store.Initialize(context.Background())
	if _, err := h.auth.Login(context.Background(), identity.Email, "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

// persisted writes a snapshot for identity as a previous run would have.
func (h *harness) persisted(t *testing.T, identity domain.Identity) {
	t.Helper()
	token := h.srv.AddUser(identity, "secret1")
	data, err := domain.EncodeSnapshot(domain.Session{Identity: identity, Token: token})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := h.snapshots.Save(context.Background(), domain.SnapshotKey, data); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func (h *harness) count(path string) int {
	n := 0
	for _, r := range h.srv.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}
