package views

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
)

func TestLoginView_FailureShowsBackendMessage(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser(asha, "secret1")
	h.store.Initialize(context.Background())

	v := NewLoginView(h.auth, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()

	if err := v.Submit(context.Background(), asha.Email, "wrong-password"); err == nil {
		t.Fatalf("expected login error")
	}
	st := v.State()
	if st.Submitting || st.Error != "Invalid credentials" {
		t.Fatalf("unexpected form state %+v", st)
	}
	if h.store.State().LoggedIn() {
		t.Fatalf("failed login must leave the session untouched")
	}
	if _, bound := h.client.Credential(); bound {
		t.Fatalf("failed login must not bind a credential")
	}
}

func TestLoginView_SuccessClearsError(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser(asha, "secret1")
	h.store.Initialize(context.Background())

	v := NewLoginView(h.auth, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()

	_ = v.Submit(context.Background(), asha.Email, "nope")
	if err := v.Submit(context.Background(), asha.Email, "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if v.State().Error != "" {
		t.Fatalf("expected cleared error, got %q", v.State().Error)
	}
	if !h.store.State().LoggedIn() {
		t.Fatalf("expected logged in")
	}
}

func TestLoginView_ValidationMessage(t *testing.T) {
	h := newHarness(t)
	v := NewLoginView(h.auth, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()

	_ = v.Submit(context.Background(), "", "")
	if v.State().Error == "" || v.State().Error == domain.GenericErrorMessage {
		t.Fatalf("expected field message, got %q", v.State().Error)
	}
	if len(h.srv.Requests()) != 0 {
		t.Fatalf("invalid form must not reach the backend")
	}
}

func TestLoginView_NotMounted(t *testing.T) {
	h := newHarness(t)
	v := NewLoginView(h.auth, zerolog.Nop())
	if err := v.Submit(context.Background(), asha.Email, "x"); !errors.Is(err, domain.ErrNotMounted) {
		t.Fatalf("expected ErrNotMounted, got %v", err)
	}
}

func TestRegisterView_DuplicateEmail(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser(asha, "secret1")
	h.store.Initialize(context.Background())

	v := NewRegisterView(h.auth, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()

	err := v.Submit(context.Background(), domain.Registration{
		Name: "Asha", Email: asha.Email, Password: "secret1", Location: "Pune",
	})
	if err == nil || v.State().Error != "User already exists" {
		t.Fatalf("expected duplicate message, got %q (%v)", v.State().Error, err)
	}
}
