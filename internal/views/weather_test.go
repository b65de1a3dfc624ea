package views

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/fetcher"
)

func TestWeatherView_RefetchesOncePerSessionTransition(t *testing.T) {
	h := newHarness(t)
	h.srv.SetWeather(domain.Weather{Location: "Pune", Temperature: 31})
	h.persisted(t, asha)

	v := NewWeatherView(h.store, h.client, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.Wait()
	if h.count("/api/weather") != 0 {
		t.Fatalf("must not fetch before the session is ready")
	}

	// not ready -> ready with identity
	h.store.Initialize(context.Background())
	v.Wait()
	if h.count("/api/weather") != 1 {
		t.Fatalf("expected one fetch after restore, got %d", h.count("/api/weather"))
	}
	if st := v.State(); st.Status != fetcher.StatusSuccess || st.Data.Temperature != 31 {
		t.Fatalf("unexpected state %+v", st)
	}

	// Same identity published again: no refetch.
	sess, _ := h.store.Current()
	if err := h.store.Login(context.Background(), sess); err != nil {
		t.Fatalf("relogin: %v", err)
	}
	v.Wait()
	if h.count("/api/weather") != 1 {
		t.Fatalf("same identity refetched: %d", h.count("/api/weather"))
	}

	// Logout then login again is a new transition.
	_ = h.store.Logout(context.Background())
	if v.State().Status != fetcher.StatusIdle {
		t.Fatalf("expected idle after logout, got %s", v.State().Status)
	}
	if err := h.store.Login(context.Background(), sess); err != nil {
		t.Fatalf("login: %v", err)
	}
	v.Wait()
	if h.count("/api/weather") != 2 {
		t.Fatalf("expected second fetch after re-login, got %d", h.count("/api/weather"))
	}
}

func TestWeatherView_SearchPinsLocation(t *testing.T) {
	h := newHarness(t)
	h.srv.SetWeather(domain.Weather{Location: "Pune"})
	h.srv.SetWeather(domain.Weather{Location: "Nashik", Temperature: 27})
	h.loggedIn(t, asha)

	v := NewWeatherView(h.store, h.client, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.Wait()

	if err := v.Search("Nashik"); err != nil {
		t.Fatalf("search: %v", err)
	}
	v.Wait()
	if v.State().Data.Location != "Nashik" {
		t.Fatalf("expected Nashik, got %+v", v.State().Data)
	}

	_ = h.store.Logout(context.Background())
	if v.State().Data.Location != "Nashik" {
		t.Fatalf("pinned search must survive logout")
	}
}

func TestWeatherView_ErrorMessageFromBody(t *testing.T) {
	h := newHarness(t)
	h.store.Initialize(context.Background())
	h.srv.FailNext("/api/weather", http.StatusNotFound, `{"message":"Location not found"}`)

	v := NewWeatherView(h.store, h.client, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()

	_ = v.Search("Atlantis")
	v.Wait()
	if st := v.State(); st.Status != fetcher.StatusError || st.Message != "Location not found" {
		t.Fatalf("unexpected state %+v", st)
	}
}
