package views

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/fetcher"
)

func TestForumView_VoteRefetches(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t, asha)
	post := h.srv.AddPost(domain.ForumPost{Title: "Drip irrigation", Content: "Worth it?"})

	v := NewForumView(h.client, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.Wait()

	if err := v.Vote(context.Background(), post.ID, domain.VoteUp); err != nil {
		t.Fatalf("vote: %v", err)
	}
	v.Wait()
	posts := v.State().Data
	if len(posts) != 1 || posts[0].Score() != 1 {
		t.Fatalf("expected score 1, got %+v", posts)
	}
}

func TestForumView_CreatePostValidates(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t, asha)

	v := NewForumView(h.client, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.Wait()

	if err := v.CreatePost(context.Background(), " ", "body"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if v.ActionError() != "title is required" {
		t.Fatalf("unexpected action error %q", v.ActionError())
	}

	if err := v.CreatePost(context.Background(), "Monsoon", "Early this year"); err != nil {
		t.Fatalf("create: %v", err)
	}
	v.Wait()
	if v.ActionError() != "" || len(v.State().Data) != 1 || v.State().Data[0].Author != "Asha" {
		t.Fatalf("unexpected state %+v / %q", v.State().Data, v.ActionError())
	}
}

func TestSchemesView_NonAdminCannotMutate(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t, asha)
	sc := h.srv.AddScheme(domain.Scheme{Name: "PM-KISAN", Description: "Income support", Category: "subsidy"})

	v := NewSchemesView(h.store, h.client, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.Wait()

	err := v.Delete(context.Background(), sc.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if v.ActionError() != adminOnlyMessage {
		t.Fatalf("unexpected action error %q", v.ActionError())
	}
	if st := v.State(); st.Status != fetcher.StatusSuccess || len(st.Data.Results) != 1 {
		t.Fatalf("list state must be untouched, got %+v", st)
	}
	if _, seen := h.srv.LastRequest("/api/schemes/" + sc.ID); seen {
		t.Fatalf("forbidden mutation reached the backend")
	}
}

func TestSchemesView_AdminCreateRefetches(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t, domain.Identity{Name: "Admin", Email: "admin@farm.in", Role: domain.RoleAdmin})

	v := NewSchemesView(h.store, h.client, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.Wait()

	err := v.Create(context.Background(), domain.Scheme{Name: "Solar pump", Description: "Subsidy", Category: "energy"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	v.Wait()
	if len(v.State().Data.Results) != 1 {
		t.Fatalf("expected refetched list with one scheme, got %+v", v.State().Data)
	}

	if err := v.Search(domain.SchemeQuery{Category: "water"}); err != nil {
		t.Fatalf("search: %v", err)
	}
	v.Wait()
	if len(v.State().Data.Results) != 0 {
		t.Fatalf("expected empty filtered list, got %+v", v.State().Data)
	}
}

func TestSoilTestsView_SubmitPrependsResult(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t, asha)

	v := NewSoilTestsView(h.store, h.client, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.Wait()

	first, err := v.Submit(context.Background(), domain.SoilTest{PH: 6.5, Nitrogen: 300, Phosphorus: 20, Potassium: 200, OrganicMatter: 1})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	second, err := v.Submit(context.Background(), domain.SoilTest{PH: 5.1, Nitrogen: 300, Phosphorus: 20, Potassium: 200, OrganicMatter: 1})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	list := v.State().Data
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}
	if len(second.Recommendations) == 0 {
		t.Fatalf("expected recommendations")
	}

	if _, err := v.Submit(context.Background(), domain.SoilTest{PH: 15}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid pH to be rejected, got %v", err)
	}
}

func TestDetectionView_Upload(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t, asha)

	v := NewDetectionView(h.client, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()

	st, err := v.Upload(context.Background(), "leaf.jpg", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if st.Status != fetcher.StatusSuccess || st.Data.Pest == "" {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestProfileView_ClearsOnLogout(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t, asha)

	v := NewProfileView(h.store, h.client, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.Wait()
	if v.State().Data.Email != asha.Email {
		t.Fatalf("unexpected profile %+v", v.State().Data)
	}

	_ = h.store.Logout(context.Background())
	if v.State().Status != fetcher.StatusIdle || v.State().Data.Email != "" {
		t.Fatalf("expected cleared profile, got %+v", v.State())
	}
}

func TestCartView_AddErrorStaysInActionSlot(t *testing.T) {
	h := newHarness(t)
	h.loggedIn(t, asha)

	v := NewCartView(h.store, h.cart, h.bus, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.Wait()

	if err := v.Add(context.Background(), "", 1); err == nil {
		t.Fatalf("expected validation error")
	}
	if v.ActionError() == "" || v.State().Status != fetcher.StatusSuccess {
		t.Fatalf("unexpected state %+v / %q", v.State(), v.ActionError())
	}
	if err := v.Add(context.Background(), "p9", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if v.State().Data.Count() != 1 || v.ActionError() != "" {
		t.Fatalf("expected notified cart, got %+v", v.State().Data)
	}
}

func TestView_OperationsAfterUnmount(t *testing.T) {
	h := newHarness(t)
	v := NewForumView(h.client, zerolog.Nop())
	v.Mount(context.Background())
	v.Wait()
	v.Unmount()

	if err := v.Vote(context.Background(), "p", domain.VoteUp); !errors.Is(err, domain.ErrNotMounted) {
		t.Fatalf("expected ErrNotMounted, got %v", err)
	}
	v.Mount(context.Background())
	if v.isMounted() {
		t.Fatalf("a view cannot be mounted twice")
	}
}

func TestCartView_IgnoresCartPublishedWhileLoggedOut(t *testing.T) {
	h := newHarness(t)
	h.store.Initialize(context.Background())

	v := NewCartView(h.store, h.cart, h.bus, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.Wait()

	h.bus.Cart.Publish(domain.Cart{Items: []domain.CartItem{{ID: "i1", Quantity: 2}}})
	if v.State().Data.Count() != 0 {
		t.Fatalf("logged-out cart accepted a notification: %+v", v.State().Data)
	}
}
