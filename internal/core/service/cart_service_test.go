package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/notify"
)

type stubCartAPI struct {
	cart domain.Cart
	err  error
}

func (s *stubCartAPI) Cart(context.Context) (domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartAPI) AddToCart(_ context.Context, productID string, quantity int) (domain.Cart, error) {
	if s.err != nil {
		return domain.Cart{}, s.err
	}
	s.cart.Items = append(s.cart.Items, domain.CartItem{ID: "line-" + productID, ProductID: productID, Quantity: quantity})
	return s.cart, nil
}

func (s *stubCartAPI) RemoveFromCart(_ context.Context, itemID string) (domain.Cart, error) {
	if s.err != nil {
		return domain.Cart{}, s.err
	}
	kept := s.cart.Items[:0]
	for _, it := range s.cart.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	s.cart.Items = kept
	return s.cart, nil
}

func TestCartService_AddPublishes(t *testing.T) {
	bus := notify.NewBus(zerolog.Nop())
	api := &stubCartAPI{cart: domain.Cart{Items: []domain.CartItem{{ID: "a", Quantity: 1}}}}
	svc := NewCartService(api, bus, zerolog.Nop())

	var published []int
	bus.Cart.Subscribe(func(c domain.Cart) { published = append(published, c.Count()) })

	if _, err := svc.Add(context.Background(), "seed-1", 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Remove(context.Background(), "a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(published) != 2 || published[0] != 4 || published[1] != 3 {
		t.Fatalf("unexpected publications: %v", published)
	}
}

func TestCartService_FailedMutationDoesNotPublish(t *testing.T) {
	bus := notify.NewBus(zerolog.Nop())
	api := &stubCartAPI{err: &domain.APIError{Status: 500, Message: "out of stock"}}
	svc := NewCartService(api, bus, zerolog.Nop())

	called := false
	bus.Cart.Subscribe(func(domain.Cart) { called = true })

	_, err := svc.Add(context.Background(), "seed-1", 1)
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "out of stock" {
		t.Fatalf("expected api error, got %v", err)
	}
	if called {
		t.Fatalf("failed mutation was published")
	}
}

func TestCartService_LoadDoesNotPublish(t *testing.T) {
	bus := notify.NewBus(zerolog.Nop())
	svc := NewCartService(&stubCartAPI{}, bus, zerolog.Nop())
	called := false
	bus.Cart.Subscribe(func(domain.Cart) { called = true })

	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if called {
		t.Fatalf("load must not publish")
	}
}

func TestCartService_AddValidation(t *testing.T) {
	svc := NewCartService(&stubCartAPI{}, notify.NewBus(zerolog.Nop()), zerolog.Nop())
	if _, err := svc.Add(context.Background(), "", 1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
