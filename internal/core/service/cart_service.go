package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/notify"
	"github.com/smartfarming/farm-client/internal/core/ports"
)

// CartService wraps the cart endpoints. Every successful mutation publishes
// the returned cart so views that did not trigger it can update.
type CartService struct {
	api ports.CartAPI
	bus *notify.Bus
	log zerolog.Logger
}

func NewCartService(api ports.CartAPI, bus *notify.Bus, log zerolog.Logger) *CartService {
	return &CartService{api: api, bus: bus, log: log.With().Str("component", "cart").Logger()}
}

// Load fetches the cart without publishing; the caller already has it.
func (s *CartService) Load(ctx context.Context) (domain.Cart, error) {
	return s.api.Cart(ctx)
}

// Add puts quantity units of productID in the cart.
func (s *CartService) Add(ctx context.Context, productID string, quantity int) (domain.Cart, error) {
	if productID == "" || quantity <= 0 {
		return domain.Cart{}, &domain.ValidationError{Message: "product and a positive quantity are required"}
	}
	cart, err := s.api.AddToCart(ctx, productID, quantity)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("add to cart: %w", err)
	}
	s.published(cart)
	return cart, nil
}

// Remove drops a cart line.
func (s *CartService) Remove(ctx context.Context, itemID string) (domain.Cart, error) {
	if itemID == "" {
		return domain.Cart{}, &domain.ValidationError{Message: "item is required"}
	}
	cart, err := s.api.RemoveFromCart(ctx, itemID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("remove from cart: %w", err)
	}
	s.published(cart)
	return cart, nil
}

func (s *CartService) published(cart domain.Cart) {
	n := s.bus.Cart.Publish(cart)
	s.log.Debug().Int("items", cart.Count()).Int("subscribers", n).Msg("cart update published")
}
