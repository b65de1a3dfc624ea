package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/ports"
)

var _ ports.CartAPI = (*Client)(nil)

func (c *Client) Cart(ctx context.Context) (domain.Cart, error) {
	var cart domain.Cart
	err := c.doJSON(ctx, http.MethodGet, "/cart", nil, nil, &cart)
	return cart, err
}

func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) (domain.Cart, error) {
	payload := map[string]any{"productId": productID, "quantity": quantity}
	var cart domain.Cart
	err := c.doJSON(ctx, http.MethodPost, "/cart", nil, payload, &cart)
	return cart, err
}

func (c *Client) RemoveFromCart(ctx context.Context, itemID string) (domain.Cart, error) {
	var cart domain.Cart
	err := c.doJSON(ctx, http.MethodDelete, "/cart/"+url.PathEscape(itemID), nil, nil, &cart)
	return cart, err
}
