package apiclient

import (
	"context"
	"net/http"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/ports"
)

var (
	_ ports.AuthAPI          = (*Client)(nil)
	_ ports.ProfileAPI       = (*Client)(nil)
	_ ports.CredentialBinder = (*Client)(nil)
)

// authResponse accepts both {user:{...}, token} and the flat
// {...identity, token} shapes.
type authResponse struct {
	domain.Identity
	User  *domain.Identity `json:"user"`
	Token string           `json:"token"`
}

func (r authResponse) session() domain.Session {
	id := r.Identity
	if r.User != nil {
		id = *r.User
	}
	if id.Role == "" {
		id.Role = domain.RoleUser
	}
	return domain.Session{Identity: id, Token: r.Token}
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, creds, &resp); err != nil {
		return domain.Session{}, err
	}
	return c.checkedSession(resp)
}

// Register creates an account and returns its session.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (domain.Session, error) {
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, reg, &resp); err != nil {
		return domain.Session{}, err
	}
	return c.checkedSession(resp)
}

func (c *Client) checkedSession(resp authResponse) (domain.Session, error) {
	if resp.Token == "" {
		return domain.Session{}, &domain.APIError{Status: http.StatusBadGateway, Message: "Login response did not include a token"}
	}
	return resp.session(), nil
}

// Profile returns the identity bound to the current credential.
func (c *Client) Profile(ctx context.Context) (domain.Identity, error) {
	var resp struct {
		User *domain.Identity `json:"user"`
		domain.Identity
	}
	if err := c.doJSON(ctx, http.MethodGet, "/user/profile", nil, nil, &resp); err != nil {
		return domain.Identity{}, err
	}
	if resp.User != nil {
		return *resp.User, nil
	}
	return resp.Identity, nil
}
