package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/ports"
)

// AuthService performs login, registration and logout against the backend
// and hands successful results to the session store.
type AuthService struct {
	api   ports.AuthAPI
	store *SessionStore
	log   zerolog.Logger
}

func NewAuthService(api ports.AuthAPI, store *SessionStore, log zerolog.Logger) *AuthService {
	return &AuthService{api: api, store: store, log: log.With().Str("component", "auth").Logger()}
}

// Login authenticates and establishes the session. On any failure the
// session store is left exactly as it was.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	creds := domain.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := ValidateForm(creds); err != nil {
		return domain.Session{}, err
	}

	sess, err := s.api.Login(ctx, creds)
	if err != nil {
		s.log.Info().Str("email", creds.Email).Str("reason", domain.UserMessage(err)).Msg("login rejected")
		return domain.Session{}, err
	}
	if err := s.store.Login(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

// Register creates the account and logs it in.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (domain.Session, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Name = strings.TrimSpace(reg.Name)
	if err := ValidateForm(reg); err != nil {
		return domain.Session{}, err
	}

	sess, err := s.api.Register(ctx, reg)
	if err != nil {
		return domain.Session{}, fmt.Errorf("register: %w", err)
	}
	if err := s.store.Login(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

// Logout ends the session.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.store.Logout(ctx)
}
