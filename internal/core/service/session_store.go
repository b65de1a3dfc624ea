package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/notify"
	"github.com/smartfarming/farm-client/internal/core/ports"
	"github.com/smartfarming/farm-client/internal/infrastructure/metrics"
)

// SessionStore is the single source of truth for who is logged in. It owns
// the in-memory session, the persisted snapshot and the credential on the
// API client; views read it and never write any of the three.
type SessionStore struct {
	snapshots ports.SnapshotStore
	binder    ports.CredentialBinder
	bus       *notify.Bus
	log       zerolog.Logger
	now       func() time.Time

	// pubMu is held from a mutation through its publish so subscribers see
	// transitions in the order the store applied them. Handlers must not
	// call Initialize, Login or Logout.
	pubMu sync.Mutex

	mu      sync.RWMutex
	session *domain.Session
	ready   bool
}

// NewSessionStore returns a store that is not ready until Initialize runs.
func NewSessionStore(snapshots ports.SnapshotStore, binder ports.CredentialBinder, bus *notify.Bus, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		snapshots: snapshots,
		binder:    binder,
		bus:       bus,
		log:       log.With().Str("component", "session").Logger(),
		now:       time.Now,
	}
}

// Initialize restores the session from the persisted snapshot. It never
// fails: an absent, unreadable, malformed or expired snapshot leaves the
// store logged out. The store is ready afterwards in every case.
func (s *SessionStore) Initialize(ctx context.Context) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	event := s.restoreLocked(ctx)
	s.ready = true
	state := s.stateLocked()
	s.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues(event).Inc()
	s.publish(state)
}

func (s *SessionStore) restoreLocked(ctx context.Context) string {
	s.session = nil
	s.binder.SetCredential("")

	// 1. Read the snapshot; absent or unreachable storage means logged out.
	data, err := s.snapshots.Load(ctx, domain.SnapshotKey)
	if errors.Is(err, domain.ErrMalformedSnapshot) {
		s.log.Warn().Err(err).Msg("discarding unreadable sealed snapshot")
		s.clearSnapshot(ctx)
		return "restore_malformed"
	}
	if err != nil {
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			s.log.Warn().Err(err).Msg("session snapshot unreadable, starting logged out")
		}
		return "restore_empty"
	}

	// 2. Decode; a corrupt snapshot is dropped so the next start is clean.
	sess, err := domain.DecodeSnapshot(data)
	if err != nil {
		s.log.Warn().Err(err).Msg("discarding malformed session snapshot")
		s.clearSnapshot(ctx)
		return "restore_malformed"
	}

	// 3. A JWT that has already expired cannot authenticate anything.
	if TokenExpired(sess.Token, s.now()) {
		s.log.Info().Str("user", sess.Identity.Name).Msg("persisted session expired")
		s.clearSnapshot(ctx)
		return "restore_expired"
	}

	s.binder.SetCredential(sess.Token)
	s.session = &sess
	s.log.Info().Str("user", sess.Identity.Name).Str("role", string(sess.Identity.Role)).Msg("session restored")
	return "restored"
}

// Login establishes sess. The snapshot is written first; if that fails
// nothing changes. Once Login returns, every request carries the new token.
func (s *SessionStore) Login(ctx context.Context, sess domain.Session) error {
	if sess.Token == "" {
		return fmt.Errorf("login: empty credential: %w", domain.ErrInvalidInput)
	}
	if sess.Identity.Role == "" {
		sess.Identity.Role = domain.RoleUser
	}
	data, err := domain.EncodeSnapshot(sess)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	if err := s.snapshots.Save(ctx, domain.SnapshotKey, data); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("login: persist session: %w", err)
	}
	s.binder.SetCredential(sess.Token)
	s.session = &sess
	s.ready = true
	state := s.stateLocked()
	s.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues("login").Inc()
	s.log.Info().Str("user", sess.Identity.Name).Str("role", string(sess.Identity.Role)).Msg("logged in")
	s.publish(state)
	return nil
}

// Logout ends the session. The credential is cleared before anything else so
// no request can leave with it afterwards. Calling Logout when logged out is
// a no-op apart from re-clearing the snapshot.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	s.binder.SetCredential("")
	wasLoggedIn := s.session != nil
	s.session = nil
	s.ready = true
	err := s.snapshots.Clear(ctx, domain.SnapshotKey)
	state := s.stateLocked()
	s.mu.Unlock()

	if err != nil {
		s.log.Error().Err(err).Msg("failed to clear session snapshot")
		err = fmt.Errorf("logout: clear snapshot: %w", err)
	}
	if wasLoggedIn {
		metrics.SessionTransitionsTotal.WithLabelValues("logout").Inc()
		s.log.Info().Msg("logged out")
		s.publish(state)
	}
	return err
}

// State returns the current session state.
func (s *SessionStore) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

// Current returns the session when logged in.
func (s *SessionStore) Current() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return domain.Session{}, false
	}
	return *s.session, true
}

// Ready reports whether Initialize (or a later Login/Logout) has run.
func (s *SessionStore) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Subscribe registers fn for session transitions.
func (s *SessionStore) Subscribe(fn func(domain.SessionState)) *notify.Subscription {
	return s.bus.Session.Subscribe(fn)
}

func (s *SessionStore) stateLocked() domain.SessionState {
	st := domain.SessionState{Ready: s.ready}
	if s.session != nil {
		cp := *s.session
		st.Session = &cp
	}
	return st
}

func (s *SessionStore) clearSnapshot(ctx context.Context) {
	if err := s.snapshots.Clear(ctx, domain.SnapshotKey); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear session snapshot")
	}
}

func (s *SessionStore) publish(state domain.SessionState) {
	if s.bus == nil {
		return
	}
	s.bus.Session.Publish(state)
}
