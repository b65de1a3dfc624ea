package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SnapshotKey is the fixed storage key of the persisted session.
const SnapshotKey = "user"

// Session is the authenticated identity plus the bearer credential issued for it.
type Session struct {
	Identity Identity
	Token    string
}

// SessionState is what dependents of the session store observe. Ready is false
// only until the persisted snapshot has been read once.
type SessionState struct {
	Session *Session
	Ready   bool
}

// LoggedIn reports whether a session is present.
func (s SessionState) LoggedIn() bool {
	return s.Session != nil
}

// snapshot is the flat on-disk shape: identity fields plus token.
type snapshot struct {
	Identity
	Token string `json:"token"`
}

// EncodeSnapshot serialises a session into its persisted form.
func EncodeSnapshot(s Session) ([]byte, error) {
	if s.Token == "" {
		return nil, fmt.Errorf("encode snapshot: %w", ErrMalformedSnapshot)
	}
	return json.Marshal(snapshot{Identity: s.Identity, Token: s.Token})
}

// DecodeSnapshot parses a persisted session. Anything that is not a JSON
// object with a non-empty token and a known role is ErrMalformedSnapshot.
func DecodeSnapshot(data []byte) (Session, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return Session{}, ErrMalformedSnapshot
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if snap.Token == "" {
		return Session{}, fmt.Errorf("%w: missing token", ErrMalformedSnapshot)
	}
	if snap.Role == "" {
		snap.Role = RoleUser
	}
	if !snap.Role.Valid() {
		return Session{}, fmt.Errorf("%w: unknown role %q", ErrMalformedSnapshot, snap.Role)
	}
	return Session{Identity: snap.Identity, Token: snap.Token}, nil
}
