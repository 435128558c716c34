// Package credentials persists the session token and profile in the
// system keyring.
//
// Every operation fails soft: an unavailable or erroring keyring backend
// degrades to a nil return or a no-op instead of propagating a failure.
// Losing the persisted session only costs the user a re-login.
package credentials

import (
	"encoding/json"

	"github.com/99designs/keyring"
	"github.com/deptdesk/deptdesk/internal/logging"
	"github.com/deptdesk/deptdesk/internal/roles"
)

const serviceName = "deptdesk"

// Persisted key layout. These names are shared with the web client, which
// stores the same pair in browser local storage.
const (
	tokenKey = "auth_token"
	userKey  = "auth_user"
)

// Profile is the persisted user record.
type Profile struct {
	Email       string     `json:"email"`
	Role        roles.Role `json:"role"`
	AccessLevel int        `json:"accessLevel"`
	TokenType   string     `json:"tokenType"`
}

// Ring is the subset of keyring operations the store uses.
type Ring interface {
	Get(key string) (keyring.Item, error)
	Set(item keyring.Item) error
	Remove(key string) error
}

// Store is a fail-soft key-value wrapper around the system keyring.
type Store struct {
	ring Ring
}

// Open returns a Store backed by the system keyring. If no backend is
// available the returned store is still usable; every read yields absence
// and every write is a no-op.
func Open() *Store {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/deptdesk/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("deptdesk-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		logging.Debug("keyring unavailable, session will not persist", "error", err)
		return &Store{}
	}
	return &Store{ring: ring}
}

// NewStore wraps an existing ring. Used by tests to inject fakes.
func NewStore(ring Ring) *Store {
	return &Store{ring: ring}
}

// Token returns the persisted bearer token, or "" if absent or the
// backend is unavailable.
func (s *Store) Token() string {
	if s.ring == nil {
		return ""
	}
	item, err := s.ring.Get(tokenKey)
	if err != nil {
		return ""
	}
	return string(item.Data)
}

// SetToken persists the bearer token. An empty token removes the key.
func (s *Store) SetToken(token string) {
	if s.ring == nil {
		return
	}
	if token == "" {
		_ = s.ring.Remove(tokenKey)
		return
	}
	if err := s.ring.Set(keyring.Item{Key: tokenKey, Data: []byte(token)}); err != nil {
		logging.Debug("failed to persist token", "error", err)
	}
}

// User returns the persisted profile, or nil if absent, unparseable, or
// the backend is unavailable.
func (s *Store) User() *Profile {
	if s.ring == nil {
		return nil
	}
	item, err := s.ring.Get(userKey)
	if err != nil || len(item.Data) == 0 {
		return nil
	}
	var p Profile
	if err := json.Unmarshal(item.Data, &p); err != nil {
		logging.Debug("discarding corrupt persisted profile", "error", err)
		return nil
	}
	return &p
}

// SetUser persists the profile as JSON. A nil profile removes the key.
func (s *Store) SetUser(p *Profile) {
	if s.ring == nil {
		return
	}
	if p == nil {
		_ = s.ring.Remove(userKey)
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		logging.Debug("failed to serialize profile", "error", err)
		return
	}
	if err := s.ring.Set(keyring.Item{Key: userKey, Data: data}); err != nil {
		logging.Debug("failed to persist profile", "error", err)
	}
}

// Clear removes both persisted keys.
func (s *Store) Clear() {
	if s.ring == nil {
		return
	}
	_ = s.ring.Remove(tokenKey)
	_ = s.ring.Remove(userKey)
}
