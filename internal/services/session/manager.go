package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mcoot/taflgame/internal/dependencies/clock"
	"github.com/mcoot/taflgame/internal/dependencies/random"
	"github.com/mcoot/taflgame/internal/model"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// TokenBytes is the entropy of an issued token before encoding
const TokenBytes = 32

// Session is the single active authorization for the hosted game
type Session struct {
	Token     string
	GameID    model.GameID
	CreatedAt time.Time
	ExpiresAt time.Time // zero when sessions never expire
}

// Expired reports whether the session is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Verifier checks the shared secret
type Verifier interface {
	Verify(secret string) bool
}

// Config holds configuration for the session manager
type Config struct {
	// TTL bounds a session's lifetime. Zero disables expiry.
	TTL time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		TTL: 24 * time.Hour,
	}
}

// Manager issues and checks the bearer token. At most one token is valid at
// any time; issuing a new one revokes the previous.
type Manager struct {
	verifier Verifier
	clock    clock.Clock
	random   random.Random
	ttl      time.Duration

	mu      sync.RWMutex
	current *Session
}

// New creates a new session Manager
func New(verifier Verifier, clock clock.Clock, random random.Random, cfg Config) *Manager {
	return &Manager{
		verifier: verifier,
		clock:    clock,
		random:   random,
		ttl:      cfg.TTL,
	}
}

// Create verifies the secret and replaces any existing session with a new
// one bound to gameID. On failure the existing session is left in place.
func (m *Manager) Create(ctx context.Context, secret string, gameID model.GameID) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !m.verifier.Verify(secret) {
		return nil, ErrInvalidCredentials
	}

	token, err := m.random.Token(TokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	now := m.clock.Now()
	s := &Session{
		Token:     token,
		GameID:    gameID,
		CreatedAt: now,
	}
	if m.ttl > 0 {
		s.ExpiresAt = now.Add(m.ttl)
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	copied := *s
	return &copied, nil
}

// Authenticate returns the active session if token matches it and it has
// not expired
func (m *Manager) Authenticate(token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	m.mu.RLock()
	current := m.current
	m.mu.RUnlock()

	if current == nil {
		return nil, ErrInvalidSession
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(current.Token)) != 1 {
		return nil, ErrInvalidSession
	}
	if current.Expired(m.clock.Now()) {
		m.mu.Lock()
		if m.current == current {
			m.current = nil
		}
		m.mu.Unlock()
		return nil, ErrInvalidSession
	}

	copied := *current
	return &copied, nil
}

// Revoke ends the active session if token is its token. A superseded or
// unknown token returns ErrInvalidSession and leaves the session in place.
func (m *Manager) Revoke(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || token == "" {
		return ErrInvalidSession
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(m.current.Token)) != 1 {
		return ErrInvalidSession
	}
	m.current = nil
	return nil
}

// Active reports whether a session is currently held
func (m *Manager) Active() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil && !m.current.Expired(m.clock.Now())
}
