package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// ErrNotFound is returned for sessions that are absent, expired or destroyed.
// Callers cannot tell the three apart.
var ErrNotFound = errors.New("session not found")

// CookieName is the HTTP-only cookie carrying the opaque session ID.
const CookieName = "session_id"

// touchInterval bounds how often a rolling refresh may extend the TTL, so
// heavy polling cannot keep a session alive with sub-hour granularity.
const touchInterval = time.Hour

// Payload is the server-side session record. Role is cached for display only;
// privileged checks re-read the persisted user.
type Payload struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	LastTouch time.Time `json:"last_touch"`
}

// Store persists session records keyed by opaque ID with TTL eviction.
type Store interface {
	Get(ctx context.Context, id string) (*Payload, error)
	Set(ctx context.Context, id string, payload *Payload, ttl time.Duration) error
	Destroy(ctx context.Context, id string) error
}

// Manager drives the session lifecycle over a Store.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// Create establishes a new session and returns its opaque ID.
func (m *Manager) Create(ctx context.Context, userID, name, email, role string) (string, error) {
	id, err := newID()
	if err != nil {
		return "", err
	}

	now := time.Now()
	payload := &Payload{
		UserID:    userID,
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		LastTouch: now,
	}
	if err := m.store.Set(ctx, id, payload, m.ttl); err != nil {
		return "", err
	}
	return id, nil
}

// Get resolves an active session. At most once per hour the TTL is extended
// back to the full window (rolling refresh).
func (m *Manager) Get(ctx context.Context, id string) (*Payload, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	payload, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if time.Since(payload.LastTouch) >= touchInterval {
		payload.LastTouch = time.Now()
		// Failing to refresh is not fatal; the session stays valid until
		// its current TTL elapses.
		_ = m.store.Set(ctx, id, payload, m.ttl)
	}

	return payload, nil
}

// Destroy removes the session record. Destroying an absent session is not an
// error.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	err := m.store.Destroy(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
