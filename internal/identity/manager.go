// Package identity wraps the credential provider and maps authenticated
// subjects to application profiles stored in the users record set.
package identity

import (
	"context"
	"errors"
	"sync"

	"assettrack-api/internal/models"
	"assettrack-api/internal/store"
)

// Session is an authenticated principal. Profile is nil when the account
// verified but no profile document exists yet; callers must treat that as
// "authenticated but unprovisioned", not as an error.
type Session struct {
	UID     string
	Email   string
	Profile *models.UserProfile
}

// EventType marks a session state change.
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// Event is broadcast to subscribers whenever a session starts or ends.
type Event struct {
	Type    EventType
	UID     string
	Profile *models.UserProfile
}

// Manager owns sign-in, registration and session broadcasting. It is an
// explicitly constructed dependency handed to whoever needs it; there is no
// package-level current session.
type Manager struct {
	provider Provider
	users    store.UserStore

	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewManager creates an identity manager over a credential provider and the
// users record set.
func NewManager(provider Provider, users store.UserStore) *Manager {
	return &Manager{
		provider: provider,
		users:    users,
		subs:     map[int]chan Event{},
	}
}

// SignIn verifies credentials and loads the matching profile. A missing
// profile is not an error; the returned session just has a nil Profile.
func (m *Manager) SignIn(ctx context.Context, email, password string) (Session, error) {
	uid, err := m.provider.Verify(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	sess := Session{UID: uid, Email: email}
	profile, err := m.users.Get(ctx, uid)
	switch {
	case err == nil:
		sess.Profile = &profile
	case errors.Is(err, store.ErrNotFound):
		// Authenticated but unprovisioned.
	default:
		return Session{}, err
	}

	m.publish(Event{Type: EventSignedIn, UID: uid, Profile: sess.Profile})
	return sess, nil
}

// Register creates the credential account first, then writes the profile
// document keyed by the new uid. When the profile write fails the account is
// NOT rolled back: the system is left with an orphaned account and the error
// is surfaced. A later SignIn yields an unprovisioned session.
func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) (Session, error) {
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.IsValidRole(role) {
		return Session{}, ErrInvalidCredential
	}

	uid, err := m.provider.CreateAccount(ctx, req.Email, req.Password)
	if err != nil {
		return Session{}, err
	}

	profile := models.UserProfile{
		UID:        uid,
		Name:       req.Name,
		Email:      req.Email,
		Role:       role,
		Department: req.Department,
	}
	if _, err := m.users.Put(ctx, profile); err != nil {
		return Session{}, err
	}

	sess := Session{UID: uid, Email: req.Email, Profile: &profile}
	m.publish(Event{Type: EventSignedIn, UID: uid, Profile: &profile})
	return sess, nil
}

// SignOut ends the session for a uid and notifies subscribers.
func (m *Manager) SignOut(_ context.Context, uid string) {
	m.publish(Event{Type: EventSignedOut, UID: uid})
}

// Subscribe registers an observer for session events. The returned cancel
// function must be called to release the subscription; events arriving after
// cancel are discarded.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next
	m.next++
	ch := make(chan Event, 16)
	m.subs[id] = ch
	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub)
		}
	}
}

func (m *Manager) publish(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
			// Slow subscriber; drop rather than block sign-in.
		}
	}
}
