package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/studiowebux/sihui/internal/resilience"
	"github.com/studiowebux/sihui/internal/session"
	"github.com/studiowebux/sihui/internal/types"
)

// Fixed login failure messages
const (
	MsgInvalidCredentials = "登录失败，请检查用户名和密码"
	MsgLoginRetryLater    = "登录失败，请稍后重试"
)

// ErrNotAuthenticated is returned by the guards when no usable session exists
var ErrNotAuthenticated = errors.New("not authenticated, run `sihui login`")

// Authenticator is the subset of the auth service the manager drives
type Authenticator interface {
	Login(ctx context.Context, usernameOrEmail, password string) (*types.AuthResponse, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (*types.AuthResponse, error)
}

// State is a snapshot of the session state machine
type State struct {
	Loading       bool        `json:"loading" yaml:"loading"`
	Authenticated bool        `json:"authenticated" yaml:"authenticated"`
	User          *types.User `json:"user,omitempty" yaml:"user,omitempty"`
	Error         string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// LoginResult is what Login reports to its caller; it never carries a Go error
type LoginResult struct {
	Success bool   `json:"success" yaml:"success"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Manager owns the auth state and its transitions
type Manager struct {
	svc   Authenticator
	store session.Store

	mu        sync.RWMutex
	state     State
	observers map[int]func(State)
	nextID    int

	now func() time.Time
}

// NewManager creates a manager in the loading state. Call CheckAuth to resolve it.
func NewManager(svc Authenticator, store session.Store) *Manager {
	return &Manager{
		svc:       svc,
		store:     store,
		state:     State{Loading: true},
		observers: make(map[int]func(State)),
		now:       time.Now,
	}
}

// State returns a snapshot of the current state
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Subscribe registers fn for every transition and returns its cancel func
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.observers[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.observers, id)
			m.mu.Unlock()
		})
	}
}

// update applies fn to the state and notifies observers outside the lock
func (m *Manager) update(fn func(*State)) State {
	m.mu.Lock()
	fn(&m.state)
	snapshot := m.state
	observers := make([]func(State), 0, len(m.observers))
	for i := 0; i < m.nextID; i++ {
		if obs, ok := m.observers[i]; ok {
			observers = append(observers, obs)
		}
	}
	m.mu.Unlock()

	for _, obs := range observers {
		obs(snapshot)
	}
	return snapshot
}

// CheckAuth resolves the state from the stored token and profile
func (m *Manager) CheckAuth() State {
	token := session.Token(m.store)
	user, err := session.LoadUser(m.store)
	authenticated := token != "" && err == nil

	return m.update(func(s *State) {
		s.Loading = false
		s.Authenticated = authenticated
		s.Error = ""
		if authenticated {
			s.User = user
		} else {
			s.User = nil
		}
	})
}

// Login authenticates and reports the outcome; failures land in State.Error
func (m *Manager) Login(ctx context.Context, usernameOrEmail, password string) LoginResult {
	m.update(func(s *State) {
		s.Loading = true
		s.Error = ""
	})

	resp, err := m.svc.Login(ctx, usernameOrEmail, password)
	if err == nil && (resp == nil || resp.Token == "") {
		return m.fail(MsgInvalidCredentials)
	}
	if err != nil {
		return m.fail(loginMessage(err))
	}

	m.update(func(s *State) {
		s.Loading = false
		s.Authenticated = true
		s.User = resp.User
		s.Error = ""
	})
	return LoginResult{Success: true}
}

func (m *Manager) fail(message string) LoginResult {
	m.update(func(s *State) {
		s.Loading = false
		s.Authenticated = false
		s.User = nil
		s.Error = message
	})
	return LoginResult{Success: false, Error: message}
}

func loginMessage(err error) string {
	classified := resilience.Classify(err)
	if classified.Code == resilience.CodeUnknown || classified.Message == "" {
		return MsgLoginRetryLater
	}
	return classified.Message
}

// Logout ends the session. Local credentials are always cleared and the state always
// ends unauthenticated; the returned error only reports the server side.
func (m *Manager) Logout(ctx context.Context) (err error) {
	m.update(func(s *State) { s.Loading = true })

	defer func() {
		if clearErr := session.ClearAuth(m.store); clearErr != nil && err == nil {
			err = clearErr
		}
		m.update(func(s *State) {
			s.Loading = false
			s.Authenticated = false
			s.User = nil
			s.Error = ""
		})
	}()

	return m.svc.Logout(ctx)
}

// ClearError resets the error without changing the auth state
func (m *Manager) ClearError() {
	m.update(func(s *State) { s.Error = "" })
}

// RefreshUser reloads the cached profile into the state
func (m *Manager) RefreshUser() (*types.User, error) {
	user, err := session.LoadUser(m.store)
	if err != nil {
		return nil, err
	}
	m.update(func(s *State) { s.User = user })
	return user, nil
}

// HandleUnauthorized drops the session after a 401. The error field is left untouched.
func (m *Manager) HandleUnauthorized() {
	_ = session.ClearAuth(m.store)
	m.update(func(s *State) {
		s.Loading = false
		s.Authenticated = false
		s.User = nil
	})
}

// EnsureFresh refreshes the token pair when the stored JWT expires within skew.
// Opaque tokens and tokens without exp are left alone.
func (m *Manager) EnsureFresh(ctx context.Context, skew time.Duration) (refreshed bool, err error) {
	token := session.Token(m.store)
	if token == "" {
		return false, ErrNotAuthenticated
	}

	expiry, ok := session.TokenExpiry(token)
	if !ok || m.now().Add(skew).Before(expiry) {
		return false, nil
	}

	if _, err := m.svc.Refresh(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// RequireAuth passes when both a token and a cached profile are stored
func RequireAuth(store session.Store) error {
	if session.Token(store) == "" {
		return ErrNotAuthenticated
	}
	if _, err := session.LoadUser(store); err != nil {
		return ErrNotAuthenticated
	}
	return nil
}

// LegacyGuard passes when the isLoggedIn flag written by older clients is set
func LegacyGuard(store session.Store) error {
	if flag, _ := store.Get(session.KeyLoggedIn); flag != "true" {
		return ErrNotAuthenticated
	}
	return nil
}
