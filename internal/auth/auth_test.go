package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/services"
	"github.com/studiowebux/sihui/internal/session"
	"github.com/studiowebux/sihui/internal/types"
)

// fakeAuth scripts the service responses
type fakeAuth struct {
	loginResp   *types.AuthResponse
	loginErr    error
	logoutErr   error
	refreshErr  error
	refreshes   int
	logoutCalls int
}

func (f *fakeAuth) Login(context.Context, string, string) (*types.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAuth) Refresh(context.Context) (*types.AuthResponse, error) {
	f.refreshes++
	return &types.AuthResponse{Token: "fresh"}, f.refreshErr
}

func newServiceManager(t *testing.T, handler http.HandlerFunc) (*Manager, session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	c, err := client.New(client.Config{BaseURL: srv.URL, Store: store})
	require.NoError(t, err)
	return NewManager(services.New(c, store).Auth, store), store
}

func TestInitialStateIsLoading(t *testing.T) {
	m := NewManager(&fakeAuth{}, session.NewMemoryStore())
	assert.Equal(t, State{Loading: true}, m.State())
}

func TestCheckAuth(t *testing.T) {
	tests := []struct {
		name  string
		setup func(store session.Store)
		want  bool
	}{
		{
			name:  "empty store",
			setup: func(session.Store) {},
			want:  false,
		},
		{
			name: "token without user",
			setup: func(store session.Store) {
				_ = session.SaveTokens(store, "t1", "")
			},
			want: false,
		},
		{
			name: "token and user",
			setup: func(store session.Store) {
				_ = session.SaveAuth(store, &types.AuthResponse{Token: "t1", User: &types.User{ID: 1, Username: "alice"}})
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewMemoryStore()
			tt.setup(store)
			m := NewManager(&fakeAuth{}, store)

			state := m.CheckAuth()
			assert.False(t, state.Loading)
			assert.Equal(t, tt.want, state.Authenticated)
			assert.Equal(t, tt.want, state.User != nil)
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	m, store := newServiceManager(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"t1","refreshToken":"r1","user":{"id":1,"username":"alice"},"expiresIn":3600},"message":"ok","code":"OK"}`))
	})

	var transitions []State
	m.Subscribe(func(s State) { transitions = append(transitions, s) })

	res := m.Login(context.Background(), "alice", "pw")
	assert.Equal(t, LoginResult{Success: true}, res)
	assert.Equal(t, "t1", session.Token(store))

	state := m.State()
	assert.True(t, state.Authenticated)
	assert.False(t, state.Loading)
	require.NotNil(t, state.User)
	assert.Equal(t, "alice", state.User.Username)

	require.Len(t, transitions, 2)
	assert.True(t, transitions[0].Loading)
	assert.False(t, transitions[1].Loading)
}

func TestLoginFailureSurfacesMessage(t *testing.T) {
	m, store := newServiceManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	})

	res := m.Login(context.Background(), "alice", "wrong")
	assert.Equal(t, LoginResult{Success: false, Error: "Invalid credentials"}, res)

	state := m.State()
	assert.Equal(t, "Invalid credentials", state.Error)
	assert.False(t, state.Authenticated)
	assert.False(t, state.Loading)
	assert.Empty(t, session.Token(store))

	m.ClearError()
	assert.Empty(t, m.State().Error)
	assert.False(t, m.State().Authenticated)
}

func TestLoginFallbackMessages(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeAuth
		want string
	}{
		{
			name: "no token in response",
			fake: &fakeAuth{loginResp: &types.AuthResponse{}},
			want: MsgInvalidCredentials,
		},
		{
			name: "error without message",
			fake: &fakeAuth{loginErr: errors.New("")},
			want: MsgLoginRetryLater,
		},
		{
			name: "transport error",
			fake: &fakeAuth{loginErr: errors.New("dial tcp: connection refused")},
			want: "dial tcp: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(tt.fake, session.NewMemoryStore())
			res := m.Login(context.Background(), "alice", "pw")
			assert.False(t, res.Success)
			assert.Equal(t, tt.want, res.Error)
			assert.Equal(t, tt.want, m.State().Error)
		})
	}
}

func TestLogoutAlwaysClears(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, session.SaveAuth(store, &types.AuthResponse{Token: "t1", User: &types.User{ID: 1}}))

	fake := &fakeAuth{logoutErr: errors.New("server unavailable")}
	m := NewManager(fake, store)
	m.CheckAuth()
	require.True(t, m.State().Authenticated)

	err := m.Logout(context.Background())
	assert.EqualError(t, err, "server unavailable")
	assert.Equal(t, 1, fake.logoutCalls)

	state := m.State()
	assert.False(t, state.Authenticated)
	assert.False(t, state.Loading)
	assert.Nil(t, state.User)
	assert.Empty(t, session.Token(store))
	assert.ErrorIs(t, RequireAuth(store), ErrNotAuthenticated)
	assert.ErrorIs(t, LegacyGuard(store), ErrNotAuthenticated)
}

func TestHandleUnauthorizedKeepsError(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, session.SaveAuth(store, &types.AuthResponse{Token: "t1", User: &types.User{ID: 1}}))
	m := NewManager(&fakeAuth{loginErr: errors.New("boom")}, store)
	m.Login(context.Background(), "a", "b")

	m.HandleUnauthorized()
	assert.False(t, m.State().Authenticated)
	assert.Equal(t, "boom", m.State().Error)
	assert.Empty(t, session.Token(store))
}

func TestRefreshUser(t *testing.T) {
	store := session.NewMemoryStore()
	m := NewManager(&fakeAuth{}, store)

	_, err := m.RefreshUser()
	assert.ErrorIs(t, err, session.ErrNoUser)

	require.NoError(t, session.SaveUser(store, &types.User{ID: 2, Username: "bob"}))
	user, err := m.RefreshUser()
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, "bob", m.State().User.Username)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestEnsureFresh(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		token         string
		wantRefreshed bool
		wantErr       error
	}{
		{name: "no token", token: "", wantErr: ErrNotAuthenticated},
		{name: "opaque token", token: "opaque-token"},
		{name: "far from expiry", token: signedToken(t, now.Add(time.Hour))},
		{name: "within skew", token: signedToken(t, now.Add(30*time.Second)), wantRefreshed: true},
		{name: "already expired", token: signedToken(t, now.Add(-time.Hour)), wantRefreshed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewMemoryStore()
			if tt.token != "" {
				require.NoError(t, session.SaveTokens(store, tt.token, "r1"))
			}
			fake := &fakeAuth{}
			m := NewManager(fake, store)
			m.now = func() time.Time { return now }

			refreshed, err := m.EnsureFresh(context.Background(), time.Minute)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRefreshed, refreshed)
			assert.Equal(t, boolToInt(tt.wantRefreshed), fake.refreshes)
		})
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestGuards(t *testing.T) {
	store := session.NewMemoryStore()
	assert.ErrorIs(t, RequireAuth(store), ErrNotAuthenticated)
	assert.ErrorIs(t, LegacyGuard(store), ErrNotAuthenticated)

	require.NoError(t, session.SaveAuth(store, &types.AuthResponse{Token: "t1", User: &types.User{ID: 1}}))
	assert.NoError(t, RequireAuth(store))
	assert.NoError(t, LegacyGuard(store))
}
