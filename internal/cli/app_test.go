package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/sihui/internal/mock"
	"github.com/studiowebux/sihui/internal/session"
)

type testApp struct {
	*App
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestApp(t *testing.T, cfg *mock.Config, mutate func(*Options)) testApp {
	t.Helper()
	if cfg == nil {
		cfg = mock.DefaultConfig()
	}
	srv := httptest.NewServer(mock.NewServer(cfg, nil).Handler())
	t.Cleanup(srv.Close)

	var out, errOut bytes.Buffer
	opts := Options{
		APIURL:    srv.URL,
		ConfigDir: t.TempDir(),
		Store:     session.NewMemoryStore(),
		Out:       &out,
		Err:       &errOut,
	}
	if mutate != nil {
		mutate(&opts)
	}

	app, err := NewApp(opts)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return testApp{App: app, out: &out, errOut: &errOut}
}

func withRoutes(routes ...mock.Route) *mock.Config {
	cfg := mock.DefaultConfig()
	cfg.Routes = append(cfg.Routes, routes...)
	return cfg
}

func TestLoginStatusLogout(t *testing.T) {
	app := newTestApp(t, nil, nil)
	ctx := context.Background()

	require.NoError(t, app.Login(ctx, "admin", "secret"))
	assert.Contains(t, app.out.String(), "Logged in as admin")
	assert.Equal(t, mock.DefaultToken, session.Token(app.Store))

	app.out.Reset()
	require.NoError(t, app.Status())
	assert.Contains(t, app.out.String(), "authenticated")
	assert.Contains(t, app.out.String(), "admin")

	app.out.Reset()
	require.NoError(t, app.Logout(ctx))
	assert.Contains(t, app.out.String(), "Logged out")
	assert.Empty(t, session.Token(app.Store))
	assert.False(t, app.Auth.State().Authenticated)
}

func TestStatusJSON(t *testing.T) {
	app := newTestApp(t, nil, func(o *Options) { o.Output = FormatJSON })

	require.NoError(t, app.Status())

	var status Status
	require.NoError(t, json.Unmarshal(app.out.Bytes(), &status))
	assert.False(t, status.Authenticated)
	assert.Nil(t, status.User)
}

func TestFailureIsReportedOnce(t *testing.T) {
	app := newTestApp(t, nil, nil)

	err := app.Request(context.Background(), RawRequest{Method: "get", Endpoint: "/api/nothing"})
	require.Error(t, err)
	assert.True(t, IsReported(err))

	var failed *FailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "NOT_FOUND", failed.Err.Code)
	assert.Equal(t, 404, failed.Err.Status)
	assert.Contains(t, app.errOut.String(), "No route configured for GET /api/nothing")
	assert.Empty(t, app.out.String())
	assert.False(t, app.Loading.IsLoading("request"))
}

func TestLoginFailureMessage(t *testing.T) {
	cfg := &mock.Config{Routes: []mock.Route{{
		Method:  "POST",
		Path:    "/api/auth/login",
		Status:  401,
		Message: "Invalid credentials",
		Code:    "INVALID_CREDENTIALS",
	}}}
	app := newTestApp(t, cfg, nil)

	err := app.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.Equal(t, "Invalid credentials", app.Auth.State().Error)
	assert.Contains(t, app.errOut.String(), "Invalid credentials")
}

func TestRequestWithQuery(t *testing.T) {
	app := newTestApp(t, nil, func(o *Options) {
		o.Output = FormatJSON
		o.Query = "data.content[].username"
	})

	require.NoError(t, app.Request(context.Background(), RawRequest{
		Method:   "GET",
		Endpoint: "/api/users",
		Query:    []string{"page=0", "size=10"},
	}))

	var names []string
	require.NoError(t, json.Unmarshal(app.out.Bytes(), &names))
	assert.Equal(t, []string{"admin", "trainer", "trainee"}, names)
}

func TestRequestValidation(t *testing.T) {
	app := newTestApp(t, nil, nil)
	ctx := context.Background()

	assert.ErrorContains(t, app.Request(ctx, RawRequest{Method: "TRACE", Endpoint: "/api/x"}), "unsupported method")
	assert.ErrorContains(t, app.Request(ctx, RawRequest{Method: "POST", Endpoint: "/api/x", Body: "{"}), "not valid JSON")
	assert.ErrorContains(t, app.Request(ctx, RawRequest{Method: "GET", Endpoint: "/api/x", Query: []string{"novalue"}}), "invalid query parameter")
}

func TestParseQuery(t *testing.T) {
	params, err := ParseQuery([]string{"keyword=li", "sort=id,desc", "sort=name,asc", "empty="})
	require.NoError(t, err)
	assert.Equal(t, "li", params["keyword"])
	assert.Equal(t, []string{"id,desc", "name,asc"}, params["sort"])
	assert.Equal(t, "", params["empty"])
	assert.Equal(t, "empty=&keyword=li&sort=id%2Cdesc&sort=name%2Casc", params.Encode())
}

func TestFetchOverview(t *testing.T) {
	cfg := withRoutes(
		mock.Route{Method: "GET", Path: "/api/monitoring/metrics", Data: map[string]any{"timestamp": "2026-01-01T00:00:00", "cpu": map[string]any{"usage": 12.5, "cores": 8}}},
		mock.Route{Method: "GET", Path: "/api/performance/overview", Data: map[string]any{"systemStatus": "HEALTHY", "errorRate": 0.01}},
	)
	app := newTestApp(t, cfg, nil)

	overview, err := app.FetchOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "UP", overview.Health.Status)
	assert.Equal(t, 8, overview.Metrics.CPU.Cores)
	assert.Equal(t, "HEALTHY", overview.Performance.SystemStatus)
}

func TestFetchOverviewFailsWhenOnePartFails(t *testing.T) {
	cfg := withRoutes(
		mock.Route{Method: "GET", Path: "/api/monitoring/metrics", Data: map[string]any{}},
		mock.Route{Method: "GET", Path: "/api/performance/overview", Status: 503, Message: "maintenance"},
	)
	app := newTestApp(t, cfg, nil)

	_, err := app.FetchOverview(context.Background())
	require.Error(t, err)
	var failed *FailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 503, failed.Err.Status)
}

func TestWatchPollsCount(t *testing.T) {
	app := newTestApp(t, nil, nil)

	err := app.Watch(context.Background(), WatchOptions{Interval: time.Millisecond, Count: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(app.out.String(), "UP"))
}

func TestWatchStopsOnCancel(t *testing.T) {
	app := newTestApp(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, app.Watch(ctx, WatchOptions{Interval: time.Hour}))
	assert.Equal(t, 1, strings.Count(app.out.String(), "\n"))
}

func TestHistoryAndStats(t *testing.T) {
	app := newTestApp(t, nil, nil)
	ctx := context.Background()

	require.NoError(t, app.Request(ctx, RawRequest{Method: "GET", Endpoint: "/api/users/1"}))
	require.NoError(t, app.Request(ctx, RawRequest{Method: "GET", Endpoint: "/api/users/2"}))
	require.Error(t, app.Request(ctx, RawRequest{Method: "GET", Endpoint: "/api/missing"}))

	app.out.Reset()
	require.NoError(t, app.ShowHistory(10, false))
	lines := strings.Split(strings.TrimSpace(app.out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, app.out.String(), "/api/missing")

	app.out.Reset()
	require.NoError(t, app.ShowStats(false))
	assert.Contains(t, app.out.String(), "/api/users/{id}")
	assert.Contains(t, app.out.String(), "calls 2")

	app.out.Reset()
	require.NoError(t, app.ShowHistory(0, true))
	count, err := app.History.GetCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRequestLogDisabled(t *testing.T) {
	app := newTestApp(t, nil, func(o *Options) {
		o.ConfigPath = writeSettings(t, "history_enabled: false\n")
	})

	assert.Nil(t, app.History)
	assert.ErrorIs(t, app.ShowHistory(10, false), ErrRequestLogDisabled)
	assert.ErrorIs(t, app.ShowStats(true), ErrRequestLogDisabled)
}

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
