package mock

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/services"
	"github.com/studiowebux/sihui/internal/session"
	"github.com/studiowebux/sihui/internal/types"
)

func TestDefaultConfigServesTheClient(t *testing.T) {
	srv := httptest.NewServer(NewServer(DefaultConfig(), nil).Handler())
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	c, err := client.New(client.Config{BaseURL: srv.URL, Store: store})
	require.NoError(t, err)
	svc := services.New(c, store)
	ctx := context.Background()

	auth, err := svc.Auth.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, DefaultToken, auth.Token)
	assert.Equal(t, DefaultToken, session.Token(store))

	page, err := svc.Users.List(ctx, services.UserQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Content, 3)
	assert.NoError(t, page.Validate())

	user, err := svc.Users.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)

	health, err := svc.Monitoring.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.HealthUp, health.Status)

	_, err = svc.Questionnaires.Get(ctx, 9)
	var respErr *client.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusNotFound, respErr.Status)
	assert.Equal(t, "NOT_FOUND", respErr.Code)
}

func TestRouteMatching(t *testing.T) {
	cfg := &Config{Routes: []Route{
		{Name: "exact", Method: "GET", Path: "/api/a"},
		{Name: "prefix", Method: "GET", Path: "/api/files/", MatchType: MatchPrefix},
		{Name: "regex", Method: "DELETE", Path: `^/api/users/\d+$`, MatchType: MatchRegex},
		{Name: "any", Method: "*", Path: "/api/any"},
	}}
	s := NewServer(cfg, nil)

	tests := []struct {
		method, path string
		want         string
	}{
		{"GET", "/api/a", "exact"},
		{"get", "/api/a", "exact"},
		{"POST", "/api/a", ""},
		{"GET", "/api/files/x/y", "prefix"},
		{"DELETE", "/api/users/12", "regex"},
		{"DELETE", "/api/users/abc", ""},
		{"PATCH", "/api/any", "any"},
	}
	for _, tt := range tests {
		route := s.findMatchingRoute(tt.method, tt.path)
		got := ""
		if route != nil {
			got = route.Name
		}
		if got != tt.want {
			t.Errorf("findMatchingRoute(%s %s) = %q, want %q", tt.method, tt.path, got, tt.want)
		}
	}
}

func TestEnvelopeRendering(t *testing.T) {
	cfg := &Config{Routes: []Route{
		{Method: "GET", Path: "/ok", Data: map[string]any{"n": 1}},
		{Method: "GET", Path: "/fail", Status: 409, Message: "用户名已存在", Code: "DUPLICATE"},
		{Method: "GET", Path: "/raw", Body: "plain", Headers: map[string]string{"X-Mock": "1"}},
		{Method: "GET", Path: "/csv", Body: "id,name\n1,admin\n", Headers: map[string]string{"Content-Type": "text/csv"}},
	}}
	handler := NewServer(cfg, nil).Handler()

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	ok := get("/ok")
	assert.Equal(t, http.StatusOK, ok.Code)
	var env types.Envelope[map[string]int]
	require.NoError(t, json.Unmarshal(ok.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, 1, env.Data["n"])
	assert.Equal(t, "SUCCESS", env.Code)

	fail := get("/fail")
	assert.Equal(t, http.StatusConflict, fail.Code)
	var failEnv types.Envelope[any]
	require.NoError(t, json.Unmarshal(fail.Body.Bytes(), &failEnv))
	assert.False(t, failEnv.Success)
	assert.Equal(t, "用户名已存在", failEnv.Message)
	assert.Equal(t, "DUPLICATE", failEnv.Code)

	raw := get("/raw")
	assert.Equal(t, "plain", raw.Body.String())
	assert.Equal(t, "1", raw.Header().Get("X-Mock"))
	assert.Equal(t, "application/json", raw.Header().Get("Content-Type"))

	csv := get("/csv")
	assert.Equal(t, "text/csv", csv.Header().Get("Content-Type"))
	assert.Equal(t, "id,name\n1,admin\n", csv.Body.String())
	assert.Equal(t, "application/json", ok.Header().Get("Content-Type"))
}

func TestDelayAndLogs(t *testing.T) {
	cfg := &Config{Routes: []Route{{Name: "slow", Method: "POST", Path: "/api/x", Delay: 250}}}
	logger, hook := logtest.NewNullLogger()
	s := NewServer(cfg, logger)
	var slept time.Duration
	s.sleep = func(d time.Duration) { slept = d }

	req := httptest.NewRequest(http.MethodPost, "/api/x?page=1", strings.NewReader(`{"a":1}`))
	req.Header.Set("X-Request-ID", "rid-1")
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 250*time.Millisecond, slept)

	logs := s.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, "POST", logs[0].Method)
	assert.Equal(t, "/api/x", logs[0].Path)
	assert.Equal(t, "page=1", logs[0].Query)
	assert.Equal(t, `{"a":1}`, logs[0].Body)
	assert.Equal(t, "rid-1", logs[0].RequestID)
	assert.Equal(t, "slow", logs[0].MatchedRule)

	select {
	case <-s.NotifyChannel():
	default:
		t.Error("expected a notification")
	}

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "slow", hook.LastEntry().Data["route"])

	s.ClearLogs()
	assert.Empty(t, s.Logs())
}

func TestStartStop(t *testing.T) {
	s := NewServer(DefaultConfig(), nil)
	require.NoError(t, s.Start("127.0.0.1:0"))

	resp, err := http.Get(s.Address() + "/api/monitoring/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"UP"`)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "mock.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
name: demo
routes:
  - method: GET
    path: /api/monitoring/health
    data:
      status: UP
`), 0644))
	cfg, err := LoadConfig(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Name)
	require.Len(t, cfg.Routes, 1)
	assert.Equal(t, map[string]any{"status": "UP"}, cfg.Routes[0].Data)

	jsonPath := filepath.Join(dir, "mock.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		// commented
		"routes": [{"method": "GET", "path": "/a", "matchType": "prefix",}]
	}`), 0644))
	cfg, err = LoadConfig(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, MatchPrefix, cfg.Routes[0].MatchType)

	roundTrip := filepath.Join(dir, "saved.yaml")
	require.NoError(t, SaveConfig(DefaultConfig(), roundTrip))
	saved, err := LoadConfig(roundTrip)
	require.NoError(t, err)
	assert.Len(t, saved.Routes, len(DefaultConfig().Routes))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"no routes", Config{}, "no routes defined"},
		{"missing method", Config{Routes: []Route{{Path: "/a"}}}, "method is required"},
		{"missing path", Config{Routes: []Route{{Method: "GET"}}}, "path is required"},
		{"bad match type", Config{Routes: []Route{{Method: "GET", Path: "/a", MatchType: "glob"}}}, "matchType"},
		{"bad regex", Config{Routes: []Route{{Method: "GET", Path: "(", MatchType: MatchRegex}}}, "invalid regex"},
		{"bad status", Config{Routes: []Route{{Method: "GET", Path: "/a", Status: 42}}}, "invalid status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, validateConfig(&tt.cfg), tt.want)
		})
	}
}
