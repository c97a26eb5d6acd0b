package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/session"
	"github.com/studiowebux/sihui/internal/types"
)

func newTestServices(t *testing.T, handler http.Handler) (*Services, *session.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	c, err := client.New(client.Config{BaseURL: srv.URL, Store: store})
	require.NoError(t, err)
	return New(c, store), store
}

func writeEnvelope(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
		"message": "ok",
		"code":    "OK",
	})
}

func TestUserListPage(t *testing.T) {
	var query string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		users := make([]types.User, 10)
		for i := range users {
			users[i] = types.User{ID: types.ID(i + 1), Username: fmt.Sprintf("user%d", i+1), Status: types.UserActive}
		}
		writeEnvelope(w, types.Page[types.User]{
			Content:       users,
			TotalElements: 47,
			TotalPages:    5,
			Size:          10,
			Number:        0,
			First:         true,
			Last:          false,
		})
	})
	svc, _ := newTestServices(t, mux)

	page, err := svc.Users.List(context.Background(), UserQuery{
		PaginationParams: types.PaginationParams{Page: 0, Size: 10, Sort: []string{"id,desc"}},
		Keyword:          "li",
	})
	require.NoError(t, err)

	assert.Len(t, page.Content, 10)
	assert.Equal(t, 10, page.Size)
	assert.Equal(t, 0, page.Number)
	assert.Equal(t, int64(47), page.TotalElements)
	assert.Equal(t, 5, page.TotalPages)
	assert.True(t, page.First)
	assert.False(t, page.Last)
	assert.NoError(t, page.Validate())
	assert.True(t, page.HasNext())

	assert.Equal(t, "keyword=li&page=0&size=10&sort=id%2Cdesc", query)
}

func TestLoginPersistsCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req types.LoginRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Equal(t, "alice", req.UsernameOrEmail)
		assert.Equal(t, "pw", req.Password)
		writeEnvelope(w, types.AuthResponse{
			Token:        "t1",
			RefreshToken: "r1",
			User:         &types.User{ID: 1, Username: "alice"},
			ExpiresIn:    3600,
		})
	})
	svc, store := newTestServices(t, mux)

	resp, err := svc.Auth.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "t1", resp.Token)

	assert.Equal(t, "t1", session.Token(store))
	assert.Equal(t, "r1", session.RefreshToken(store))
	loggedIn, _ := store.Get(session.KeyLoggedIn)
	assert.Equal(t, "true", loggedIn)

	user, err := svc.Auth.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, svc.Auth.IsAuthenticated())
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "rejected credentials",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			},
			check: func(t *testing.T, err error) {
				assert.EqualError(t, err, "Invalid credentials")
				assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
			},
		},
		{
			name: "business failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success":false,"data":null,"message":"账户已锁定","code":"ACCOUNT_LOCKED"}`))
			},
			check: func(t *testing.T, err error) {
				var envErr *types.EnvelopeError
				require.ErrorAs(t, err, &envErr)
				assert.Equal(t, "ACCOUNT_LOCKED", envErr.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST /api/auth/login", tt.handler)
			svc, store := newTestServices(t, mux)

			resp, err := svc.Auth.Login(context.Background(), "alice", "bad")
			assert.Nil(t, resp)
			tt.check(t, err)
			assert.Empty(t, session.Token(store))
		})
	}
}

func TestLogoutClearsEvenOnServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusInternalServerError)
	})
	svc, store := newTestServices(t, mux)
	require.NoError(t, session.SaveAuth(store, &types.AuthResponse{Token: "t1", RefreshToken: "r1", User: &types.User{ID: 1}}))

	err := svc.Auth.Logout(context.Background())
	assert.True(t, client.IsStatus(err, http.StatusInternalServerError))

	for _, key := range []string{session.KeyToken, session.KeyRefreshToken, session.KeyUser, session.KeyLoggedIn} {
		_, ok := store.Get(key)
		assert.False(t, ok, "key %s should be cleared", key)
	}
}

func TestRefresh(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req types.RefreshTokenRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "r1", req.RefreshToken)
		writeEnvelope(w, types.AuthResponse{Token: "t2", RefreshToken: "r2"})
	})
	svc, store := newTestServices(t, mux)

	_, err := svc.Auth.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoRefreshToken)

	require.NoError(t, session.SaveTokens(store, "t1", "r1"))
	resp, err := svc.Auth.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t2", resp.Token)
	assert.Equal(t, "t2", session.Token(store))
	assert.Equal(t, "r2", session.RefreshToken(store))
}

func TestMutationsOnTheWire(t *testing.T) {
	type captured struct {
		method string
		path   string
		query  string
		body   string
	}

	tests := []struct {
		name string
		run  func(ctx context.Context, svc *Services) error
		want captured
	}{
		{
			name: "user batch delete sends body",
			run: func(ctx context.Context, svc *Services) error {
				return svc.Users.BatchDelete(ctx, []types.ID{3, 4})
			},
			want: captured{method: http.MethodDelete, path: "/api/users/batch", body: `[3,4]`},
		},
		{
			name: "user status is a query parameter",
			run: func(ctx context.Context, svc *Services) error {
				return svc.Users.UpdateStatus(ctx, 7, types.UserSuspended)
			},
			want: captured{method: http.MethodPatch, path: "/api/users/7/status", query: "status=SUSPENDED"},
		},
		{
			name: "assign roles",
			run: func(ctx context.Context, svc *Services) error {
				return svc.Users.AssignRoles(ctx, 7, []types.ID{1, 2})
			},
			want: captured{method: http.MethodPost, path: "/api/users/7/roles", body: `{"roleIds":[1,2]}`},
		},
		{
			name: "questionnaire publish",
			run: func(ctx context.Context, svc *Services) error {
				return svc.Questionnaires.Publish(ctx, 12)
			},
			want: captured{method: http.MethodPost, path: "/api/questionnaires/12/publish"},
		},
		{
			name: "questionnaire batch delete",
			run: func(ctx context.Context, svc *Services) error {
				return svc.Questionnaires.BatchDelete(ctx, []types.ID{1})
			},
			want: captured{method: http.MethodDelete, path: "/api/questionnaires/batch", body: `{"ids":[1]}`},
		},
		{
			name: "content delete escapes the name",
			run: func(ctx context.Context, svc *Services) error {
				return svc.Content.Delete(ctx, "年度 报告.pdf")
			},
			want: captured{method: http.MethodDelete, path: "/api/contents/年度 报告.pdf"},
		},
		{
			name: "content batch delete",
			run: func(ctx context.Context, svc *Services) error {
				return svc.Content.BatchDelete(ctx, []string{"a.png", "b.png"})
			},
			want: captured{method: http.MethodDelete, path: "/api/contents/batch", body: `{"fileNames":["a.png","b.png"]}`},
		},
		{
			name: "terminate session",
			run: func(ctx context.Context, svc *Services) error {
				return svc.Auth.TerminateSession(ctx, "abc")
			},
			want: captured{method: http.MethodDelete, path: "/api/auth/enhanced/sessions/abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got captured
			svc, _ := newTestServices(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				got = captured{
					method: r.Method,
					path:   r.URL.Path,
					query:  r.URL.RawQuery,
					body:   strings.TrimSpace(string(body)),
				}
				w.WriteHeader(http.StatusNoContent)
			}))

			require.NoError(t, tt.run(context.Background(), svc))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmptyBodyOnDataEndpoint(t *testing.T) {
	svc, _ := newTestServices(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	_, err := svc.Users.Get(context.Background(), 1)
	var decErr *client.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.True(t, errors.Is(err, errEmptyBody))
}

func TestContentUpload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/contents/upload", func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary="))
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "training", r.FormValue("category"))
		assert.Equal(t, "false", r.FormValue("isPublic"))
		_, hasFolder := r.MultipartForm.Value["folder"]
		assert.False(t, hasFolder, "empty metadata is not sent")

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "slides.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.7", string(data))

		writeEnvelope(w, types.FileInfo{ID: 9, FileName: "slides.pdf", FileSize: int64(len(data))})
	})
	svc, _ := newTestServices(t, mux)

	info, err := svc.Content.Upload(context.Background(), "slides.pdf", strings.NewReader("%PDF-1.7"),
		types.UploadFileRequest{Category: "training"})
	require.NoError(t, err)
	assert.Equal(t, types.ID(9), info.ID)
	assert.Equal(t, int64(8), info.FileSize)
}

func TestSearchDefaults(t *testing.T) {
	var queries []string
	svc, _ := newTestServices(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Path+"?"+r.URL.RawQuery)
		switch r.URL.Path {
		case "/api/knowledge/documents/search", "/api/performance/slow-queries":
			writeEnvelope(w, []any{})
		case "/api/contents/signed-url/a.png":
			writeEnvelope(w, types.SignedURL{URL: "https://cdn/a.png"})
		default:
			writeEnvelope(w, types.Page[types.User]{First: true, Last: true})
		}
	}))
	ctx := context.Background()

	_, err := svc.Users.Search(ctx, "wang", 0, 0)
	require.NoError(t, err)
	_, err = svc.Knowledge.Search(ctx, "安全", 0)
	require.NoError(t, err)
	_, err = svc.Monitoring.SlowQueries(ctx, 0)
	require.NoError(t, err)
	signed, err := svc.Content.SignedURL(ctx, "a.png", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/a.png", signed.URL)

	assert.Equal(t, []string{
		"/api/users/search?keyword=wang&page=0&size=10",
		"/api/knowledge/documents/search?keyword=%E5%AE%89%E5%85%A8&limit=20",
		"/api/performance/slow-queries?limit=100",
		"/api/contents/signed-url/a.png?expiredInSeconds=3600",
	}, queries)
}

func TestChatModes(t *testing.T) {
	tests := []struct {
		raw      string
		wantPath string
		wantErr  bool
	}{
		{raw: "", wantPath: "/api/ai/chat"},
		{raw: "general", wantPath: "/api/ai/chat"},
		{raw: "conversation", wantPath: "/api/ai/chat/conversation"},
		{raw: "knowledge", wantPath: "/api/ai/chat/knowledge"},
		{raw: "memory", wantPath: "/api/ai/chat/memory"},
		{raw: "shouting", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			mode, err := ParseChatMode(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var path string
			svc, _ := newTestServices(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				writeEnvelope(w, types.ChatResponse{Response: "你好", SessionID: "s1"})
			}))
			resp, err := svc.AI.Chat(context.Background(), mode, types.ChatRequest{Message: "hi"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, "你好", resp.Response)
		})
	}
}

func TestCheckHelpers(t *testing.T) {
	svc, _ := newTestServices(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/check-username":
			writeEnvelope(w, types.Exists{Exists: r.URL.Query().Get("username") == "admin"})
		case "/api/permissions/check":
			writeEnvelope(w, types.HasPermission{HasPermission: r.URL.Query().Get("userId") == "1"})
		}
	}))
	ctx := context.Background()

	taken, err := svc.Users.CheckUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = svc.Users.CheckUsername(ctx, "newbie")
	require.NoError(t, err)
	assert.False(t, taken)

	allowed, err := svc.Permissions.Check(ctx, 1, "user:write")
	require.NoError(t, err)
	assert.True(t, allowed)
}
