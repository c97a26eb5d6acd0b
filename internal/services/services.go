package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/session"
	"github.com/studiowebux/sihui/internal/types"
)

var errEmptyBody = errors.New("empty response body")

// Services groups the typed facades over the Sihui API
type Services struct {
	Auth           *AuthService
	Users          *UserService
	Roles          *RoleService
	Permissions    *PermissionService
	Content        *ContentService
	Questionnaires *QuestionnaireService
	AI             *AIService
	Knowledge      *KnowledgeService
	Monitoring     *MonitoringService
}

// New creates every service on top of c. store receives credentials written by login and refresh.
func New(c *client.Client, store session.Store) *Services {
	return &Services{
		Auth:           &AuthService{c: c, store: store},
		Users:          &UserService{c: c},
		Roles:          &RoleService{c: c},
		Permissions:    &PermissionService{c: c},
		Content:        &ContentService{c: c},
		Questionnaires: &QuestionnaireService{c: c},
		AI:             &AIService{c: c},
		Knowledge:      &KnowledgeService{c: c},
		Monitoring:     &MonitoringService{c: c},
	}
}

// call performs req and unwraps the envelope data
func call[T any](ctx context.Context, c *client.Client, req client.Request) (T, error) {
	var zero T
	env, err := client.Fetch[*types.Envelope[T]](ctx, c, req)
	if err != nil {
		return zero, err
	}
	if env == nil {
		return zero, &client.DecodeError{Method: methodOf(req), Endpoint: req.Endpoint, Err: errEmptyBody}
	}
	return env.Unwrap()
}

// exec performs req for its side effect. An empty body counts as success.
func exec(ctx context.Context, c *client.Client, req client.Request) error {
	env, err := client.Fetch[*types.Envelope[json.RawMessage]](ctx, c, req)
	if err != nil {
		return err
	}
	if env == nil {
		return nil
	}
	_, err = env.Unwrap()
	return err
}

func get[T any](ctx context.Context, c *client.Client, endpoint string, params client.Params) (T, error) {
	return call[T](ctx, c, client.Request{Method: http.MethodGet, Endpoint: endpoint, Query: params})
}

func post[T any](ctx context.Context, c *client.Client, endpoint string, body any) (T, error) {
	return call[T](ctx, c, client.Request{Method: http.MethodPost, Endpoint: endpoint, Body: body})
}

func put[T any](ctx context.Context, c *client.Client, endpoint string, body any) (T, error) {
	return call[T](ctx, c, client.Request{Method: http.MethodPut, Endpoint: endpoint, Body: body})
}

func upload[T any](ctx context.Context, c *client.Client, endpoint string, form *client.Form) (T, error) {
	return call[T](ctx, c, client.Request{Method: http.MethodPost, Endpoint: endpoint, Form: form})
}

func methodOf(req client.Request) string {
	if req.Method == "" {
		return http.MethodGet
	}
	return req.Method
}

// pageParams merges pagination into extra filters
func pageParams(p types.PaginationParams, extra client.Params) client.Params {
	params := client.Params(p.Params())
	for k, v := range extra {
		params[k] = v
	}
	return params
}

// optional returns nil for an empty string so the query encoder drops it
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

// ref adapts a (value, error) pair to (*value, error)
func ref[T any](v T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	return &v, nil
}
