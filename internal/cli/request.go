package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/studiowebux/sihui/internal/client"
)

// RawRequest is a free-form call made by `sihui request`
type RawRequest struct {
	Method   string
	Endpoint string
	Query    []string // key=value, repeated keys become arrays
	Body     string   // JSON text
}

// ParseQuery turns key=value pairs into client params
func ParseQuery(pairs []string) (client.Params, error) {
	params := client.Params{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query parameter %q (expected key=value)", pair)
		}
		switch existing := params[key].(type) {
		case nil:
			params[key] = value
		case string:
			params[key] = []string{existing, value}
		case []string:
			params[key] = append(existing, value)
		}
	}
	return params, nil
}

// Request performs a raw call and prints the decoded response body
func (a *App) Request(ctx context.Context, raw RawRequest) error {
	method := strings.ToUpper(raw.Method)
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return fmt.Errorf("unsupported method %q", raw.Method)
	}

	query, err := ParseQuery(raw.Query)
	if err != nil {
		return err
	}

	req := client.Request{Method: method, Endpoint: raw.Endpoint, Query: query}
	if raw.Body != "" {
		if !json.Valid([]byte(raw.Body)) {
			return fmt.Errorf("request body is not valid JSON")
		}
		req.Body = json.RawMessage(raw.Body)
	}

	return Show(ctx, a, "request", func(ctx context.Context) (json.RawMessage, error) {
		var out json.RawMessage
		if err := a.Client.Do(ctx, req, &out); err != nil {
			return nil, err
		}
		if out == nil {
			out = json.RawMessage("null")
		}
		return out, nil
	})
}
