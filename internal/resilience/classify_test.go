package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/types"
)

func fixClock(t *testing.T) time.Time {
	t.Helper()
	fixed := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	prev := Clock
	Clock = func() time.Time { return fixed }
	t.Cleanup(func() { Clock = prev })
	return fixed
}

func TestClassify(t *testing.T) {
	now := fixClock(t)

	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
		wantDetails any
		wantStatus  int
	}{
		{
			name:        "nil",
			err:         nil,
			wantCode:    CodeUnknown,
			wantMessage: UnknownMessage,
		},
		{
			name:        "empty message",
			err:         errors.New(""),
			wantCode:    CodeUnknown,
			wantMessage: UnknownMessage,
		},
		{
			name:        "envelope failure",
			err:         &types.EnvelopeError{Code: "USER_EXISTS", Message: "用户名已存在", Details: map[string]any{"field": "username"}},
			wantCode:    "USER_EXISTS",
			wantMessage: "用户名已存在",
			wantDetails: map[string]any{"field": "username"},
		},
		{
			name:        "envelope failure without code",
			err:         fmt.Errorf("failed to list users: %w", &types.EnvelopeError{}),
			wantCode:    CodeAPI,
			wantMessage: RequestFailed,
		},
		{
			name:        "structured response",
			err:         &client.ResponseError{Status: 400, Message: "bad input", Code: "VALIDATION_ERROR", Details: []any{"name"}, Structured: true},
			wantCode:    "VALIDATION_ERROR",
			wantMessage: "bad input",
			wantDetails: []any{"name"},
			wantStatus:  400,
		},
		{
			name:        "structured response without code",
			err:         &client.ResponseError{Status: 401, Message: "Invalid credentials", Structured: true},
			wantCode:    CodeAPI,
			wantMessage: "Invalid credentials",
			wantStatus:  401,
		},
		{
			name:        "unstructured response",
			err:         &client.ResponseError{Status: 502, Message: "HTTP 502: Bad Gateway"},
			wantCode:    CodeNetwork,
			wantMessage: "HTTP 502: Bad Gateway",
			wantStatus:  502,
		},
		{
			name:        "decode failure",
			err:         &client.DecodeError{Method: "GET", Endpoint: "/api/users", Err: errors.New("unexpected token")},
			wantCode:    CodeDecode,
			wantMessage: "malformed response from GET /api/users: unexpected token",
		},
		{
			name:        "plain error",
			err:         errors.New("dial tcp 127.0.0.1:8080: connect: connection refused"),
			wantCode:    CodeNetwork,
			wantMessage: "dial tcp 127.0.0.1:8080: connect: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.Equal(t, tt.wantDetails, got.Details)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, now, got.Timestamp)
		})
	}
}

func TestClassifyKeepsCause(t *testing.T) {
	fixClock(t)
	cause := &client.ResponseError{Status: 403, Message: "forbidden", Code: "FORBIDDEN", Structured: true}
	got := Classify(fmt.Errorf("wrapped: %w", cause))

	var rerr *client.ResponseError
	assert.ErrorAs(t, got, &rerr)
	assert.Same(t, got, Classify(got))
}

func TestSpecializedViews(t *testing.T) {
	assert.True(t, IsAuthError(&ClassifiedError{Code: "TOKEN_EXPIRED"}))
	assert.True(t, IsAuthError(&ClassifiedError{Code: CodeNetwork, Status: 401}))
	assert.False(t, IsAuthError(&ClassifiedError{Code: CodeAPI, Status: 400}))
	assert.False(t, IsAuthError(nil))

	msg, ok := PermissionMessage(&ClassifiedError{Code: "ACCESS_DENIED"})
	assert.True(t, ok)
	assert.Equal(t, PermissionDenied, msg)
	_, ok = PermissionMessage(&ClassifiedError{Code: CodeAPI})
	assert.False(t, ok)

	msg, ok = ValidationMessage(&ClassifiedError{Details: []any{
		map[string]any{"field": "email", "message": "邮箱格式不正确"},
		"密码太短",
	}})
	assert.True(t, ok)
	assert.Equal(t, "输入验证失败: 邮箱格式不正确, 密码太短", msg)

	_, ok = ValidationMessage(&ClassifiedError{Details: map[string]any{"x": 1}})
	assert.False(t, ok)

	assert.Equal(t, PermissionDenied, Describe(&ClassifiedError{Code: "FORBIDDEN", Message: "Forbidden"}))
	assert.Equal(t, "boom", Describe(&ClassifiedError{Code: CodeNetwork, Message: "boom"}))
}

func TestHint(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantText string
	}{
		{
			name:     "nil",
			err:      nil,
			wantText: "",
		},
		{
			name:     "client timeout",
			err:      fmt.Errorf("%w after 10s: %w", client.ErrTimeout, context.DeadlineExceeded),
			wantText: "Request timeout - the backend took too long, try again or raise --timeout",
		},
		{
			name:     "cancelled",
			err:      fmt.Errorf("request cancelled: %w", context.Canceled),
			wantText: "Request cancelled",
		},
		{
			name: "connection refused errno",
			err: &net.OpError{Op: "dial", Net: "tcp",
				Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)},
			wantText: "Connection refused - check that the Sihui backend is running and the API URL port is correct",
		},
		{
			name:     "dns error",
			err:      &net.DNSError{Err: "no such host", Name: "sihui.invalid", IsNotFound: true},
			wantText: "DNS resolution failed - verify the API URL hostname and network access",
		},
		{
			name:     "connection reset text",
			err:      errors.New("read tcp 127.0.0.1:8080->127.0.0.1:54321: read: connection reset by peer"),
			wantText: "Connection reset by server - the backend may have restarted",
		},
		{
			name:     "tls text",
			err:      errors.New("x509: certificate signed by unknown authority"),
			wantText: "TLS error - check the certificate configuration",
		},
		{
			name:     "bad scheme",
			err:      errors.New(`Get "ftp://x": unsupported protocol scheme "ftp"`),
			wantText: "Invalid API URL - it must start with http:// or https://",
		},
		{
			name:     "unauthorized status",
			err:      &client.ResponseError{Status: 401},
			wantText: "Session expired or missing - run `sihui login`",
		},
		{
			name:     "server status",
			err:      &client.ResponseError{Status: 503},
			wantText: "Backend error - retry later or check the server logs",
		},
		{
			name:     "uncategorized",
			err:      errors.New("something odd"),
			wantText: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hint(tt.err); got != tt.wantText {
				t.Errorf("Hint() = %v, want %v", got, tt.wantText)
			}
		})
	}
}
