package resilience

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/types"
)

// Error codes produced by Classify (structured responses keep their own code)
const (
	CodeAPI     = "API_ERROR"
	CodeNetwork = "NETWORK_ERROR"
	CodeDecode  = "DECODE_ERROR"
	CodeUnknown = "UNKNOWN_ERROR"
)

// Fixed user-facing messages
const (
	UnknownMessage    = "未知错误"
	RequestFailed     = "请求失败"
	PermissionDenied  = "您没有权限执行此操作"
	validationPrefix  = "输入验证失败: "
	codeUnauthorized  = "UNAUTHORIZED"
	codeTokenExpired  = "TOKEN_EXPIRED"
	codeForbidden     = "FORBIDDEN"
	codeAccessDenied  = "ACCESS_DENIED"
	codeValidationErr = "VALIDATION_ERROR"
)

// Clock stamps classified errors
var Clock = time.Now

// ClassifiedError is the normalized failure shape handed to callers and notifiers
type ClassifiedError struct {
	Code      string    `json:"code" yaml:"code"`
	Message   string    `json:"message" yaml:"message"`
	Details   any       `json:"details,omitempty" yaml:"details,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Hint      string    `json:"hint,omitempty" yaml:"hint,omitempty"`
	Status    int       `json:"status,omitempty" yaml:"status,omitempty"`

	cause error
}

func (e *ClassifiedError) Error() string {
	return e.Message
}

func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

// Classify normalizes any error.
// Structured bodies are used verbatim, other errors with a message become network errors,
// and everything else is unknown. Already classified errors pass through unchanged.
func Classify(err error) *ClassifiedError {
	now := Clock()
	if err == nil {
		return &ClassifiedError{Code: CodeUnknown, Message: UnknownMessage, Timestamp: now}
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	var envErr *types.EnvelopeError
	if errors.As(err, &envErr) {
		return &ClassifiedError{
			Code:      orDefault(envErr.Code, CodeAPI),
			Message:   orDefault(envErr.Message, RequestFailed),
			Details:   envErr.Details,
			Timestamp: now,
			cause:     err,
		}
	}

	var respErr *client.ResponseError
	if errors.As(err, &respErr) && respErr.Structured {
		return &ClassifiedError{
			Code:      orDefault(respErr.Code, CodeAPI),
			Message:   orDefault(respErr.Message, RequestFailed),
			Details:   respErr.Details,
			Timestamp: now,
			Hint:      statusHint(respErr.Status),
			Status:    respErr.Status,
			cause:     err,
		}
	}

	var decErr *client.DecodeError
	if errors.As(err, &decErr) {
		return &ClassifiedError{
			Code:      CodeDecode,
			Message:   err.Error(),
			Timestamp: now,
			Hint:      "The server answered with an unexpected payload - check that the API URL points at a Sihui backend",
			cause:     err,
		}
	}

	if msg := err.Error(); msg != "" {
		ce := &ClassifiedError{
			Code:      CodeNetwork,
			Message:   msg,
			Timestamp: now,
			Hint:      Hint(err),
			cause:     err,
		}
		if respErr != nil {
			ce.Status = respErr.Status
		}
		return ce
	}

	return &ClassifiedError{Code: CodeUnknown, Message: UnknownMessage, Timestamp: now, cause: err}
}

// IsAuthError reports an authentication failure (expired or missing credentials)
func IsAuthError(e *ClassifiedError) bool {
	if e == nil {
		return false
	}
	return e.Code == codeUnauthorized || e.Code == codeTokenExpired || e.Status == 401
}

// PermissionMessage returns the fixed message for authorization failures
func PermissionMessage(e *ClassifiedError) (string, bool) {
	if e == nil {
		return "", false
	}
	if e.Code == codeForbidden || e.Code == codeAccessDenied || e.Status == 403 {
		return PermissionDenied, true
	}
	return "", false
}

// ValidationMessage joins a details list into a single validation message
func ValidationMessage(e *ClassifiedError) (string, bool) {
	if e == nil {
		return "", false
	}
	items, ok := e.Details.([]any)
	if !ok || len(items) == 0 {
		if e.Code == codeValidationErr {
			return validationPrefix + e.Message, true
		}
		return "", false
	}

	messages := make([]string, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			if msg, ok := m["message"].(string); ok && msg != "" {
				messages = append(messages, msg)
				continue
			}
		}
		messages = append(messages, fmt.Sprint(item))
	}
	return validationPrefix + strings.Join(messages, ", "), true
}

// Describe renders the message surfaced to users, preferring the specialized views
func Describe(e *ClassifiedError) string {
	if msg, ok := PermissionMessage(e); ok {
		return msg
	}
	if msg, ok := ValidationMessage(e); ok {
		return msg
	}
	return e.Message
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
