package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTimeout is wrapped by errors caused by the per-call deadline
	ErrTimeout = errors.New("request timed out")

	// ErrMalformedResponse is wrapped by errors decoding a 2xx body
	ErrMalformedResponse = errors.New("malformed response")
)

// ResponseError is returned for any non-2xx response
type ResponseError struct {
	Status     int
	StatusText string
	Message    string // body message, or the synthesized "HTTP <status>: <text>"
	Code       string
	Details    any
	Body       []byte
	// Structured is true when the body parsed as a JSON object
	Structured bool
}

func (e *ResponseError) Error() string {
	return e.Message
}

// errorBody is the subset of an error response the client reads
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details"`
}

// newResponseError builds the error for a failed status.
// An unparseable body behaves like an empty object.
func newResponseError(status int, body []byte) *ResponseError {
	statusText := http.StatusText(status)
	rerr := &ResponseError{
		Status:     status,
		StatusText: statusText,
		Body:       body,
	}

	var parsed errorBody
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err == nil && probe != nil {
		rerr.Structured = true
		_ = json.Unmarshal(body, &parsed)
	}

	rerr.Code = parsed.Code
	rerr.Details = parsed.Details
	if parsed.Message != "" {
		rerr.Message = parsed.Message
	} else {
		rerr.Message = fmt.Sprintf("HTTP %d: %s", status, statusText)
	}
	return rerr
}

// DecodeError is returned when a successful response cannot be decoded into the requested type
type DecodeError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s from %s %s: %v", ErrMalformedResponse, e.Method, e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrMalformedResponse, e.Err}
}

// IsStatus reports whether err is a ResponseError with the given status
func IsStatus(err error, status int) bool {
	var rerr *ResponseError
	return errors.As(err, &rerr) && rerr.Status == status
}
