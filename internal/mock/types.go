package mock

import "time"

// Match types for Route.MatchType
const (
	MatchExact  = "exact"
	MatchPrefix = "prefix"
	MatchRegex  = "regex"
)

// Config represents the mock backend configuration
type Config struct {
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"`
	Routes []Route `json:"routes" yaml:"routes"`
}

// Route represents a mock route. Unless Body is set, the response is an envelope
// carrying Data, Message and Code with success derived from Status.
type Route struct {
	Name      string            `json:"name,omitempty" yaml:"name,omitempty"`
	Method    string            `json:"method" yaml:"method"`                           // HTTP method, * for any
	Path      string            `json:"path" yaml:"path"`                               // URL path pattern
	MatchType string            `json:"matchType,omitempty" yaml:"matchType,omitempty"` // exact, prefix, regex (default: exact)
	Status    int               `json:"status,omitempty" yaml:"status,omitempty"`       // HTTP status (default: 200)
	Delay     int               `json:"delay,omitempty" yaml:"delay,omitempty"`         // milliseconds
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Data      any               `json:"data,omitempty" yaml:"data,omitempty"`
	Body      string            `json:"body,omitempty" yaml:"body,omitempty"` // raw body, bypasses the envelope
	Message   string            `json:"message,omitempty" yaml:"message,omitempty"`
	Code      string            `json:"code,omitempty" yaml:"code,omitempty"`
}

// RequestLog represents a logged request
type RequestLog struct {
	Timestamp   time.Time     `json:"timestamp" yaml:"timestamp"`
	Method      string        `json:"method" yaml:"method"`
	Path        string        `json:"path" yaml:"path"`
	Query       string        `json:"query,omitempty" yaml:"query,omitempty"`
	Body        string        `json:"body,omitempty" yaml:"body,omitempty"`
	RequestID   string        `json:"requestId,omitempty" yaml:"requestId,omitempty"`
	MatchedRule string        `json:"matchedRule" yaml:"matchedRule"`
	Status      int           `json:"status" yaml:"status"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}
