package bench

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/studiowebux/sihui/internal/client"
)

const (
	MaxConcurrency = 1000
	MaxRequests    = 1000000
)

// Config describes one run
type Config struct {
	Method      string
	Endpoint    string
	Query       client.Params
	Body        any
	Concurrency int
	Requests    int
	RampUp      time.Duration // spread request start times over this window
	Duration    time.Duration // stop the run after this long, 0 runs until all requests finish
}

// Validate checks the limits and normalizes the method
func (c *Config) Validate() error {
	c.Method = strings.ToUpper(c.Method)
	switch c.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return fmt.Errorf("unsupported method %q", c.Method)
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be greater than 0")
	}
	if c.Concurrency > MaxConcurrency {
		return fmt.Errorf("concurrency cannot exceed %d", MaxConcurrency)
	}
	if c.Requests <= 0 {
		return fmt.Errorf("requests must be greater than 0")
	}
	if c.Requests > MaxRequests {
		return fmt.Errorf("requests cannot exceed %d", MaxRequests)
	}
	if c.RampUp < 0 {
		return fmt.Errorf("ramp-up cannot be negative")
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	return nil
}

// offset is when request i may start relative to the run start
func (c *Config) offset(i int) time.Duration {
	if c.RampUp <= 0 {
		return 0
	}
	return time.Duration(i) * (c.RampUp / time.Duration(c.Requests))
}
