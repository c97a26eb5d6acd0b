package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/studiowebux/sihui/internal/types"
)

// maxLogs bounds the in-memory request log
const maxLogs = 1000

// Server is the mock Sihui backend
type Server struct {
	config     *Config
	logger     logrus.FieldLogger
	patterns   map[int]*regexp.Regexp
	httpServer *http.Server
	addr       string
	logs       []RequestLog
	logsMutex  sync.RWMutex
	notifyCh   chan struct{}
	sleep      func(time.Duration)
}

// NewServer creates a mock server for cfg. A nil logger discards output.
func NewServer(cfg *Config, logger logrus.FieldLogger) *Server {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	patterns := make(map[int]*regexp.Regexp)
	for i, route := range cfg.Routes {
		if route.MatchType == MatchRegex {
			if re, err := regexp.Compile(route.Path); err == nil {
				patterns[i] = re
			}
		}
	}

	return &Server{
		config:   cfg,
		logger:   logger,
		patterns: patterns,
		logs:     make([]RequestLog, 0),
		notifyCh: make(chan struct{}, 100),
		sleep:    time.Sleep,
	}
}

// Handler returns the http.Handler serving the configured routes
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleRequest)
}

// Start listens on addr ("host:port", port 0 picks a free one) and serves in the background
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.addr = listener.Addr().String()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("Mock server error")
		}
	}()

	s.logger.WithField("addr", s.addr).Info("Mock server listening")
	return nil
}

// Stop shuts the server down, waiting for in-flight requests until ctx ends
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Address returns the base URL of a started server
func (s *Server) Address() string {
	if s.addr == "" {
		return ""
	}
	return "http://" + s.addr
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	bodyBytes, _ := io.ReadAll(r.Body)
	r.Body.Close()

	status, body, matchedRule := s.respond(w, r)

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)

	entry := RequestLog{
		Timestamp:   start,
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.RawQuery,
		Body:        string(bodyBytes),
		RequestID:   r.Header.Get("X-Request-ID"),
		MatchedRule: matchedRule,
		Status:      status,
		Duration:    time.Since(start),
	}
	s.logRequest(entry)

	s.logger.WithFields(logrus.Fields{
		"method": entry.Method,
		"path":   entry.Path,
		"route":  entry.MatchedRule,
		"status": entry.Status,
	}).Info("Mock request")
}

// respond resolves the route and renders its response body
func (s *Server) respond(w http.ResponseWriter, r *http.Request) (int, []byte, string) {
	route := s.findMatchingRoute(r.Method, r.URL.Path)
	if route == nil {
		body := mustEnvelope(false, nil, fmt.Sprintf("No route configured for %s %s", r.Method, r.URL.Path), "NOT_FOUND")
		return http.StatusNotFound, body, "none"
	}

	if route.Delay > 0 {
		s.sleep(time.Duration(route.Delay) * time.Millisecond)
	}

	for key, value := range route.Headers {
		w.Header().Set(key, value)
	}

	status := route.Status
	if status == 0 {
		status = http.StatusOK
	}

	matchedRule := route.Name
	if matchedRule == "" {
		matchedRule = fmt.Sprintf("%s %s", route.Method, route.Path)
	}

	if route.Body != "" {
		return status, []byte(route.Body), matchedRule
	}

	success := status < http.StatusBadRequest
	message := route.Message
	if message == "" && success {
		message = "操作成功"
	}
	code := route.Code
	if code == "" && success {
		code = "SUCCESS"
	}
	return status, mustEnvelope(success, route.Data, message, code), matchedRule
}

func mustEnvelope(success bool, data any, message, code string) []byte {
	body, err := json.Marshal(types.Envelope[any]{
		Success: success,
		Data:    data,
		Message: message,
		Code:    code,
	})
	if err != nil {
		body, _ = json.Marshal(types.Envelope[any]{Message: "mock data is not JSON encodable: " + err.Error(), Code: "MOCK_ERROR"})
	}
	return body
}

// findMatchingRoute finds the first route that matches the method and path
func (s *Server) findMatchingRoute(method, path string) *Route {
	for i := range s.config.Routes {
		route := &s.config.Routes[i]
		if route.Method != "*" && !strings.EqualFold(route.Method, method) {
			continue
		}

		matched := false
		switch route.MatchType {
		case "", MatchExact:
			matched = route.Path == path
		case MatchPrefix:
			matched = strings.HasPrefix(path, route.Path)
		case MatchRegex:
			if re, ok := s.patterns[i]; ok {
				matched = re.MatchString(path)
			}
		}

		if matched {
			return route
		}
	}

	return nil
}

func (s *Server) logRequest(entry RequestLog) {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogs {
		s.logs = s.logs[len(s.logs)-maxLogs:]
	}

	// Notify listeners (non-blocking)
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// NotifyChannel receives a signal after each logged request
func (s *Server) NotifyChannel() <-chan struct{} {
	return s.notifyCh
}

// Logs returns a copy of the logged requests
func (s *Server) Logs() []RequestLog {
	s.logsMutex.RLock()
	defer s.logsMutex.RUnlock()

	logs := make([]RequestLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// ClearLogs clears all logged requests
func (s *Server) ClearLogs() {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = make([]RequestLog, 0)
}
