package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/studiowebux/sihui/internal/config"
)

// Fixed storage keys shared with the web console
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
	KeyLoggedIn     = "isLoggedIn" // read by the legacy route guard
)

// Store is durable key/value storage for session credentials
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	// Clear removes the given keys, or everything when called without keys
	Clear(keys ...string) error
}

// FileStore persists credentials as a JSON object on disk
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
	loaded bool
}

// NewFileStore creates a store backed by path.
// An empty path uses the configured credentials file.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = config.GetCredentialsFilePath()
	}
	return &FileStore{path: path}
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the stored value for key
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return "", false
	}
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key and writes the file
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	s.values[key] = value
	return s.save()
}

// Clear removes keys (all keys when none given) and writes the file
func (s *FileStore) Clear(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		// A corrupt file is replaced rather than blocking logout
		s.values = make(map[string]string)
		s.loaded = true
	}
	if len(keys) == 0 {
		s.values = make(map[string]string)
	}
	for _, key := range keys {
		delete(s.values, key)
	}
	return s.save()
}

// load reads the credentials file once
func (s *FileStore) load() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.values = make(map[string]string)
			s.loaded = true
			return nil
		}
		return fmt.Errorf("failed to read credentials file: %w", err)
	}

	values := make(map[string]string)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("failed to parse credentials file: %w", err)
		}
	}
	s.values = values
	s.loaded = true
	return nil
}

// save writes the credentials file with owner-only permissions
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, config.SecretPermissions); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// MemoryStore keeps credentials in memory
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Clear(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(keys) == 0 {
		s.values = make(map[string]string)
		return nil
	}
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}
