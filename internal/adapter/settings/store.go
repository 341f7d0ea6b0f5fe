// Package settings persists local configuration as a JSON key-value file,
// reloaded at startup to reconfigure the mailer and scheduler.
package settings

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/subash43e/taskapp/internal/core/ports"
)

// Well-known settings keys.
const (
	KeyUserEmail            = "userEmail"
	KeyEmailNotifications   = "emailNotifications"
	KeyBrowserNotifications = "browserNotifications"
	KeyDailyDigestTime      = "dailyDigestTime"
	KeyEmailProvider        = "emailProvider"
	KeyWeb3FormsKey         = "web3formsKey"
	KeyCustomAPIEndpoint    = "customApiEndpoint"
)

type Store struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
}

var _ ports.SettingsStore = (*Store)(nil)

// Open loads the settings file at path, creating an empty store when the
// file does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// GetDefault returns the stored value or fallback when the key is absent.
func (s *Store) GetDefault(key, fallback string) string {
	if value, ok := s.Get(key); ok {
		return value
	}
	return fallback
}

// Set stores the value and writes the whole file through a temp-file rename.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flushLocked()
}

// SetAll applies several values in one write.
func (s *Store) SetAll(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range values {
		s.values[key] = value
	}
	return s.flushLocked()
}

// All returns a copy of every stored value.
func (s *Store) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for key, value := range s.values {
		out[key] = value
	}
	return out
}

func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
