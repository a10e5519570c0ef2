package config

import (
	"context"
	"sync"

	"sitescrape-go/pkg/backend"
)

// Store is the key/value view of the config file used by the workflow and the
// options surface. Reads and writes are serialised.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store bound to the config file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStore returns a store bound to ~/.config/sitescrape/config.toml.
func DefaultStore() (*Store, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return NewStore(path), nil
}

// Path returns the config file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the whole config, falling back to defaults.
func (s *Store) Load() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadFile(s.path)
}

// Save writes the whole config.
func (s *Store) Save(cfg *Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveFile(s.path, cfg)
}

// Backend returns the configured backend base URL, or the default when unset.
func (s *Store) Backend(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cfg, err := s.Load()
	if err != nil {
		return "", err
	}
	return cfg.Backend, nil
}

// SaveBackend normalizes raw and persists it. An input that normalizes to the
// empty string is ignored: saved is false and err is nil.
func (s *Store) SaveBackend(ctx context.Context, raw string) (normalized string, saved bool, err error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	normalized = backend.NormalizeBaseURL(raw)
	if normalized == "" {
		return "", false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := loadFile(s.path)
	if err != nil {
		return "", false, err
	}
	cfg.Backend = normalized
	if err := saveFile(s.path, cfg); err != nil {
		return "", false, err
	}
	return normalized, true, nil
}
