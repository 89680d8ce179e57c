package client

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store persists the admin password between runs.
type Store interface {
	Load() (string, error)
	Save(password string) error
	Clear() error
}

// FileStore keeps the password in a single owner-only file.
type FileStore struct {
	Path string
}

func (f FileStore) Load() (string, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func (f FileStore) Save(password string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.Path, []byte(password+"\n"), 0o600)
}

func (f FileStore) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Session holds the admin password used as the bearer credential. A nil
// store keeps it in memory only.
type Session struct {
	mu       sync.RWMutex
	password string
	store    Store
}

func NewSession(store Store) (*Session, error) {
	s := &Session{store: store}
	if store != nil {
		pw, err := store.Load()
		if err != nil {
			return nil, err
		}
		s.password = pw
	}
	return s, nil
}

func (s *Session) Password() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.password
}

func (s *Session) Set(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.password = password
	if s.store != nil {
		return s.store.Save(password)
	}
	return nil
}

// Clear forgets the password, typically after the server rejected it.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.password = ""
	if s.store != nil {
		return s.store.Clear()
	}
	return nil
}
