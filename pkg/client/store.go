package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Session is the client-held identity. It is an explicit value reloaded
// from the store on demand, never ambient package state.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// Active reports whether the session carries a token.
func (s Session) Active() bool { return s.Token != "" }

// TokenStore persists the session between runs. A missing session loads as
// the zero value, not an error; errors mean the store itself failed.
type TokenStore interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// FileStore keeps the session as a JSON file with owner-only permissions.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// DefaultSessionPath returns the conventional session location under the
// user config directory.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "careview", "session.json"), nil
}

func (f *FileStore) Load() (Session, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, nil
		}
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (f *FileStore) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, b, 0o600)
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemoryStore holds the session in memory only. Used directly in tests and
// as the fallback when the file store is unavailable.
type MemoryStore struct {
	mu sync.Mutex
	s  Session
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, nil
}

func (m *MemoryStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = Session{}
	return nil
}

// FallbackStore wraps a primary store and transparently falls back to a
// secondary one when the primary fails, so a read-only config directory
// still leaves the client usable for the lifetime of the process.
type FallbackStore struct {
	Primary   TokenStore
	Secondary TokenStore
}

func NewFallbackStore(primary, secondary TokenStore) *FallbackStore {
	return &FallbackStore{Primary: primary, Secondary: secondary}
}

func (f *FallbackStore) Load() (Session, error) {
	s, err := f.Primary.Load()
	if err != nil {
		return f.Secondary.Load()
	}
	return s, nil
}

func (f *FallbackStore) Save(s Session) error {
	if err := f.Primary.Save(s); err != nil {
		return f.Secondary.Save(s)
	}
	return nil
}

func (f *FallbackStore) Clear() error {
	err := f.Primary.Clear()
	if serr := f.Secondary.Clear(); err == nil {
		err = serr
	}
	return err
}

var (
	_ TokenStore = (*FileStore)(nil)
	_ TokenStore = (*MemoryStore)(nil)
	_ TokenStore = (*FallbackStore)(nil)
)
