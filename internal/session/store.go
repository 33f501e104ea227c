package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// storageKey names the single record in the backing file, mirroring the
// "user" key the browser client used in local storage.
const storageKey = "user"

// Store is the single module through which the session record is read and
// written. Consumers (gate, router, editors) never touch the backing
// storage directly; only the gate's terminate path and the login success
// path call Set/Clear.
type Store interface {
	// Get returns the persisted session, or nil when none exists.
	Get() (*Session, error)
	// Set replaces the persisted session.
	Set(s *Session) error
	// Clear removes the persisted session. Clearing an absent session is a
	// no-op.
	Clear() error
	// Subscribe registers fn to be called after every successful Set or
	// Clear, with the new session (nil after Clear).
	Subscribe(fn func(*Session))
}

// FileStore persists the session as a small JSON file, the desktop analog
// of browser local storage. Writes go through a temp file and rename so a
// crash never leaves a half-written record.
type FileStore struct {
	mu       sync.RWMutex
	path     string
	watchers []func(*Session)
}

// NewFileStore creates a file-backed store at path. The parent directory is
// created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the conventional session file location under the
// user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "taskhive", "session.json"), nil
}

func (f *FileStore) Get() (*Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var rec map[string]*Session
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return rec[storageKey], nil
}

func (f *FileStore) Set(s *Session) error {
	f.mu.Lock()
	b, err := json.MarshalIndent(map[string]*Session{storageKey: s}, "", "  ")
	if err != nil {
		f.mu.Unlock()
		return fmt.Errorf("encode session: %w", err)
	}
	if err := f.writeAtomic(b); err != nil {
		f.mu.Unlock()
		return err
	}
	watchers := f.watchers
	f.mu.Unlock()
	for _, fn := range watchers {
		fn(s)
	}
	return nil
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		f.mu.Unlock()
		return fmt.Errorf("remove session file: %w", err)
	}
	watchers := f.watchers
	f.mu.Unlock()
	for _, fn := range watchers {
		fn(nil)
	}
	return nil
}

func (f *FileStore) Subscribe(fn func(*Session)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watchers = append(f.watchers, fn)
}

func (f *FileStore) writeAtomic(b []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "session-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Chmod(name, 0o600); err != nil {
		os.Remove(name)
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := os.Rename(name, f.path); err != nil {
		os.Remove(name)
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// MemoryStore keeps the session in memory. Used by tests and by callers
// that must never persist credentials to disk.
type MemoryStore struct {
	mu       sync.RWMutex
	s        *Session
	watchers []func(*Session)
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Get() (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.s == nil {
		return nil, nil
	}
	cp := *m.s
	return &cp, nil
}

func (m *MemoryStore) Set(s *Session) error {
	m.mu.Lock()
	cp := *s
	m.s = &cp
	watchers := m.watchers
	m.mu.Unlock()
	for _, fn := range watchers {
		fn(s)
	}
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	m.s = nil
	watchers := m.watchers
	m.mu.Unlock()
	for _, fn := range watchers {
		fn(nil)
	}
	return nil
}

func (m *MemoryStore) Subscribe(fn func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchers = append(m.watchers, fn)
}
