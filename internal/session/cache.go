package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Cache is the durable store of the session. Load returns nil when no session is stored.
type Cache interface {
	Load() (*SessionUser, error)
	Save(u *SessionUser) error
	Clear() error
}

// FileCache stores the session as YAML readable only by the owner.
type FileCache struct {
	path string
}

func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

func (c *FileCache) Path() string { return c.path }

func (c *FileCache) Load() (*SessionUser, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var u SessionUser
	if err := yaml.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode session file %s: %w", c.path, err)
	}
	if u.ID == "" {
		return nil, nil
	}
	return &u, nil
}

func (c *FileCache) Save(u *SessionUser) error {
	if u == nil {
		return c.Clear()
	}
	data, err := yaml.Marshal(u)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

func (c *FileCache) Clear() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// MemoryCache keeps the session for the life of the process.
type MemoryCache struct {
	mu sync.Mutex
	u  *SessionUser
}

func (c *MemoryCache) Load() (*SessionUser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.u == nil {
		return nil, nil
	}
	u := *c.u
	return &u, nil
}

func (c *MemoryCache) Save(u *SessionUser) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if u == nil {
		c.u = nil
		return nil
	}
	cp := *u
	c.u = &cp
	return nil
}

func (c *MemoryCache) Clear() error {
	return c.Save(nil)
}
