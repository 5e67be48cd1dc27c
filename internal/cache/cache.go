// Package cache persists extracted unit models between runs, keyed by
// source path and validated by content hash.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"

	"github.com/corvidae/augur/pkg/syntax"
)

// Cache is a directory of JSON entries. A disabled cache is a no-op, so
// callers never branch on --no-cache themselves.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

// Entry wraps one cached unit model. The hash binds the entry to exact
// source bytes; any edit invalidates it.
type Entry struct {
	Hash      string      `json:"hash"`
	Timestamp time.Time   `json:"timestamp"`
	Unit      syntax.Unit `json:"unit"`
}

// New opens (creating if needed) the cache directory. enabled=false
// returns an inert cache and touches nothing on disk.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

// Enabled reports whether the cache persists anything.
func (c *Cache) Enabled() bool { return c.enabled }

// HashBytes returns the BLAKE3 hex digest of data.
func HashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile returns the BLAKE3 hex digest of a file's contents.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}

// GetUnit returns the cached unit model for path when the stored content
// hash matches and the entry is within TTL. Stale entries are removed.
func (c *Cache) GetUnit(path, hash string) (*syntax.Unit, bool) {
	if !c.enabled {
		return nil, false
	}

	entryPath := c.keyPath(path)
	data, err := os.ReadFile(entryPath)
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		os.Remove(entryPath)
		return nil, false
	}
	if entry.Hash != hash {
		return nil, false
	}
	if time.Since(entry.Timestamp) > c.ttl {
		os.Remove(entryPath)
		return nil, false
	}

	return &entry.Unit, true
}

// SetUnit stores the unit model for path under the given content hash.
func (c *Cache) SetUnit(path, hash string, unit *syntax.Unit) error {
	if !c.enabled {
		return nil
	}

	entry := Entry{
		Hash:      hash,
		Timestamp: time.Now(),
		Unit:      *unit,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(path), data, 0o600)
}

// Invalidate removes the entry for path, if any.
func (c *Cache) Invalidate(path string) error {
	if !c.enabled {
		return nil
	}
	err := os.Remove(c.keyPath(path))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes the whole cache directory.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// keyPath hashes the source path into a filename, so arbitrary paths never
// leak into the cache directory layout.
func (c *Cache) keyPath(path string) string {
	sum := blake3.Sum256([]byte(path))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}
