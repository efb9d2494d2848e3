// Package filecache remembers files that were already in sync so an
// unchanged file can be skipped on the next run.
package filecache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Sumatoshi-tech/initall/pkg/persist"
)

const (
	appDir          = "initall"
	fingerprintSize = 8
)

type state struct {
	Files map[string]string `json:"files"`
}

// Cache maps absolute file paths to the hash of the content last seen in
// sync. It is safe for concurrent use.
type Cache struct {
	store *persist.Store[state]
	files map[string]string
	mu    sync.Mutex
	dirty bool
}

// DefaultDir is the per-user cache directory.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache dir: %w", err)
	}

	return filepath.Join(base, appDir), nil
}

// Fingerprint condenses the settings that affect formatting into a short
// key, so runs with different settings keep separate caches.
func Fingerprint(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))

	return hex.EncodeToString(sum[:fingerprintSize])
}

// Open loads the cache for fingerprint from dir. A cache that cannot be read
// is returned empty together with the read error.
func Open(dir, fingerprint string) (*Cache, error) {
	c := &Cache{
		store: persist.NewStore[state](dir, "cache."+fingerprint, persist.JSONCodec{}),
		files: make(map[string]string),
	}

	loaded, found, err := c.store.Load()
	if err != nil {
		return c, err
	}

	if found && loaded.Files != nil {
		c.files = loaded.Files
	}

	return c, nil
}

// Fresh reports whether content is exactly what path held when it was last
// remembered.
func (c *Cache) Fresh(path string, content []byte) bool {
	key, ok := cacheKey(path)
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	hash, ok := c.files[key]

	return ok && hash == contentHash(content)
}

// Remember records content as in sync for path.
func (c *Cache) Remember(path string, content []byte) {
	key, ok := cacheKey(path)
	if !ok {
		return
	}

	hash := contentHash(content)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.files[key] != hash {
		c.files[key] = hash
		c.dirty = true
	}
}

// Len is the number of remembered files.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.files)
}

// Save persists the cache if anything changed since Open.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}

	err := c.store.Save(state{Files: c.files})
	if err != nil {
		return fmt.Errorf("save cache: %w", err)
	}

	c.dirty = false

	return nil
}

func cacheKey(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	return abs, true
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)

	return hex.EncodeToString(sum[:])
}
