package fetch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Cache is a content-addressed disk cache for fetched documents. One file per
// document, named by the first 32 hex characters of the SHA-256 of the source
// URL. Writes are best-effort and idempotent: the same URL always maps to the
// same key, and an overwrite from a retry is harmless since published content
// is assumed immutable.
type Cache struct {
	dir string
}

// NewCache creates the cache directory if needed and returns a cache rooted
// at dir.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Key returns the cache file name for a URL.
func (c *Cache) Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:32]
}

// Get returns the cached document for url, if present.
func (c *Cache) Get(url string) ([]byte, bool) {
	data, err := os.ReadFile(filepath.Join(c.dir, c.Key(url)))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores a fetched document. No locking: concurrent writers racing on the
// same key write identical content.
func (c *Cache) Put(url string, body []byte) error {
	return os.WriteFile(filepath.Join(c.dir, c.Key(url)), body, 0o644)
}
