package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
)

// Cache stores a built inventory on disk so repeated lookups within the
// TTL skip the API entirely.
type Cache struct {
	// Path is the cache file location.
	Path string
	// TTL is how long a stored inventory stays fresh. Zero disables the
	// cache.
	TTL time.Duration
}

// cacheEnvelope wraps the inventory with its build time.
type cacheEnvelope struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Inventory   *Inventory `json:"inventory"`
}

// Load returns the cached inventory when it exists and is still fresh.
// A missing, expired or unreadable cache returns (nil, false).
func (c *Cache) Load() (*Inventory, bool) {
	if c == nil || c.Path == "" || c.TTL <= 0 {
		return nil, false
	}
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, false
	}
	var envelope cacheEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Inventory == nil {
		return nil, false
	}
	if time.Since(envelope.GeneratedAt) > c.TTL {
		return nil, false
	}
	return envelope.Inventory, true
}

// Store writes the inventory atomically, so a concurrent reader never
// sees a partial file.
func (c *Cache) Store(inv *Inventory) error {
	if c == nil || c.Path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	data, err := json.Marshal(cacheEnvelope{GeneratedAt: time.Now(), Inventory: inv})
	if err != nil {
		return fmt.Errorf("failed to encode inventory cache: %w", err)
	}
	if err := renameio.WriteFile(c.Path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write inventory cache: %w", err)
	}
	return nil
}

// Invalidate removes the cache file. A missing file is not an error.
func (c *Cache) Invalidate() error {
	if c == nil || c.Path == "" {
		return nil
	}
	if err := os.Remove(c.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove inventory cache: %w", err)
	}
	return nil
}
