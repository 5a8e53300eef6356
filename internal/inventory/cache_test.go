package inventory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInventory() *Inventory {
	return &Inventory{
		Hostvars: map[string]Hostvars{
			"web-1": {VMID: 100, Name: "web-1", Node: "pve1", Type: "qemu", Status: "running"},
		},
		Groups: map[string][]string{
			"proxmox_all_qemu": {"web-1"},
		},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache := &Cache{Path: filepath.Join(t.TempDir(), "inventory.json"), TTL: time.Minute}

	_, ok := cache.Load()
	assert.False(t, ok, "empty cache must miss")

	require.NoError(t, cache.Store(testInventory()))

	loaded, ok := cache.Load()
	require.True(t, ok)
	assert.Equal(t, testInventory(), loaded)
}

func TestCacheExpires(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	cache := &Cache{Path: path, TTL: time.Minute}
	require.NoError(t, cache.Store(testInventory()))

	// Rewrite the envelope with a stale timestamp.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var envelope cacheEnvelope
	require.NoError(t, json.Unmarshal(data, &envelope))
	envelope.GeneratedAt = time.Now().Add(-2 * time.Minute)
	data, err = json.Marshal(envelope)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, ok := cache.Load()
	assert.False(t, ok, "expired cache must miss")
}

func TestCacheZeroTTLDisables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	cache := &Cache{Path: path, TTL: time.Minute}
	require.NoError(t, cache.Store(testInventory()))

	disabled := &Cache{Path: path}
	_, ok := disabled.Load()
	assert.False(t, ok)
}

func TestCacheCorruptFileMisses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	cache := &Cache{Path: path, TTL: time.Minute}
	_, ok := cache.Load()
	assert.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	cache := &Cache{Path: path, TTL: time.Minute}
	require.NoError(t, cache.Store(testInventory()))

	require.NoError(t, cache.Invalidate())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Invalidating again is a no-op.
	require.NoError(t, cache.Invalidate())
}

func TestCacheCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "inventory.json")
	cache := &Cache{Path: path, TTL: time.Minute}
	require.NoError(t, cache.Store(testInventory()))

	_, ok := cache.Load()
	assert.True(t, ok)
}
