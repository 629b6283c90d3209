// Package cache provides the layout cache used by the CLI and the server.
//
// Solving a large collage is the expensive step of the pipeline, so solved
// layouts are cached keyed by a content hash of the ordered photo inventory
// plus the solver options. Three backends implement the Cache interface:
//
//   - FileCache: directory-based storage for CLI usage
//   - RedisCache: shared storage for multi-instance server deployments
//   - NullCache: disabled caching for tests and --no-cache
package cache

import (
	"context"
	"time"
)

// Default TTLs per key class.
const (
	// DefaultInventoryTTL bounds how long a scanned photo inventory is
	// reused before the directory is re-walked.
	DefaultInventoryTTL = 10 * time.Minute

	// DefaultLayoutTTL applies to solved layouts, which are pure functions
	// of their key and can live long.
	DefaultLayoutTTL = 7 * 24 * time.Hour
)

// Cache is the interface all storage backends implement. Implementations
// must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys. Splitting this from Cache lets deployments
// prefix keys (for example per photo root) without touching storage.
type Keyer interface {
	// InventoryKey identifies a scanned photo inventory.
	InventoryKey(root, filterDir string) string

	// LayoutKey identifies a solved layout by inventory content hash and
	// serialized solver options.
	LayoutKey(inventoryHash string, opts any) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// InventoryKey generates a key for inventory caching.
func (k *DefaultKeyer) InventoryKey(root, filterDir string) string {
	return hashKey("inventory", root, filterDir)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(inventoryHash string, opts any) string {
	return hashKey("layout", inventoryHash, opts)
}

// ScopedKeyer prepends a fixed prefix to every key, isolating one photo
// root (or one deployment) from another in a shared Redis.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer falls
// back to the default.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// InventoryKey generates a prefixed inventory key.
func (k *ScopedKeyer) InventoryKey(root, filterDir string) string {
	return k.prefix + k.inner.InventoryKey(root, filterDir)
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(inventoryHash string, opts any) string {
	return k.prefix + k.inner.LayoutKey(inventoryHash, opts)
}
