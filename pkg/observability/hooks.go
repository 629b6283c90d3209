// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about collage builds, cache operations, and pan sessions.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCollageHooks(&myCollageHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Collage().OnSolveStart(ctx, sourceCount)
//	// ... run the solver ...
//	observability.Collage().OnSolveComplete(ctx, placed, dropped, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Collage Hooks
// =============================================================================

// CollageHooks receives events from the collage build pipeline.
type CollageHooks interface {
	// Scan events
	OnScanStart(ctx context.Context, root string)
	OnScanComplete(ctx context.Context, root string, photoCount int, duration time.Duration, err error)

	// Solve events
	OnSolveStart(ctx context.Context, sourceCount int)
	OnSolveComplete(ctx context.Context, placed, dropped int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from interactive pan sessions.
type SessionHooks interface {
	// OnSessionStart records a new session.
	OnSessionStart(ctx context.Context, sessionID string)

	// OnSessionEnd records a session closing after the given lifetime.
	OnSessionEnd(ctx context.Context, sessionID string, lifetime time.Duration)

	// OnFramePublished records a camera frame sent to a client.
	OnFramePublished(ctx context.Context, sessionID string, visibleTiles int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCollageHooks is a no-op implementation of CollageHooks.
type NoopCollageHooks struct{}

func (NoopCollageHooks) OnScanStart(context.Context, string)                                {}
func (NoopCollageHooks) OnScanComplete(context.Context, string, int, time.Duration, error)  {}
func (NoopCollageHooks) OnSolveStart(context.Context, int)                                  {}
func (NoopCollageHooks) OnSolveComplete(context.Context, int, int, time.Duration, error)    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnSessionStart(context.Context, string)                {}
func (NoopSessionHooks) OnSessionEnd(context.Context, string, time.Duration)   {}
func (NoopSessionHooks) OnFramePublished(context.Context, string, int)         {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	collageHooks CollageHooks = NoopCollageHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	sessionHooks SessionHooks = NoopSessionHooks{}
	hooksMu      sync.RWMutex
)

// SetCollageHooks registers custom collage hooks.
// This should be called once at application startup before any builds.
func SetCollageHooks(h CollageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		collageHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetSessionHooks registers custom session hooks.
// This should be called once at application startup before the server starts.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// Collage returns the registered collage hooks.
func Collage() CollageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return collageHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	collageHooks = NoopCollageHooks{}
	cacheHooks = NoopCacheHooks{}
	sessionHooks = NoopSessionHooks{}
}
