package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Collage hooks
	p := NoopCollageHooks{}
	p.OnScanStart(ctx, "/photos")
	p.OnScanComplete(ctx, "/photos", 340, time.Second, nil)
	p.OnSolveStart(ctx, 340)
	p.OnSolveComplete(ctx, 335, 5, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "inventory")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "layout", 1024)

	// Session hooks
	s := NoopSessionHooks{}
	s.OnSessionStart(ctx, "session-1")
	s.OnFramePublished(ctx, "session-1", 12)
	s.OnSessionEnd(ctx, "session-1", time.Minute)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Collage().(NoopCollageHooks); !ok {
		t.Error("Collage() should return NoopCollageHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Session().(NoopSessionHooks); !ok {
		t.Error("Session() should return NoopSessionHooks by default")
	}

	// Set custom hooks
	customCollage := &testCollageHooks{}
	SetCollageHooks(customCollage)
	if Collage() != customCollage {
		t.Error("SetCollageHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customSession := &testSessionHooks{}
	SetSessionHooks(customSession)
	if Session() != customSession {
		t.Error("SetSessionHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Collage().(NoopCollageHooks); !ok {
		t.Error("Reset() should restore NoopCollageHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testCollageHooks{}
	SetCollageHooks(custom)

	// Setting nil should be ignored
	SetCollageHooks(nil)

	if Collage() != custom {
		t.Error("SetCollageHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testCollageHooks struct{ NoopCollageHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testSessionHooks struct{ NoopSessionHooks }
