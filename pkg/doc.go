// Package pkg provides the core libraries for Driftwall photo collages.
//
// # Overview
//
// Driftwall turns a photo directory into a procedural collage on a square
// wrap-around canvas that can be panned endlessly in any direction. The pkg
// directory is organized into four main areas:
//
//  1. [layout] - The placement solver (constrained randomized search)
//  2. [world], [camera], [cull], [engine] - The navigation runtime
//  3. [inventory], [collage] - Scanning and pipeline orchestration
//  4. [cache], [errors], [observability], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow through Driftwall:
//
//	Photo Directory
//	         ↓
//	    [inventory] package (scan files, read dimensions)
//	         ↓
//	    [layout] package (place every photo on the torus)
//	         ↓
//	    [engine] package (camera + culling per view)
//	         ↓
//	    HTTP/websocket server, TUI, or PNG output
//
// # Quick Start
//
// Scan a directory and solve a layout:
//
//	import (
//	    "context"
//	    "github.com/driftwall/driftwall/pkg/collage"
//	)
//
//	runner := collage.NewRunner(nil, nil, nil)
//	result, err := runner.Build(context.Background(), collage.Options{
//	    Dir:  "/photos",
//	    Seed: 7,
//	})
//
// Drive a view over the result:
//
//	eng := engine.New(result.Layout, 1440, 900)
//	eng.PointerDown(t0, x, y)
//	eng.PointerMove(t1, x2, y2)
//	eng.PointerUp(t2, x2, y2)
//	frame := eng.Step(t3)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [layout] - The placement solver. Photos are grouped into size tiers,
// placed by rejection sampling with a ring bias around the center exclusion
// zone, and shrunk or dropped when the world is too dense. Layouts are
// deterministic per seed.
//
// [world] - Toroidal coordinate math: wrapping, shortest deltas, the 3x3
// tile offsets, and the viewport-derived render scale.
//
// [camera] - The frame-rate-independent motion controller: dragging,
// inertial glide, scripted recentering, and tap detection.
//
// [cull] - Pure viewport culling over the nine world copies, plus hit
// testing for tap selection.
//
// [engine] - Composes layout, camera, and cull into one per-view tick loop.
//
// ## Scanning and Orchestration
//
// [inventory] - Directory walking and image metadata (dimensions, EXIF
// orientation) in deterministic wall order.
//
// [collage] - The scan → solve pipeline with caching, used by the CLI and
// the server.
//
// ## Infrastructure
//
// [cache] - Layout and inventory caching with file, Redis, and null
// backends.
//
// [errors] - Structured error codes and user-facing messages.
//
// [observability] - Optional hooks for metrics and tracing without hard
// backend dependencies.
//
// [buildinfo] - Version information injected via ldflags.
package pkg
