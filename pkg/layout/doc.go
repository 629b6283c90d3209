// Package layout implements the Driftwall placement solver.
//
// The solver scatters variable-sized, aspect-ratio-preserving photo tiles
// inside a bounded square world. Placement is a randomized greedy search with
// bounded retries, not an exact packer: each item samples candidate positions
// until one satisfies the collision rules, shrinking the tile and finally
// falling back to a minimum size before giving up and dropping the item.
//
// # Collision rules
//
// Three rules govern every candidate position:
//
//   - The tile and its caption strip must stay clear of the center
//     exclusion zone reserved for the collage title.
//   - Caption strips are inviolable: no caption may intersect another
//     item's tile or caption, in either direction.
//   - Tile-on-tile overlap forms a matching: a tile may intersect at most
//     one other tile, that tile must not already have a partner, and the
//     intersection may cover at most a fixed fraction of either tile.
//
// # Determinism
//
// All randomness flows through a single PCG generator seeded from
// Options.Seed, so a fixed seed and a fixed ordered input list always
// produce an identical layout. There is no package-level random state.
//
// # Usage
//
//	sources := []layout.Source{{ID: "a.jpg", AspectRatio: 1.5}}
//	l, err := layout.Solve(sources, layout.Options{WorldSize: 8000, Seed: 42})
//	if err != nil {
//	    return err
//	}
//	for _, item := range l.Items {
//	    draw(item.Tile(), l.Caption(item))
//	}
package layout
