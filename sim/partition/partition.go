// Package partition runs lattice sweeps over disjoint row bands in parallel.
//
// A step is split into two barriers: every band collides, then every band
// streams, then the buffers are swapped once. Collision only writes the
// cells it owns. Streaming writes each next-buffer entry (cell, k) from
// exactly one source cell: the upstream neighbour, or the cell itself when
// direction Opposite(k) leaves the grid. Bands therefore never race.
package partition

import (
	"context"
	"fmt"

	"github.com/lbm-sim/lbm-sim/sim"
	"golang.org/x/sync/errgroup"
)

// Rows splits an ni x nj grid into at most parts contiguous i-bands of
// near-equal height. Returns nil for an empty grid.
func Rows(ni, nj, parts int) []sim.Region {
	if ni <= 0 || nj <= 0 {
		return nil
	}
	parts = max(1, min(parts, ni))
	bands := make([]sim.Region, 0, parts)
	base, extra := ni/parts, ni%parts
	bi := 0
	for p := 0; p < parts; p++ {
		height := base
		if p < extra {
			height++
		}
		bands = append(bands, sim.Region{BI: bi, EI: bi + height - 1, BJ: 0, EJ: nj - 1})
		bi += height
	}
	return bands
}

// Runner advances a lattice with one goroutine per band.
type Runner struct {
	bands []sim.Region
}

// NewRunner creates a runner for an ni x nj lattice split across workers bands.
func NewRunner(ni, nj, workers int) (*Runner, error) {
	if workers < 1 {
		return nil, fmt.Errorf("workers must be >= 1, got %d", workers)
	}
	return &Runner{bands: Rows(ni, nj, workers)}, nil
}

// Bands returns the regions each worker owns.
func (r *Runner) Bands() []sim.Region { return r.bands }

// Step performs one collide, stream, swap cycle. The context is checked at
// each barrier; a cancelled step leaves the buffers unswapped.
func (r *Runner) Step(ctx context.Context, lat *sim.Lattice, mmap sim.MultiscaleMap, cman sim.CollisionManager) error {
	if err := r.phase(ctx, func(b sim.Region) { lat.CollideAndBoundRegion(mmap, cman, b) }); err != nil {
		return fmt.Errorf("collision phase: %w", err)
	}
	if err := r.phase(ctx, func(b sim.Region) { lat.StreamRegion(b) }); err != nil {
		return fmt.Errorf("streaming phase: %w", err)
	}
	lat.SwapBuffers()
	return nil
}

// phase runs sweep on every band and waits for all of them.
func (r *Runner) phase(ctx context.Context, sweep func(sim.Region)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, b := range r.bands {
		b := b
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sweep(b)
			return nil
		})
	}
	return g.Wait()
}
