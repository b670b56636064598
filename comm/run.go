// SPDX-License-Identifier: MIT
// Package: sparsecg/comm

package comm

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RankFunc is the per-rank body executed by Run.
type RankFunc func(ctx context.Context, c Communicator) error

// Run launches size ranks on a fresh in-process Group and waits for all of
// them. The first rank to fail aborts the group, so peers blocked in a
// collective return instead of hanging. Run returns the first failure; abort
// errors caused by it are not reported separately.
func Run(ctx context.Context, size int, fn RankFunc) error {
	g, err := NewGroup(size)
	if err != nil {
		return err
	}
	return RunGroup(ctx, g, fn)
}

// RunGroup is Run on an existing group.
func RunGroup(ctx context.Context, g *Group, fn RankFunc) error {
	eg, egctx := errgroup.WithContext(ctx)
	errs := make([]error, g.size)
	for rank := 0; rank < g.size; rank++ {
		rank := rank
		c := g.Comm(rank)
		eg.Go(func() error {
			if err := fn(egctx, c); err != nil {
				errs[rank] = fmt.Errorf("rank %d: %w", rank, err)
				c.Abort(errs[rank])
				return errs[rank]
			}
			return nil
		})
	}
	first := eg.Wait()
	if first == nil {
		return nil
	}
	// Prefer a root cause over a rank that only observed the abort.
	for _, err := range errs {
		if err != nil && !errors.Is(err, ErrAborted) && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	return first
}
