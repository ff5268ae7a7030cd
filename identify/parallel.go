// pbkdf2-identifier-go: PBKDF2 parameter identification
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package identify

import (
	"context"
	"sync/atomic"

	"github.com/dark-bio/pbkdf2-identifier-go/prf"
	"golang.org/x/sync/errgroup"
)

// cancelCheckInterval is the number of iterations a worker runs between two
// context cancellation checks.
const cancelCheckInterval = 1024

// AllParallel is like All, but advances each primitive on its own goroutine.
// The result is identical to that of All. The context is only consulted for
// cancellation, in which case its error is returned.
func AllParallel(ctx context.Context, password, target, salt []byte, maxIters int) (Result, error) {
	return PrimitivesParallel(ctx, password, target, salt, maxIters, prf.Primitives()...)
}

// PrimitivesParallel is like Primitives, but advances each primitive on its
// own goroutine. Workers stop as soon as they pass the earliest match found
// by any of them.
//
// Panics if any of the primitives is not valid.
func PrimitivesParallel(ctx context.Context, password, target, salt []byte, maxIters int, ps ...prf.Primitive) (Result, error) {
	return parallel(ctx, candidates(password, salt, ps), target, bound(maxIters))
}

// parallel runs every candidate on a separate goroutine up to the bound. The
// shared best holds the lowest matching iteration seen so far; a worker gives
// up once its next iteration would exceed it. The reduction picks the lowest
// iteration, then the lowest ordered primitive, which is what lockstep reports.
func parallel(ctx context.Context, cands []candidate, target []byte, bound int) (Result, error) {
	res := Result{Bound: bound}
	if len(target) == 0 || len(cands) == 0 {
		return res, nil
	}
	var best atomic.Int64
	best.Store(int64(bound))

	hits := make([]int, len(cands))
	g, ctx := errgroup.WithContext(ctx)

	for i, c := range cands {
		i, c := i, c
		g.Go(func() error {
			for int64(c.step.Iterations()) < best.Load() {
				n, block := c.step.Advance()
				if matches(block, target) {
					hits[i] = n
					lower(&best, int64(n))
					return nil
				}
				if n%cancelCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	for i, c := range cands {
		n := hits[i]
		if n == 0 {
			continue
		}
		if !res.Found() || n < res.Iterations || (n == res.Iterations && c.prim < res.Primitive) {
			res.Primitive, res.Iterations = c.prim, n
		}
	}
	return res, nil
}

// lower atomically replaces the value of v with n if n is smaller.
func lower(v *atomic.Int64, n int64) {
	for {
		cur := v.Load()
		if n >= cur || v.CompareAndSwap(cur, n) {
			return
		}
	}
}
