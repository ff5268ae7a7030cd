// pbkdf2-identifier-go: PBKDF2 parameter identification
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package identify recovers the PRF primitive and iteration count of a PBKDF2
// derivation from the password, the salt and the derived output.
//
// Instead of recomputing PBKDF2 from scratch for every candidate iteration
// count, a single incremental computation is kept per candidate primitive and
// checked against the target after every iteration. Searching n iterations
// over k primitives costs n*k PRF calls.
//
// The target is compared over its first min(len(target), digest size) bytes,
// so a multi-block derived key matches on its first block and a truncated
// hash matches on its prefix. An empty target never matches.
package identify

import (
	"bytes"
	"slices"

	"github.com/dark-bio/pbkdf2-identifier-go/pbkdf2"
	"github.com/dark-bio/pbkdf2-identifier-go/prf"
)

// DefaultMaxIterations is the search bound used when the caller does not
// supply a positive one.
const DefaultMaxIterations = 1_000_000

// Result is the outcome of a search. If nothing matched within the bound,
// Iterations is zero and Bound holds the number of iterations searched.
type Result struct {
	Primitive  prf.Primitive // Matched primitive, meaningless if not found
	Iterations int           // Matched iteration count, 0 if not found
	Bound      int           // Iteration bound the search ran under
}

// Found reports whether the search matched.
func (r Result) Found() bool {
	return r.Iterations > 0
}

// candidate is a primitive under search together with its running PBKDF2.
type candidate struct {
	prim prf.Primitive
	step *pbkdf2.Stepper
}

// Iterations searches for the iteration count of a derivation with a known
// primitive, up to DefaultMaxIterations. It returns false if no iteration
// count within the bound produces the target.
//
// Panics if the primitive is not valid.
func Iterations(password, target, salt []byte, p prf.Primitive) (int, bool) {
	return IterationsWithin(password, target, salt, p, DefaultMaxIterations)
}

// IterationsWithin is like Iterations, but searches at most maxIters
// iterations. A non-positive maxIters selects DefaultMaxIterations.
//
// Panics if the primitive is not valid.
func IterationsWithin(password, target, salt []byte, p prf.Primitive, maxIters int) (int, bool) {
	res := Primitives(password, target, salt, maxIters, p)
	return res.Iterations, res.Found()
}

// All searches every supported primitive in lockstep for up to maxIters
// iterations. A non-positive maxIters selects DefaultMaxIterations. If several
// primitives match at the same iteration count, the first one in prf.Primitives
// order wins.
func All(password, target, salt []byte, maxIters int) Result {
	return Primitives(password, target, salt, maxIters, prf.Primitives()...)
}

// Primitives is like All, but restricted to the given primitives. Duplicates
// are ignored and ties are still broken by prf.Primitives order, regardless of
// the order the primitives are passed in.
//
// Panics if any of the primitives is not valid.
func Primitives(password, target, salt []byte, maxIters int, ps ...prf.Primitive) Result {
	return lockstep(candidates(password, salt, ps), target, bound(maxIters))
}

// bound normalizes a caller supplied iteration limit.
func bound(maxIters int) int {
	if maxIters <= 0 {
		return DefaultMaxIterations
	}
	return maxIters
}

// candidates validates the requested primitives and creates one stepper per
// distinct primitive, in canonical order. All primitives are validated before
// any stepper is created.
func candidates(password, salt []byte, ps []prf.Primitive) []candidate {
	ps = slices.Clone(ps)
	for _, p := range ps {
		if !p.Valid() {
			panic("identify: invalid primitive " + p.Name())
		}
	}
	slices.Sort(ps)
	ps = slices.Compact(ps)

	cands := make([]candidate, len(ps))
	for i, p := range ps {
		cands[i] = candidate{prim: p, step: pbkdf2.New(p, password, salt)}
	}
	return cands
}

// lockstep advances every candidate by one iteration per round and stops at
// the first round with a match, reporting the lowest ordered primitive that
// matched in it.
func lockstep(cands []candidate, target []byte, bound int) Result {
	res := Result{Bound: bound}
	if len(target) == 0 || len(cands) == 0 {
		return res
	}
	for round := 1; round <= bound; round++ {
		for _, c := range cands {
			_, block := c.step.Advance()
			if !matches(block, target) {
				continue
			}
			if !res.Found() || c.prim < res.Primitive {
				res.Primitive, res.Iterations = c.prim, round
			}
		}
		if res.Found() {
			return res
		}
	}
	return res
}

// matches compares a derived block against the target over their common
// length.
func matches(block, target []byte) bool {
	n := min(len(block), len(target))
	return n > 0 && bytes.Equal(block[:n], target[:n])
}
