// pbkdf2-identifier-go: PBKDF2 parameter identification
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pbkdf2 provides an incremental PBKDF2 computation that advances one
// iteration at a time, exposing the derived block after every iteration.
//
// https://datatracker.ietf.org/doc/html/rfc8018#section-5.2
//
// Only the first output block (block index 1) is computed. Producing the
// derived key for n iterations costs exactly n PRF calls no matter how many
// intermediate results were inspected on the way.
package pbkdf2

import (
	"crypto/hmac"
	"hash"

	"github.com/dark-bio/pbkdf2-identifier-go/prf"
)

// Stepper holds the running state of a single-block PBKDF2 computation.
//
// After k calls to Advance, u holds U_k and t holds T_k = U_1 ^ ... ^ U_k.
type Stepper struct {
	keyed func() hash.Hash // Constructor of the keyed HMAC, used by Clone
	prf   hash.Hash        // Keyed HMAC, reset for every block
	salt  []byte           // Salt value used in the first iteration
	u     []byte           // Last PRF output
	t     []byte           // XOR accumulator, the derived block
	iters int              // Iterations performed so far
}

// New creates a stepper for the given primitive, password and salt, at zero
// iterations. Neither the password nor the salt is retained by reference.
//
// Panics if the primitive is not valid.
func New(p prf.Primitive, password, salt []byte) *Stepper {
	h := p.Hash()
	return NewWithHash(h, password, salt)
}

// NewWithHash creates a stepper using HMAC over an arbitrary digest.
func NewWithHash(h func() hash.Hash, password, salt []byte) *Stepper {
	key := append([]byte(nil), password...)
	keyed := func() hash.Hash { return hmac.New(h, key) }
	return &Stepper{
		keyed: keyed,
		prf:   keyed(),
		salt:  append([]byte(nil), salt...),
	}
}

// Advance runs exactly one more iteration and returns the new iteration count
// together with the derived block for that count.
//
// The returned slice aliases the stepper's state and is only valid until the
// next call to Advance. Use Sum for a copy that outlives it.
func (s *Stepper) Advance() (int, []byte) {
	mac := s.prf
	mac.Reset()

	if s.iters == 0 {
		// U_1 = PRF(P, S || INT(1))
		mac.Write(s.salt)
		mac.Write([]byte{0, 0, 0, 1})

		s.u = mac.Sum(make([]byte, 0, mac.Size()))
		s.t = append(make([]byte, 0, len(s.u)), s.u...)
		s.iters = 1
		return s.iters, s.t
	}
	// U_k+1 = PRF(P, U_k), T_k+1 = T_k ^ U_k+1
	mac.Write(s.u)
	s.u = mac.Sum(s.u[:0])
	for i, v := range s.u {
		s.t[i] ^= v
	}
	s.iters++
	return s.iters, s.t
}

// Iterations returns the number of iterations performed so far.
func (s *Stepper) Iterations() int {
	return s.iters
}

// Size returns the length of the derived block.
func (s *Stepper) Size() int {
	return s.prf.Size()
}

// Sum returns a copy of the current derived block, or nil if the stepper has
// not been advanced yet.
func (s *Stepper) Sum() []byte {
	if s.iters == 0 {
		return nil
	}
	return append([]byte(nil), s.t...)
}

// Clone returns an independent copy of the stepper. Advancing either one does
// not affect the other.
func (s *Stepper) Clone() *Stepper {
	c := &Stepper{
		keyed: s.keyed,
		prf:   s.keyed(),
		salt:  s.salt,
		iters: s.iters,
	}
	if s.iters > 0 {
		c.u = append(make([]byte, 0, cap(s.u)), s.u...)
		c.t = append(make([]byte, 0, cap(s.t)), s.t...)
	}
	return c
}
