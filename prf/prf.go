// pbkdf2-identifier-go: PBKDF2 parameter identification
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package prf provides the closed set of keyed pseudorandom functions that
// PBKDF2 can be instantiated with, and a uniform way to compute one PRF block.
//
// https://datatracker.ietf.org/doc/html/rfc8018#section-5.2
package prf

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Primitive identifies the HMAC construction underlying a PBKDF2 derivation.
//
// The declaration order is significant: when several primitives match at the
// same iteration count, the one declared first is reported.
type Primitive uint8

// Supported primitives, in tie-break order.
const (
	HMACSHA1 Primitive = iota
	HMACSHA224
	HMACSHA256
	HMACSHA384
	HMACSHA512
	HMACSHA3_256
	HMACSHA3_512

	numPrimitives = iota
)

// ErrUnknownPrimitive is returned when a primitive name cannot be parsed.
var ErrUnknownPrimitive = errors.New("prf: unknown primitive")

// entry describes one row of the primitive table.
type entry struct {
	name   string
	digest string
	size   int
	hash   func() hash.Hash
}

var table = [numPrimitives]entry{
	HMACSHA1:     {name: "HMAC-SHA1", digest: "SHA1", size: sha1.Size, hash: sha1.New},
	HMACSHA224:   {name: "HMAC-SHA224", digest: "SHA224", size: sha256.Size224, hash: sha256.New224},
	HMACSHA256:   {name: "HMAC-SHA256", digest: "SHA256", size: sha256.Size, hash: sha256.New},
	HMACSHA384:   {name: "HMAC-SHA384", digest: "SHA384", size: sha512.Size384, hash: sha512.New384},
	HMACSHA512:   {name: "HMAC-SHA512", digest: "SHA512", size: sha512.Size, hash: sha512.New},
	HMACSHA3_256: {name: "HMAC-SHA3-256", digest: "SHA3-256", size: 32, hash: sha3.New256},
	HMACSHA3_512: {name: "HMAC-SHA3-512", digest: "SHA3-512", size: 64, hash: sha3.New512},
}

// Primitives returns every supported primitive in declaration order.
func Primitives() []Primitive {
	ps := make([]Primitive, numPrimitives)
	for i := range ps {
		ps[i] = Primitive(i)
	}
	return ps
}

// Valid reports whether p is a member of the closed primitive set.
func (p Primitive) Valid() bool {
	return p < numPrimitives
}

// Name returns the human readable name of the primitive, e.g. "HMAC-SHA256".
func (p Primitive) Name() string {
	if !p.Valid() {
		return "Primitive(" + strconv.Itoa(int(p)) + ")"
	}
	return table[p].name
}

// String implements fmt.Stringer.
func (p Primitive) String() string {
	return p.Name()
}

// Size returns the output length of one PRF block in bytes.
func (p Primitive) Size() int {
	return p.row().size
}

// Hash returns the constructor of the digest underlying the HMAC.
func (p Primitive) Hash() func() hash.Hash {
	return p.row().hash
}

func (p Primitive) row() *entry {
	if !p.Valid() {
		panic(fmt.Sprintf("prf: invalid primitive %d", uint8(p)))
	}
	return &table[p]
}

// Parse looks up a primitive by name. Matching is case-insensitive and accepts
// both the HMAC form ("HMAC-SHA256") and the bare digest ("sha256", "SHA3-256").
func Parse(name string) (Primitive, error) {
	norm := strings.ToUpper(strings.TrimSpace(name))
	norm = strings.TrimPrefix(norm, "HMAC-")
	norm = strings.TrimPrefix(norm, "HMAC")
	norm = strings.ReplaceAll(norm, "_", "-")

	for i := range table {
		if norm == table[i].digest || norm == strings.ReplaceAll(table[i].digest, "-", "") {
			return Primitive(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPrimitive, name)
}

// New returns an HMAC keyed with the password for the given primitive. The
// returned hash may be Reset and reused for any number of blocks.
//
// Panics if the primitive is not valid.
func New(p Primitive, password []byte) hash.Hash {
	return hmac.New(p.Hash(), password)
}

// Block computes a single PRF output: HMAC(password, message) over the digest
// selected by the primitive.
//
// Panics if the primitive is not valid.
func Block(p Primitive, password, message []byte) []byte {
	mac := New(p, password)
	mac.Write(message)
	return mac.Sum(nil)
}
