//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Package rng provides a seeded, reproducible pseudo-random source for
// generating random small circuits and input assignments in tests.
// math/rand's algorithm is explicitly unspecified across Go versions,
// so a "random" circuit generated on one toolchain would not
// reproduce on another; a keyed stream cipher used purely as a PRG
// does not have that problem.
package rng

import (
	"encoding/binary"

	"golang.org/x/crypto/chacha20"
)

// Source is a deterministic byte stream keyed by a seed, the same
// ChaCha20-as-PRG construction vole.prgChaCha20 uses: the seed is
// repeated/truncated to a 32-byte key and run with a zero nonce, so
// the same seed always produces the same stream.
type Source struct {
	cipher *chacha20.Cipher
}

// New creates a Source keyed by seed. seed may be any length.
func New(seed []byte) *Source {
	if len(seed) == 0 {
		seed = []byte{0}
	}
	key := make([]byte, chacha20.KeySize)
	for i := range key {
		key[i] = seed[i%len(seed)]
	}
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		// Only possible if key/nonce sizes are wrong, which they
		// cannot be: both are sized from the package's own constants.
		panic(err)
	}
	return &Source{cipher: c}
}

// NewSeeded is a convenience constructor for the common case of an
// integer test seed.
func NewSeeded(seed uint64) *Source {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, seed)
	return New(b)
}

// Bytes fills and returns an n-byte slice of keystream.
func (s *Source) Bytes(n int) []byte {
	zeros := make([]byte, n)
	out := make([]byte, n)
	s.cipher.XORKeyStream(out, zeros)
	return out
}

// Uint64 returns the next 8 bytes of keystream as a uint64.
func (s *Source) Uint64() uint64 {
	return binary.LittleEndian.Uint64(s.Bytes(8))
}

// Intn returns a value in [0, n) with a small modulo bias; n must be
// positive. Test fixture sizes are tiny, so the bias is immaterial.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	return int(s.Uint64() % uint64(n))
}

// Bool returns the next pseudo-random bit.
func (s *Source) Bool() bool {
	return s.Uint64()&1 != 0
}
