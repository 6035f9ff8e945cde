// Package random provides seed and generator helpers.
//
// Seeds come from crypto/rand so every run suggests different usernames,
// while tests can build the same generators from fixed seeds.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand/v2"
)

// NewSeed reads a 128-bit seed from the given reader.
func NewSeed(r io.Reader) (uint64, uint64, error) {
	var b [16]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, 0, fmt.Errorf("read random seed: %w", err)
	}

	return binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]), nil
}

// NewWeak returns a non-cryptographic generator seeded from crypto/rand.
func NewWeak() (*rand.Rand, error) {
	s1, s2, err := NewSeed(crand.Reader)
	if err != nil {
		return nil, err
	}
	return NewWeakFromSeed(s1, s2), nil
}

// NewWeakFromSeed returns a deterministic generator for the given seed.
func NewWeakFromSeed(s1, s2 uint64) *rand.Rand {
	return rand.New(rand.NewPCG(s1, s2))
}
