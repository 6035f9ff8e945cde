// Package application contains use-case orchestration services.
package application

import (
	crand "crypto/rand"
	"fmt"
	"io"
	"math/big"
	"math/rand/v2"
)

// secureTokenBits is the size of the random value behind a suggested password.
const secureTokenBits = 130

// Randomness carries the two generators the workflow needs. Weak drives
// username suggestions, where a collision only costs a retry; Secure drives
// password suggestions.
type Randomness struct {
	Weak   *rand.Rand
	Secure io.Reader
}

// NewRandomness pairs weak with crypto/rand.
func NewRandomness(weak *rand.Rand) Randomness {
	return Randomness{Weak: weak, Secure: crand.Reader}
}

// SecureToken returns a uniformly random 130-bit value rendered in base 32,
// at most 26 characters of [0-9a-v].
func (r Randomness) SecureToken() (string, error) {
	// 17 bytes hold 136 bits; the top 6 are cleared.
	var b [(secureTokenBits + 7) / 8]byte
	if _, err := io.ReadFull(r.Secure, b[:]); err != nil {
		return "", fmt.Errorf("read secure random: %w", err)
	}
	b[0] &= byte(1<<(secureTokenBits%8)) - 1

	return new(big.Int).SetBytes(b[:]).Text(32), nil
}

// IntN returns a weak random integer in [0, n).
func (r Randomness) IntN(n int) int {
	return r.Weak.IntN(n)
}
