package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Digits is the fixed width of a generated code.
const Digits = 6

var codeSpace = big.NewInt(1_000_000)

// Generate returns a uniformly random, zero-padded numeric code drawn from
// crypto/rand.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", Digits, n), nil
}
