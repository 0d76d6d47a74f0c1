// Package security provides helpers for protecting secret material and validating protocol parameters
package security

import (
	"crypto/subtle"
	"runtime"

	"filippo.io/edwards25519"
)

// SecureZero overwrites a byte slice so secrets do not linger in memory
func SecureZero(data []byte) {
	if len(data) == 0 {
		return
	}

	// ConstantTimeCopy cannot be elided by the compiler
	zeros := make([]byte, len(data))
	subtle.ConstantTimeCopy(1, data, zeros)

	runtime.KeepAlive(data)
}

// ZeroScalar overwrites a secret scalar with zero. Nil is ignored.
func ZeroScalar(s *edwards25519.Scalar) {
	if s == nil {
		return
	}
	s.Set(edwards25519.NewScalar())
	runtime.KeepAlive(s)
}

// ZeroScalars zeroes every scalar in the slice
func ZeroScalars(scalars []*edwards25519.Scalar) {
	for _, s := range scalars {
		ZeroScalar(s)
	}
}

// ConstantTimeCompare compares two byte slices in constant time
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
