// Package curve provides the Ed25519 group operations used by the threshold protocol.
// All secret-dependent operations delegate to filippo.io/edwards25519, which is constant-time.
//
// The curve is fixed: there is no runtime curve selection. Scalars are elements of the
// prime-order subgroup's scalar field (mod ℓ) and points are elements of the Edwards group.
package curve

import (
	"encoding/binary"

	"filippo.io/edwards25519"
)

const (
	// ScalarSize is the length of a canonical scalar encoding
	ScalarSize = 32

	// PointSize is the length of a compressed point encoding
	PointSize = 32

	// WideScalarSize is the input length for uniform reduction mod ℓ
	WideScalarSize = 64
)

// Scalar is an integer modulo the group order ℓ
type Scalar = edwards25519.Scalar

// Point is an element of the Ed25519 group
type Point = edwards25519.Point

// NewScalar returns a new zero scalar
func NewScalar() *Scalar {
	return edwards25519.NewScalar()
}

// ScalarFromInt returns the scalar representation of a small non-negative integer.
// Used for participant indices, which are the x-coordinates of Shamir shares.
func ScalarFromInt(v int) *Scalar {
	if v < 0 {
		panic("curve: negative integer has no scalar representation")
	}

	var buf [ScalarSize]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(v))

	s, err := edwards25519.NewScalar().SetCanonicalBytes(buf[:])
	if err != nil {
		// Any value below 2^64 is canonical
		panic(err)
	}
	return s
}

// OneScalar returns the scalar 1
func OneScalar() *Scalar {
	return ScalarFromInt(1)
}

// Generator returns a new copy of the Ed25519 base point B
func Generator() *Point {
	return edwards25519.NewGeneratorPoint()
}

// Identity returns a new identity point
func Identity() *Point {
	return edwards25519.NewIdentityPoint()
}

// ScalarBaseMult computes k*B
func ScalarBaseMult(k *Scalar) *Point {
	return new(edwards25519.Point).ScalarBaseMult(k)
}

// ScalarMult computes k*P
func ScalarMult(k *Scalar, p *Point) *Point {
	return new(edwards25519.Point).ScalarMult(k, p)
}

// Add computes P + Q
func Add(p, q *Point) *Point {
	return new(edwards25519.Point).Add(p, q)
}

// Negate computes -P
func Negate(p *Point) *Point {
	return new(edwards25519.Point).Negate(p)
}

// VarTimeDoubleScalarBaseMult computes a*A + b*B in variable time.
// Only for public inputs, such as verification equations.
func VarTimeDoubleScalarBaseMult(a *Scalar, A *Point, b *Scalar) *Point {
	return new(edwards25519.Point).VarTimeDoubleScalarBaseMult(a, A, b)
}

// Sum adds all points, returning the identity for an empty list
func Sum(points ...*Point) *Point {
	acc := Identity()
	for _, p := range points {
		acc.Add(acc, p)
	}
	return acc
}

// IsIdentity reports whether p is the identity element
func IsIdentity(p *Point) bool {
	return p.Equal(Identity()) == 1
}

// IsSmallOrder reports whether p lies in the torsion subgroup of order dividing 8,
// which includes the identity
func IsSmallOrder(p *Point) bool {
	return IsIdentity(new(edwards25519.Point).MultByCofactor(p))
}

// PointsEqual reports whether two points are equal
func PointsEqual(p, q *Point) bool {
	if p == nil || q == nil {
		return p == q
	}
	return p.Equal(q) == 1
}

// ScalarsEqual compares two scalars in constant time
func ScalarsEqual(a, b *Scalar) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b) == 1
}

// IsZeroScalar reports whether s is zero
func IsZeroScalar(s *Scalar) bool {
	return s.Equal(edwards25519.NewScalar()) == 1
}

// CloneScalar returns a copy of s
func CloneScalar(s *Scalar) *Scalar {
	return edwards25519.NewScalar().Set(s)
}

// ClonePoint returns a copy of p
func ClonePoint(p *Point) *Point {
	return new(edwards25519.Point).Set(p)
}
