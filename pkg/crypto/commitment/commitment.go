// Package commitment provides Feldman commitments to sharing polynomials.
//
// A dealer publishing C_k = a_k·B for every coefficient a_k lets each participant check
// its share against public data: share·B == Σ_k C_k·index^k.
package commitment

import (
	"fmt"

	"github.com/Caqil/ed25519-tss/internal/math"
	"github.com/Caqil/ed25519-tss/internal/security"
	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
)

// PolynomialCommitment holds the public commitments C_0..C_{t-1}.
// C_0 commits to the shared secret and is therefore the group public key of the dealing.
type PolynomialCommitment struct {
	Coefficients []*curve.Point
}

// Commit computes the Feldman commitment of p
func Commit(p *math.Polynomial) (*PolynomialCommitment, error) {
	if p == nil || len(p.Coefficients) == 0 {
		return nil, ErrNilPolynomial
	}

	points := make([]*curve.Point, len(p.Coefficients))
	for k, coef := range p.Coefficients {
		points[k] = curve.ScalarBaseMult(coef)
	}

	return &PolynomialCommitment{Coefficients: points}, nil
}

// Threshold returns the number of shares needed to reconstruct the committed secret
func (c *PolynomialCommitment) Threshold() int {
	return len(c.Coefficients)
}

// Secret returns C_0, the commitment to the constant term
func (c *PolynomialCommitment) Secret() *curve.Point {
	if len(c.Coefficients) == 0 {
		return nil
	}
	return curve.ClonePoint(c.Coefficients[0])
}

// Evaluate computes Σ_k C_k·index^k, the public share expected at index
func (c *PolynomialCommitment) Evaluate(index int) (*curve.Point, error) {
	n := len(c.Coefficients)
	if n == 0 {
		return nil, ErrEmptyCommitment
	}
	if err := security.ValidateIndex(index); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIndex, err)
	}

	x := curve.ScalarFromInt(index)

	// Horner's method in the exponent
	result := curve.ClonePoint(c.Coefficients[n-1])
	for k := n - 2; k >= 0; k-- {
		result = curve.Add(curve.ScalarMult(x, result), c.Coefficients[k])
	}

	return result, nil
}

// VerifyShare reports whether value·B matches the committed polynomial at index
func (c *PolynomialCommitment) VerifyShare(index int, value *curve.Scalar) bool {
	if value == nil {
		return false
	}

	expected, err := c.Evaluate(index)
	if err != nil {
		return false
	}

	return curve.PointsEqual(curve.ScalarBaseMult(value), expected)
}

// Add returns the commitment to the sum of the two committed polynomials
func (c *PolynomialCommitment) Add(other *PolynomialCommitment) (*PolynomialCommitment, error) {
	if other == nil {
		return nil, ErrNilCommitment
	}
	if len(c.Coefficients) != len(other.Coefficients) {
		return nil, ErrDegreeMismatch
	}

	points := make([]*curve.Point, len(c.Coefficients))
	for k := range c.Coefficients {
		points[k] = curve.Add(c.Coefficients[k], other.Coefficients[k])
	}

	return &PolynomialCommitment{Coefficients: points}, nil
}

// Bytes encodes the commitment as the concatenation of compressed points
func (c *PolynomialCommitment) Bytes() []byte {
	out := make([]byte, 0, len(c.Coefficients)*curve.PointSize)
	for _, p := range c.Coefficients {
		out = append(out, p.Bytes()...)
	}
	return out
}

// Parse decodes a commitment produced by Bytes
func Parse(data []byte) (*PolynomialCommitment, error) {
	if len(data) == 0 || len(data)%curve.PointSize != 0 {
		return nil, ErrInvalidEncoding
	}

	points := make([]*curve.Point, len(data)/curve.PointSize)
	for k := range points {
		p, err := curve.DecodePoint(data[k*curve.PointSize : (k+1)*curve.PointSize])
		if err != nil {
			return nil, err
		}
		points[k] = p
	}

	return &PolynomialCommitment{Coefficients: points}, nil
}
