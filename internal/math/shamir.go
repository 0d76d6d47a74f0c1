package math

import (
	"fmt"
	"io"

	"github.com/Caqil/ed25519-tss/internal/security"
	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
)

// Share represents a single share in Shamir Secret Sharing
type Share struct {
	// Index is the x-coordinate, a non-zero participant index
	Index int

	// Value is the y-coordinate f(Index)
	Value *curve.Scalar
}

// Clone creates a deep copy of a share
func (s *Share) Clone() *Share {
	if s == nil {
		return nil
	}
	return &Share{
		Index: s.Index,
		Value: curve.CloneScalar(s.Value),
	}
}

// Zeroize overwrites the share value
func (s *Share) Zeroize() {
	if s == nil {
		return
	}
	security.ZeroScalar(s.Value)
}

// Split shares secret among the given indices so that any threshold of them can reconstruct it.
// It returns the shares in the order of indices along with the sharing polynomial; the caller
// owns the polynomial and must Zeroize it once it has derived whatever public data it needs.
func Split(rng io.Reader, secret *curve.Scalar, threshold int, indices []int) ([]*Share, *Polynomial, error) {
	if secret == nil {
		return nil, nil, ErrNilSecret
	}
	if err := security.ValidateThreshold(threshold, len(indices)); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	if err := security.ValidateIndexSet(indices); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}

	// f(x) = secret + a₁x + ... + a_{t-1}x^{t-1}
	polynomial, err := NewRandomPolynomial(rng, threshold-1, secret)
	if err != nil {
		return nil, nil, err
	}

	shares := make([]*Share, len(indices))
	for i, idx := range indices {
		shares[i] = &Share{
			Index: idx,
			Value: polynomial.EvaluateAt(idx),
		}
	}

	return shares, polynomial, nil
}

// LagrangeCoefficient computes ℓ_i(0) = ∏_{j≠i} (0 - x_j)/(x_i - x_j) over quorum.
// The quorum must have at least threshold distinct valid indices and contain index.
func LagrangeCoefficient(index int, quorum []int, threshold int) (*curve.Scalar, error) {
	if len(quorum) < threshold || threshold < 1 {
		return nil, ErrSingularQuorum
	}
	return LagrangeCoefficientAt(0, index, quorum)
}

// LagrangeCoefficientAt computes ℓ_i(x) = ∏_{j≠i} (x - x_j)/(x_i - x_j) over quorum
func LagrangeCoefficientAt(x, index int, quorum []int) (*curve.Scalar, error) {
	if err := security.ValidateIndexSet(quorum); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingularQuorum, err)
	}
	if err := security.ValidateIndex(index); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingularQuorum, err)
	}
	if x < 0 || x > security.MaxIndex {
		return nil, ErrInvalidParameters
	}

	xs := curve.ScalarFromInt(x)
	xi := curve.ScalarFromInt(index)

	numerator := curve.OneScalar()
	denominator := curve.OneScalar()
	found := false

	for _, j := range quorum {
		if j == index {
			found = true
			continue
		}
		xj := curve.ScalarFromInt(j)

		numerator.Multiply(numerator, curve.NewScalar().Subtract(xs, xj))
		denominator.Multiply(denominator, curve.NewScalar().Subtract(xi, xj))
	}

	if !found {
		return nil, ErrSingularQuorum
	}

	// Indices are distinct and below ℓ, so the denominator is non-zero
	inv := curve.NewScalar().Invert(denominator)
	return numerator.Multiply(numerator, inv), nil
}

// Reconstruct recovers f(0) from at least threshold shares with distinct indices.
// Every supplied share takes part in the interpolation.
func Reconstruct(shares []*Share, threshold int) (*curve.Scalar, error) {
	if threshold < 1 || len(shares) < threshold {
		return nil, ErrInsufficientShares
	}

	indices := make([]int, len(shares))
	for i, share := range shares {
		if share == nil || share.Value == nil {
			return nil, ErrNilShare
		}
		indices[i] = share.Index
	}

	if err := security.ValidateIndexSet(indices); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInsufficientShares, err)
	}

	secret := curve.NewScalar()
	for _, share := range shares {
		lambda, err := LagrangeCoefficientAt(0, share.Index, indices)
		if err != nil {
			security.ZeroScalar(secret)
			return nil, err
		}
		secret.MultiplyAdd(lambda, share.Value, secret)
	}

	return secret, nil
}

// InterpolatePoint evaluates, at x, the degree-(k-1) polynomial "in the exponent" passing
// through (indices[i], points[i]): Σ ℓ_i(x)·P_i. With x = 0 and public shares this yields the
// group public key.
func InterpolatePoint(x int, indices []int, points []*curve.Point) (*curve.Point, error) {
	if len(indices) != len(points) {
		return nil, ErrPointValueMismatch
	}
	if len(indices) == 0 {
		return nil, ErrSingularQuorum
	}

	result := curve.Identity()
	for i, idx := range indices {
		if points[i] == nil {
			return nil, ErrInvalidParameters
		}
		lambda, err := LagrangeCoefficientAt(x, idx, indices)
		if err != nil {
			return nil, err
		}
		result.Add(result, curve.ScalarMult(lambda, points[i]))
	}

	return result, nil
}
