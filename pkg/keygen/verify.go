package keygen

import (
	"fmt"
	"slices"

	"github.com/Caqil/ed25519-tss/internal/math"
	"github.com/Caqil/ed25519-tss/internal/security"
	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
)

// VerifyShareConsistency checks a private share against the published public shares.
//
// The share must match its own public share (value·B == Y_index), and every other
// public share must lie on the degree-(T-1) curve interpolated from a T-subset that
// contains index. A false result means the share or the published data is corrupt and
// the share must be re-issued; see ErrCorruptShare.
func VerifyShareConsistency(share *KeyShare, publicShares []PublicShare, threshold int) bool {
	if share == nil || share.Value == nil || threshold < 1 {
		return false
	}
	if len(publicShares) < threshold {
		return false
	}

	indices := make([]int, len(publicShares))
	points := make(map[int]*curve.Point, len(publicShares))
	for i, ps := range publicShares {
		if ps.Point == nil || curve.ValidateNonZeroPoint(ps.Point) != nil {
			return false
		}
		indices[i] = ps.Index
		points[ps.Index] = ps.Point
	}
	if security.ValidateIndexSet(indices) != nil {
		return false
	}

	own, ok := points[share.Index]
	if !ok {
		return false
	}
	if !curve.PointsEqual(share.PublicShare(), own) {
		return false
	}

	// The basis is the share's own index plus the T-1 lowest other indices
	slices.Sort(indices)
	basis := []int{share.Index}
	for _, idx := range indices {
		if len(basis) == threshold {
			break
		}
		if idx != share.Index {
			basis = append(basis, idx)
		}
	}
	basisPoints := make([]*curve.Point, len(basis))
	for i, idx := range basis {
		basisPoints[i] = points[idx]
	}

	for _, idx := range indices {
		if slices.Contains(basis, idx) {
			continue
		}
		expected, err := math.InterpolatePoint(idx, basis, basisPoints)
		if err != nil || !curve.PointsEqual(expected, points[idx]) {
			return false
		}
	}

	return true
}

// Validate checks that the package is internally consistent: valid threshold and indices,
// non-identity points, a group key that interpolates from the public shares, and public
// shares that match the Feldman commitment when one is present.
func (p *PublicKeyPackage) Validate() error {
	if p == nil || p.GroupKey == nil {
		return ErrInvalidPublicKey
	}
	if err := security.ValidateThreshold(p.Threshold, len(p.PublicShares)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	if err := curve.ValidateNonZeroPoint(p.GroupKey); err != nil {
		return fmt.Errorf("%w: group key: %w", ErrInvalidPublicKey, err)
	}

	indices := p.Indices()
	if err := security.ValidateIndexSet(indices); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	for _, idx := range indices {
		if err := curve.ValidateNonZeroPoint(p.PublicShares[idx]); err != nil {
			return fmt.Errorf("%w: public share %d: %w", ErrInvalidPublicKey, idx, err)
		}
	}

	if p.Commitment != nil {
		if p.Commitment.Threshold() != p.Threshold {
			return fmt.Errorf("%w: commitment has %d coefficients, threshold is %d",
				ErrInvalidPublicKey, p.Commitment.Threshold(), p.Threshold)
		}
		if !curve.PointsEqual(p.Commitment.Coefficients[0], p.GroupKey) {
			return fmt.Errorf("%w: commitment does not match group key", ErrInvalidPublicKey)
		}
		for _, idx := range indices {
			expected, err := p.Commitment.Evaluate(idx)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
			}
			if !curve.PointsEqual(expected, p.PublicShares[idx]) {
				return fmt.Errorf("%w: public share %d does not match commitment", ErrInvalidPublicKey, idx)
			}
		}
		return nil
	}

	// Without a commitment, any T public shares must interpolate to the group key and
	// the remaining ones must lie on the same polynomial
	basis := indices[:p.Threshold]
	basisPoints := make([]*curve.Point, len(basis))
	for i, idx := range basis {
		basisPoints[i] = p.PublicShares[idx]
	}
	groupKey, err := math.InterpolatePoint(0, basis, basisPoints)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	if !curve.PointsEqual(groupKey, p.GroupKey) {
		return fmt.Errorf("%w: public shares do not interpolate to group key", ErrInvalidPublicKey)
	}
	for _, idx := range indices[p.Threshold:] {
		expected, err := math.InterpolatePoint(idx, basis, basisPoints)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
		}
		if !curve.PointsEqual(expected, p.PublicShares[idx]) {
			return fmt.Errorf("%w: public share %d is off the sharing polynomial", ErrInvalidPublicKey, idx)
		}
	}

	return nil
}

// VerifyShare checks a participant's private share against this package. It returns
// ErrCorruptShare when the share is inconsistent with the published commitments.
func (p *PublicKeyPackage) VerifyShare(share *KeyShare) error {
	if err := share.Validate(); err != nil {
		return err
	}
	if share.Threshold != p.Threshold {
		return fmt.Errorf("%w: share threshold %d, package threshold %d", ErrCorruptShare, share.Threshold, p.Threshold)
	}
	if !curve.PointsEqual(share.GroupKey, p.GroupKey) {
		return fmt.Errorf("%w: share belongs to a different group key", ErrCorruptShare)
	}
	if p.Commitment != nil && !p.Commitment.VerifyShare(share.Index, share.Value) {
		return fmt.Errorf("%w: index %d fails Feldman check", ErrCorruptShare, share.Index)
	}
	if !VerifyShareConsistency(share, p.PublicShareList(), p.Threshold) {
		return fmt.Errorf("%w: index %d", ErrCorruptShare, share.Index)
	}
	return nil
}
