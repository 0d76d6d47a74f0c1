package math

import (
	"crypto/rand"
	"errors"
	"testing"

	"github.com/Caqil/ed25519-tss/internal/security"
	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
	tssrand "github.com/Caqil/ed25519-tss/pkg/crypto/rand"
)

func indexRange(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i + 1
	}
	return indices
}

// subsets returns all k-element subsets of shares
func subsets(shares []*Share, k int) [][]*Share {
	var result [][]*Share
	var walk func(start int, current []*Share)
	walk = func(start int, current []*Share) {
		if len(current) == k {
			result = append(result, append([]*Share(nil), current...))
			return
		}
		for i := start; i < len(shares); i++ {
			walk(i+1, append(current, shares[i]))
		}
	}
	walk(0, nil)
	return result
}

// TestSplitAndReconstruct tests that every threshold-sized subset recovers the secret
func TestSplitAndReconstruct(t *testing.T) {
	cases := []struct {
		threshold int
		total     int
	}{
		{1, 1},
		{1, 3},
		{2, 3},
		{3, 5},
		{4, 7},
		{5, 5},
	}

	for _, tc := range cases {
		secret, err := tssrand.GenerateRandomScalar(rand.Reader)
		if err != nil {
			t.Fatalf("Failed to generate secret: %v", err)
		}

		shares, poly, err := Split(rand.Reader, secret, tc.threshold, indexRange(tc.total))
		if err != nil {
			t.Fatalf("Split(%d, %d) failed: %v", tc.threshold, tc.total, err)
		}
		if poly.Degree() != tc.threshold-1 {
			t.Errorf("Expected degree %d, got %d", tc.threshold-1, poly.Degree())
		}
		if !curve.ScalarsEqual(poly.Constant(), secret) {
			t.Errorf("Polynomial constant term is not the secret")
		}
		poly.Zeroize()

		for _, subset := range subsets(shares, tc.threshold) {
			recovered, err := Reconstruct(subset, tc.threshold)
			if err != nil {
				t.Fatalf("Reconstruct failed for %d-of-%d: %v", tc.threshold, tc.total, err)
			}
			if !curve.ScalarsEqual(recovered, secret) {
				t.Errorf("Reconstructed secret mismatch for %d-of-%d", tc.threshold, tc.total)
			}
		}

		// More than threshold shares interpolate the same polynomial
		recovered, err := Reconstruct(shares, tc.threshold)
		if err != nil {
			t.Fatalf("Reconstruct with all shares failed: %v", err)
		}
		if !curve.ScalarsEqual(recovered, secret) {
			t.Errorf("Reconstruct with all shares mismatch for %d-of-%d", tc.threshold, tc.total)
		}
	}
}

// TestReconstructBelowThreshold tests that fewer shares do not reveal the secret
func TestReconstructBelowThreshold(t *testing.T) {
	secret, _ := tssrand.GenerateRandomScalar(rand.Reader)
	shares, poly, err := Split(rand.Reader, secret, 3, indexRange(5))
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	poly.Zeroize()

	if _, err := Reconstruct(shares[:2], 3); !errors.Is(err, ErrInsufficientShares) {
		t.Errorf("Expected ErrInsufficientShares, got %v", err)
	}

	// Interpolating too few points yields a different value
	for _, subset := range subsets(shares, 2) {
		wrong, err := Reconstruct(subset, 2)
		if err != nil {
			t.Fatalf("Reconstruct failed: %v", err)
		}
		if curve.ScalarsEqual(wrong, secret) {
			t.Error("Two shares of a 3-of-5 sharing recovered the secret")
		}
	}
}

// TestReconstructDuplicateIndices tests rejection of repeated shares
func TestReconstructDuplicateIndices(t *testing.T) {
	secret, _ := tssrand.GenerateRandomScalar(rand.Reader)
	shares, _, err := Split(rand.Reader, secret, 2, indexRange(3))
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	_, err = Reconstruct([]*Share{shares[0], shares[0].Clone()}, 2)
	if !errors.Is(err, ErrInsufficientShares) {
		t.Errorf("Expected ErrInsufficientShares, got %v", err)
	}

	if _, err := Reconstruct([]*Share{shares[0], nil}, 2); !errors.Is(err, ErrNilShare) {
		t.Errorf("Expected ErrNilShare, got %v", err)
	}
}

// TestSplitInvalidParameters tests parameter validation
func TestSplitInvalidParameters(t *testing.T) {
	secret := curve.ScalarFromInt(42)

	cases := []struct {
		name      string
		threshold int
		indices   []int
	}{
		{"threshold above total", 4, indexRange(3)},
		{"zero threshold", 0, indexRange(3)},
		{"zero index", 2, []int{0, 1, 2}},
		{"negative index", 2, []int{-1, 1, 2}},
		{"duplicate index", 2, []int{1, 1, 2}},
		{"no indices", 1, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Split(rand.Reader, secret, tc.threshold, tc.indices)
			if !errors.Is(err, ErrInvalidParameters) {
				t.Errorf("Expected ErrInvalidParameters, got %v", err)
			}
		})
	}

	if _, _, err := Split(rand.Reader, nil, 2, indexRange(3)); !errors.Is(err, ErrNilSecret) {
		t.Errorf("Expected ErrNilSecret, got %v", err)
	}
}

// TestSplitCustomIndices tests sharing at caller-chosen evaluation points
func TestSplitCustomIndices(t *testing.T) {
	secret, _ := tssrand.GenerateRandomScalar(rand.Reader)
	indices := []int{7, 19, 1000, 42}

	shares, _, err := Split(rand.Reader, secret, 3, indices)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	for i, share := range shares {
		if share.Index != indices[i] {
			t.Errorf("Share %d has index %d, want %d", i, share.Index, indices[i])
		}
	}

	recovered, err := Reconstruct([]*Share{shares[3], shares[1], shares[2]}, 3)
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}
	if !curve.ScalarsEqual(recovered, secret) {
		t.Error("Reconstruct with custom indices mismatch")
	}
}

// TestLagrangeCoefficient tests coefficient properties
func TestLagrangeCoefficient(t *testing.T) {
	quorum := []int{1, 3, 4}

	// Coefficients at zero sum to one: interpolating the constant polynomial 1
	sum := curve.NewScalar()
	for _, i := range quorum {
		lambda, err := LagrangeCoefficient(i, quorum, 3)
		if err != nil {
			t.Fatalf("LagrangeCoefficient failed: %v", err)
		}
		sum.Add(sum, lambda)
	}
	if !curve.ScalarsEqual(sum, curve.OneScalar()) {
		t.Error("Lagrange coefficients do not sum to one")
	}

	// For quorum {1, 2}: ℓ_1(0) = 2, ℓ_2(0) = -1
	l1, _ := LagrangeCoefficient(1, []int{1, 2}, 2)
	l2, _ := LagrangeCoefficient(2, []int{1, 2}, 2)
	if !curve.ScalarsEqual(l1, curve.ScalarFromInt(2)) {
		t.Error("Expected ℓ_1(0) = 2")
	}
	minusOne := curve.NewScalar().Negate(curve.OneScalar())
	if !curve.ScalarsEqual(l2, minusOne) {
		t.Error("Expected ℓ_2(0) = -1")
	}
}

// TestLagrangeCoefficientSingularQuorum tests malformed interpolation sets
func TestLagrangeCoefficientSingularQuorum(t *testing.T) {
	cases := []struct {
		name   string
		index  int
		quorum []int
	}{
		{"duplicate", 1, []int{1, 2, 2}},
		{"too small", 1, []int{1}},
		{"index missing", 5, []int{1, 2, 3}},
		{"zero index", 1, []int{0, 1, 2}},
		{"negative index", -1, []int{1, 2}},
		{"index too large", security.MaxIndex + 1, []int{1, 2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LagrangeCoefficient(tc.index, tc.quorum, 2); !errors.Is(err, ErrSingularQuorum) {
				t.Errorf("Expected ErrSingularQuorum, got %v", err)
			}
		})
	}
}

// TestInterpolatePoint tests interpolation in the exponent
func TestInterpolatePoint(t *testing.T) {
	secret, _ := tssrand.GenerateRandomScalar(rand.Reader)
	shares, poly, err := Split(rand.Reader, secret, 3, indexRange(5))
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	defer poly.Zeroize()

	indices := []int{shares[0].Index, shares[2].Index, shares[4].Index}
	points := []*curve.Point{
		curve.ScalarBaseMult(shares[0].Value),
		curve.ScalarBaseMult(shares[2].Value),
		curve.ScalarBaseMult(shares[4].Value),
	}

	groupKey, err := InterpolatePoint(0, indices, points)
	if err != nil {
		t.Fatalf("InterpolatePoint failed: %v", err)
	}
	if !curve.PointsEqual(groupKey, curve.ScalarBaseMult(secret)) {
		t.Error("Interpolated group key mismatch")
	}

	predicted, err := InterpolatePoint(2, indices, points)
	if err != nil {
		t.Fatalf("InterpolatePoint failed: %v", err)
	}
	if !curve.PointsEqual(predicted, curve.ScalarBaseMult(shares[1].Value)) {
		t.Error("Interpolated public share at x=2 mismatch")
	}

	if _, err := InterpolatePoint(0, indices, points[:2]); !errors.Is(err, ErrPointValueMismatch) {
		t.Errorf("Expected ErrPointValueMismatch, got %v", err)
	}
}

// TestThresholdSecrecyDistribution checks that a single share of a 2-of-3 sharing
// is distributed the same way whatever the secret is
func TestThresholdSecrecyDistribution(t *testing.T) {
	const samples = 4096

	histogram := func(secret *curve.Scalar, seed byte) [16]int {
		var counts [16]int
		rng := tssrand.NewDeterministicReader([32]byte{seed})
		for i := 0; i < samples; i++ {
			shares, poly, err := Split(rng, secret, 2, indexRange(3))
			if err != nil {
				t.Fatalf("Split failed: %v", err)
			}
			poly.Zeroize()
			counts[shares[0].Value.Bytes()[0]>>4]++
		}
		return counts
	}

	zero := histogram(curve.NewScalar(), 1)
	one := histogram(curve.OneScalar(), 2)

	// Expected 256 per bucket; bounds are far outside sampling noise
	for bucket := 0; bucket < 16; bucket++ {
		for _, counts := range [][16]int{zero, one} {
			if counts[bucket] < 150 || counts[bucket] > 370 {
				t.Errorf("Bucket %d count %d is not uniform", bucket, counts[bucket])
			}
		}
	}
}
