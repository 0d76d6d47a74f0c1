package commitment

import (
	"crypto/rand"
	"errors"
	"testing"

	"github.com/Caqil/ed25519-tss/internal/math"
	"github.com/Caqil/ed25519-tss/internal/security"
	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
)

func dealing(t *testing.T, secret *curve.Scalar, threshold int) ([]*math.Share, *PolynomialCommitment) {
	t.Helper()

	shares, poly, err := math.Split(rand.Reader, secret, threshold, []int{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	defer poly.Zeroize()

	c, err := Commit(poly)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	return shares, c
}

// TestFeldmanVerifyShare tests honest and tampered shares
func TestFeldmanVerifyShare(t *testing.T) {
	secret := curve.ScalarFromInt(777)
	shares, c := dealing(t, secret, 3)

	if c.Threshold() != 3 {
		t.Errorf("Expected threshold 3, got %d", c.Threshold())
	}
	if !curve.PointsEqual(c.Secret(), curve.ScalarBaseMult(secret)) {
		t.Error("C_0 should commit to the secret")
	}

	for _, share := range shares {
		if !c.VerifyShare(share.Index, share.Value) {
			t.Errorf("Honest share %d failed verification", share.Index)
		}
	}

	tampered := curve.NewScalar().Add(shares[0].Value, curve.OneScalar())
	if c.VerifyShare(shares[0].Index, tampered) {
		t.Error("Tampered share passed verification")
	}
	if c.VerifyShare(shares[1].Index, shares[0].Value) {
		t.Error("Share verified at the wrong index")
	}
	if c.VerifyShare(0, shares[0].Value) {
		t.Error("Index 0 must never verify")
	}
	if c.VerifyShare(-3, shares[0].Value) {
		t.Error("Negative index must never verify")
	}
}

// TestEvaluateInvalidIndex tests that evaluation outside the participant range fails
func TestEvaluateInvalidIndex(t *testing.T) {
	c := &PolynomialCommitment{Coefficients: []*curve.Point{curve.Generator()}}

	for _, index := range []int{-3, 0, security.MaxIndex + 1} {
		if _, err := c.Evaluate(index); !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("Evaluate(%d): expected ErrInvalidIndex, got %v", index, err)
		}
	}
	if _, err := c.Evaluate(1); err != nil {
		t.Errorf("Evaluate(1) failed: %v", err)
	}
}

// TestCommitmentAdd tests that summed commitments verify summed shares
func TestCommitmentAdd(t *testing.T) {
	sharesA, cA := dealing(t, curve.ScalarFromInt(1), 2)
	sharesB, cB := dealing(t, curve.ScalarFromInt(2), 2)

	sum, err := cA.Add(cB)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	for i := range sharesA {
		v := curve.NewScalar().Add(sharesA[i].Value, sharesB[i].Value)
		if !sum.VerifyShare(sharesA[i].Index, v) {
			t.Errorf("Summed share %d failed verification", sharesA[i].Index)
		}
	}

	_, cC := dealing(t, curve.ScalarFromInt(3), 3)
	if _, err := cA.Add(cC); err != ErrDegreeMismatch {
		t.Errorf("Expected ErrDegreeMismatch, got %v", err)
	}
}

// TestCommitmentEncoding tests the byte encoding
func TestCommitmentEncoding(t *testing.T) {
	shares, c := dealing(t, curve.ScalarFromInt(5), 3)

	parsed, err := Parse(c.Bytes())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !parsed.VerifyShare(shares[2].Index, shares[2].Value) {
		t.Error("Parsed commitment failed to verify a share")
	}

	if _, err := Parse(c.Bytes()[:40]); err != ErrInvalidEncoding {
		t.Errorf("Expected ErrInvalidEncoding, got %v", err)
	}
}
