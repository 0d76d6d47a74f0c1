package keygen

import (
	crand "crypto/rand"
	"errors"
	"testing"

	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
)

// TestRefresh tests that a refresh re-randomizes shares and keeps the group key
func TestRefresh(t *testing.T) {
	pub, shares, err := DealerSetup(crand.Reader, 2, 3)
	if err != nil {
		t.Fatalf("DealerSetup failed: %v", err)
	}
	groupKey := curve.ClonePoint(pub.GroupKey)
	old := shares[0].Share()

	refresh, err := RefreshDealing(crand.Reader, 2, pub.Indices())
	if err != nil {
		t.Fatalf("RefreshDealing failed: %v", err)
	}
	if !curve.IsIdentity(refresh.Commitment.Secret()) {
		t.Fatal("Refresh dealing does not share zero")
	}

	for _, share := range shares {
		if err := share.ApplyRefresh(refresh.Share(share.Index), refresh.Commitment); err != nil {
			t.Fatalf("ApplyRefresh for %d failed: %v", share.Index, err)
		}
	}
	if err := pub.ApplyRefresh(refresh.Commitment); err != nil {
		t.Fatalf("PublicKeyPackage.ApplyRefresh failed: %v", err)
	}

	if !curve.PointsEqual(pub.GroupKey, groupKey) {
		t.Error("Refresh changed the group key")
	}
	if curve.ScalarsEqual(old.Value, shares[0].Value) {
		t.Error("Refresh did not change the share")
	}
	if err := pub.Validate(); err != nil {
		t.Errorf("Refreshed package invalid: %v", err)
	}
	for _, share := range shares {
		if err := pub.VerifyShare(share); err != nil {
			t.Errorf("Refreshed share %d inconsistent: %v", share.Index, err)
		}
	}

	// An old share mixed with a refreshed one no longer reconstructs the key
	mixed := []*KeyShare{{Index: old.Index, Threshold: 2, Value: old.Value, GroupKey: groupKey}, shares[1]}
	secret, err := ReconstructSecret(mixed)
	if err != nil {
		t.Fatalf("ReconstructSecret failed: %v", err)
	}
	if curve.PointsEqual(curve.ScalarBaseMult(secret), groupKey) {
		t.Error("Old and new shares still combine")
	}
}

// TestRefreshRejectsNonZeroDealing tests that a dealing of a non-zero secret is refused
func TestRefreshRejectsNonZeroDealing(t *testing.T) {
	_, shares, err := DealerSetup(crand.Reader, 2, 3)
	if err != nil {
		t.Fatalf("DealerSetup failed: %v", err)
	}

	dealing, err := NewDealing(crand.Reader, curve.OneScalar(), 2, []int{1, 2, 3})
	if err != nil {
		t.Fatalf("NewDealing failed: %v", err)
	}

	before := curve.CloneScalar(shares[0].Value)
	if err := shares[0].ApplyRefresh(dealing.Share(1), dealing.Commitment); !errors.Is(err, ErrCorruptShare) {
		t.Errorf("Expected ErrCorruptShare, got %v", err)
	}
	if !curve.ScalarsEqual(before, shares[0].Value) {
		t.Error("Rejected refresh modified the share")
	}
}

// TestRefreshRejectsInvalidIndices tests that a package with a bad index is left untouched
func TestRefreshRejectsInvalidIndices(t *testing.T) {
	pub, _, err := DealerSetup(crand.Reader, 2, 3)
	if err != nil {
		t.Fatalf("DealerSetup failed: %v", err)
	}
	refresh, err := RefreshDealing(crand.Reader, 2, pub.Indices())
	if err != nil {
		t.Fatalf("RefreshDealing failed: %v", err)
	}

	pub.PublicShares[-3] = curve.Generator()
	before := curve.ClonePoint(pub.PublicShares[1])

	if err := pub.ApplyRefresh(refresh.Commitment); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("Expected ErrInvalidParameters, got %v", err)
	}
	if !curve.PointsEqual(before, pub.PublicShares[1]) {
		t.Error("Rejected refresh modified the public shares")
	}
}
