package signing

import (
	crand "crypto/rand"
	"errors"
	"testing"

	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
	"github.com/Caqil/ed25519-tss/pkg/crypto/rand"
	"github.com/Caqil/ed25519-tss/pkg/keygen"
)

// TestNewSignerInvalidKeyShare tests error handling
func TestNewSignerInvalidKeyShare(t *testing.T) {
	if _, err := NewSigner(nil, nil); !errors.Is(err, ErrInvalidKeyShare) {
		t.Errorf("Expected ErrInvalidKeyShare, got %v", err)
	}

	share := &keygen.KeyShare{Index: 0, Threshold: 1, Value: curve.OneScalar(), GroupKey: curve.Generator()}
	if _, err := NewSigner(share, nil); !errors.Is(err, ErrInvalidKeyShare) {
		t.Errorf("Expected ErrInvalidKeyShare for index 0, got %v", err)
	}

	share = &keygen.KeyShare{Index: 1, Threshold: 1, Value: curve.NewScalar(), GroupKey: curve.Generator()}
	if _, err := NewSigner(share, nil); !errors.Is(err, ErrInvalidKeyShare) {
		t.Errorf("Expected ErrInvalidKeyShare for zero share, got %v", err)
	}
}

// TestNonceSingleUse tests that a nonce signs once and is then gone
func TestNonceSingleUse(t *testing.T) {
	f := newFixture(t, 2, 3)
	s := f.newSession(t, []byte("once"), []int{1, 2})
	nonces := f.commitAll(t, s)

	pkg, err := s.SigningPackage()
	if err != nil {
		t.Fatalf("SigningPackage failed: %v", err)
	}

	if _, err := f.signers[1].Sign(nonces[1], pkg); err != nil {
		t.Fatalf("First Sign failed: %v", err)
	}
	if _, err := f.signers[1].Sign(nonces[1], pkg); !errors.Is(err, ErrNonceConsumed) {
		t.Errorf("Expected ErrNonceConsumed, got %v", err)
	}

	nonces[2].Discard()
	if _, err := f.signers[2].Sign(nonces[2], pkg); !errors.Is(err, ErrNonceConsumed) {
		t.Errorf("Expected ErrNonceConsumed after Discard, got %v", err)
	}
}

// TestCommitFreshNonces tests that repeated commits never repeat a nonce, even with a
// repeating randomness source
func TestCommitFreshNonces(t *testing.T) {
	f := newFixture(t, 2, 3)
	s := f.newSession(t, []byte("fresh"), []int{1, 2})
	req := s.Request()

	_, a, err := f.signers[1].Commit(crand.Reader, req)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	_, b, err := f.signers[1].Commit(crand.Reader, req)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if curve.PointsEqual(a.Point, b.Point) {
		t.Error("Two commits produced the same nonce")
	}

	// A stuck rng still yields distinct nonces for distinct messages
	seed := [32]byte{9}
	other := f.newSession(t, []byte("other message"), []int{1, 2})
	_, c, err := f.signers[1].Commit(rand.NewDeterministicReader(seed), req)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	_, d, err := f.signers[1].Commit(rand.NewDeterministicReader(seed), other.Request())
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if curve.PointsEqual(c.Point, d.Point) {
		t.Error("Same randomness gave the same nonce for different sessions")
	}
}

// TestSignRejectsTamperedPackage tests the signer's own package checks
func TestSignRejectsTamperedPackage(t *testing.T) {
	f := newFixture(t, 2, 3)

	tests := []struct {
		name   string
		mutate func(pkg *SigningPackage)
		want   error
	}{
		{"message", func(pkg *SigningPackage) { pkg.Message = []byte("evil") }, ErrSessionMismatch},
		{"session", func(pkg *SigningPackage) { pkg.SessionID[0] ^= 1 }, ErrSessionMismatch},
		{"quorum", func(pkg *SigningPackage) { pkg.Quorum = []int{1, 3} }, ErrSessionMismatch},
		{"own commitment", func(pkg *SigningPackage) { pkg.Commitments[1] = curve.Generator() }, ErrInvalidCommitment},
		{"missing commitment", func(pkg *SigningPackage) { delete(pkg.Commitments, 2) }, ErrInvalidCommitment},
		{"identity commitment", func(pkg *SigningPackage) { pkg.Commitments[2] = curve.Identity() }, ErrInvalidCommitment},
		{"group key", func(pkg *SigningPackage) { pkg.GroupKey = curve.Generator() }, ErrInvalidParameters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := f.newSession(t, []byte("tamper"), []int{1, 2})
			nonces := f.commitAll(t, s)
			pkg, err := s.SigningPackage()
			if err != nil {
				t.Fatalf("SigningPackage failed: %v", err)
			}

			tt.mutate(pkg)
			if _, err := f.signers[1].Sign(nonces[1], pkg); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}

			// The refused attempt still burned the nonce
			if _, err := f.signers[1].Sign(nonces[1], pkg); !errors.Is(err, ErrNonceConsumed) {
				t.Errorf("Expected ErrNonceConsumed, got %v", err)
			}
		})
	}
}
