package signing

import (
	crand "crypto/rand"
	"testing"
	"time"

	"github.com/Caqil/ed25519-tss/pkg/keygen"
)

// fixture holds one dealt key and a signer per participant
type fixture struct {
	public  *keygen.PublicKeyPackage
	shares  map[int]*keygen.KeyShare
	signers map[int]*Signer
}

func newFixture(t *testing.T, threshold, total int) *fixture {
	t.Helper()

	pub, shares, err := keygen.DealerSetup(crand.Reader, threshold, total)
	if err != nil {
		t.Fatalf("DealerSetup failed: %v", err)
	}

	f := &fixture{
		public:  pub,
		shares:  make(map[int]*keygen.KeyShare, total),
		signers: make(map[int]*Signer, total),
	}
	for _, share := range shares {
		signer, err := NewSigner(share, nil)
		if err != nil {
			t.Fatalf("NewSigner(%d) failed: %v", share.Index, err)
		}
		f.shares[share.Index] = share
		f.signers[share.Index] = signer
	}
	return f
}

func testConfig() *SessionConfig {
	return DefaultSessionConfig(time.Minute)
}

func (f *fixture) newSession(t *testing.T, message []byte, quorum []int) *Session {
	t.Helper()

	s, err := NewSession(crand.Reader, SessionParams{Message: message, Quorum: quorum, Public: f.public}, testConfig())
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return s
}

// commitAll runs round 1 and returns every participant's nonce
func (f *fixture) commitAll(t *testing.T, s *Session) map[int]*Nonce {
	t.Helper()

	req := s.Request()
	nonces := make(map[int]*Nonce, len(req.Quorum))
	for _, idx := range req.Quorum {
		nonce, nc, err := f.signers[idx].Commit(crand.Reader, req)
		if err != nil {
			t.Fatalf("Commit(%d) failed: %v", idx, err)
		}
		if err := s.AddCommitment(nc); err != nil {
			t.Fatalf("AddCommitment(%d) failed: %v", idx, err)
		}
		nonces[idx] = nonce
	}
	return nonces
}

// sign runs a whole honest session
func (f *fixture) sign(t *testing.T, message []byte, quorum []int) *Signature {
	t.Helper()

	s := f.newSession(t, message, quorum)
	nonces := f.commitAll(t, s)

	pkg, err := s.SigningPackage()
	if err != nil {
		t.Fatalf("SigningPackage failed: %v", err)
	}
	for _, idx := range s.Quorum() {
		ps, err := f.signers[idx].Sign(nonces[idx], pkg)
		if err != nil {
			t.Fatalf("Sign(%d) failed: %v", idx, err)
		}
		if err := s.AddPartialSignature(ps); err != nil {
			t.Fatalf("AddPartialSignature(%d) failed: %v", idx, err)
		}
	}

	sig, err := s.Combine()
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if s.State() != StateCombined {
		t.Fatalf("Expected state %s, got %s", StateCombined, s.State())
	}
	return sig
}
