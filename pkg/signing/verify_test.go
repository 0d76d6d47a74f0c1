package signing

import (
	"crypto/ed25519"
	crand "crypto/rand"
	"errors"
	"testing"

	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
	"github.com/Caqil/ed25519-tss/pkg/crypto/hash"
)

// transcript is one finished round 2 for partial verification tests
type transcript struct {
	pkg         *SigningPackage
	commitments map[int]NonceCommitment
	partials    map[int]PartialSignature
	challenge   *curve.Scalar
}

func (f *fixture) transcript(t *testing.T, message []byte, quorum []int) *transcript {
	t.Helper()

	s := f.newSession(t, message, quorum)
	nonces := f.commitAll(t, s)
	pkg, err := s.SigningPackage()
	if err != nil {
		t.Fatalf("SigningPackage failed: %v", err)
	}

	tr := &transcript{
		pkg:         pkg,
		commitments: make(map[int]NonceCommitment),
		partials:    make(map[int]PartialSignature),
		challenge:   hash.Challenge(pkg.AggregateNonce(), pkg.GroupKey, pkg.Message),
	}
	for _, idx := range pkg.Quorum {
		tr.commitments[idx] = NonceCommitment{SessionID: pkg.SessionID, Index: idx, Point: pkg.Commitments[idx]}
		ps, err := f.signers[idx].Sign(nonces[idx], pkg)
		if err != nil {
			t.Fatalf("Sign failed: %v", err)
		}
		tr.partials[idx] = ps
	}
	return tr
}

// TestVerifyPartialSoundness tests that honest partials pass and bit flips, wrong
// indices and substituted commitments fail
func TestVerifyPartialSoundness(t *testing.T) {
	f := newFixture(t, 3, 5)
	quorum := []int{1, 3, 5}
	tr := f.transcript(t, []byte("audit"), quorum)

	lambda := func(idx int) *curve.Scalar {
		l, err := LagrangeCoefficient(idx, quorum, 3)
		if err != nil {
			t.Fatalf("LagrangeCoefficient failed: %v", err)
		}
		return l
	}

	for _, idx := range quorum {
		if !VerifyPartial(tr.partials[idx], tr.commitments[idx], f.public.PublicShare(idx), tr.challenge, lambda(idx)) {
			t.Errorf("Honest partial %d rejected", idx)
		}
	}

	// Every single-bit flip of s_1 that still decodes must fail
	enc := tr.partials[1].S.Bytes()
	for bit := 0; bit < 8*len(enc); bit++ {
		flipped := append([]byte(nil), enc...)
		flipped[bit/8] ^= 1 << (bit % 8)
		s, err := curve.DecodeScalar(flipped)
		if err != nil {
			continue
		}
		bad := PartialSignature{SessionID: tr.pkg.SessionID, Index: 1, S: s}
		if VerifyPartial(bad, tr.commitments[1], f.public.PublicShare(1), tr.challenge, lambda(1)) {
			t.Fatalf("Partial with bit %d flipped accepted", bit)
		}
	}

	// Mismatched participant index
	moved := tr.partials[1]
	moved.Index = 3
	if VerifyPartial(moved, tr.commitments[3], f.public.PublicShare(3), tr.challenge, lambda(3)) {
		t.Error("Partial under another index accepted")
	}
	if VerifyPartial(moved, tr.commitments[1], f.public.PublicShare(1), tr.challenge, lambda(1)) {
		t.Error("Partial with mismatched index accepted")
	}

	// Substituted nonce commitment
	sub := tr.commitments[1]
	sub.Point = curve.Add(sub.Point, curve.Generator())
	if VerifyPartial(tr.partials[1], sub, f.public.PublicShare(1), tr.challenge, lambda(1)) {
		t.Error("Partial with substituted commitment accepted")
	}
}

// TestVerifyBytes tests encoded verification and malformed inputs
func TestVerifyBytes(t *testing.T) {
	f := newFixture(t, 2, 3)
	msg := []byte("bytes")
	sig := f.sign(t, msg, []int{1, 2})
	key := curve.EncodePoint(f.public.GroupKey)

	ok, err := VerifyBytes(sig.Bytes(), msg, key)
	if err != nil || !ok {
		t.Fatalf("Expected valid signature, got %v, %v", ok, err)
	}

	ok, err = VerifyBytes(sig.Bytes(), []byte("other"), key)
	if err != nil || ok {
		t.Errorf("Expected false without error, got %v, %v", ok, err)
	}

	if _, err := VerifyBytes(sig.Bytes()[:63], msg, key); !errors.Is(err, ErrMalformedSignature) {
		t.Errorf("Expected ErrMalformedSignature for short input, got %v", err)
	}

	bad := sig.Bytes()
	for i := 32; i < 64; i++ {
		bad[i] = 0xff
	}
	if _, err := VerifyBytes(bad, msg, key); !errors.Is(err, ErrMalformedSignature) {
		t.Errorf("Expected ErrMalformedSignature for non-canonical s, got %v", err)
	}

	parsed, err := ParseSignature(sig.Bytes())
	if err != nil {
		t.Fatalf("ParseSignature failed: %v", err)
	}
	if !Verify(parsed, msg, f.public.GroupKey) {
		t.Error("Parsed signature does not verify")
	}
}

// TestVerifyStandardSignature tests that plain Ed25519 signatures verify too
func TestVerifyStandardSignature(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(crand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	msg := []byte("single key")

	ok, err := VerifyBytes(ed25519.Sign(priv, msg), msg, pub)
	if err != nil || !ok {
		t.Errorf("Standard signature rejected: %v, %v", ok, err)
	}

	if Verify(nil, msg, curve.Generator()) {
		t.Error("Nil signature accepted")
	}
}
