// Package hash provides the SHA-512 derivations used by Ed25519 threshold signing:
// the signature challenge and hedged per-session nonces.
package hash

import (
	"crypto/sha512"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/Caqil/ed25519-tss/internal/security"
	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
)

// NonceRandomSize is the amount of fresh randomness mixed into every nonce
const NonceRandomSize = 64

// nonceDomain separates nonce derivation from any other use of the same share bytes
var nonceDomain = []byte("ed25519-tss/v1/nonce")

// HashToScalar hashes the concatenation of parts with SHA-512 and reduces the digest mod ℓ
func HashToScalar(parts ...[]byte) *curve.Scalar {
	h := sha512.New()
	for _, part := range parts {
		h.Write(part)
	}
	digest := h.Sum(nil)

	s, err := curve.ScalarFromWideBytes(digest)
	if err != nil {
		// SHA-512 always yields 64 bytes
		panic(err)
	}
	return s
}

// Challenge computes the Ed25519 challenge c = SHA-512(R ‖ A ‖ M) mod ℓ.
// The encoding order matches RFC 8032 so any standard verifier derives the same value.
func Challenge(R, publicKey *curve.Point, message []byte) *curve.Scalar {
	return ChallengeFromBytes(R.Bytes(), publicKey.Bytes(), message)
}

// ChallengeFromBytes computes the challenge from already-encoded R and A
func ChallengeFromBytes(encodedR, encodedPublicKey, message []byte) *curve.Scalar {
	return HashToScalar(encodedR, encodedPublicKey, message)
}

// DeriveNonce derives a per-session nonce scalar from the signer's share, the session,
// the message and NonceRandomSize bytes of fresh randomness from rng.
//
// HKDF-SHA512 is keyed with random ‖ share, salted with the session ID and bound to the
// message through the info string. With a good rng the result is uniform; with a broken rng
// it still differs per (share, session, message).
func DeriveNonce(rng io.Reader, share *curve.Scalar, sessionID, message []byte) (*curve.Scalar, error) {
	if rng == nil {
		return nil, ErrNilReader
	}
	if share == nil {
		return nil, ErrNilSecret
	}

	ikm := make([]byte, NonceRandomSize+curve.ScalarSize)
	defer security.SecureZero(ikm)

	if _, err := io.ReadFull(rng, ikm[:NonceRandomSize]); err != nil {
		return nil, err
	}
	copy(ikm[NonceRandomSize:], share.Bytes())

	info := make([]byte, 0, len(nonceDomain)+len(message))
	info = append(info, nonceDomain...)
	info = append(info, message...)

	wide := make([]byte, curve.WideScalarSize)
	defer security.SecureZero(wide)

	if _, err := io.ReadFull(hkdf.New(sha512.New, ikm, sessionID, info), wide); err != nil {
		return nil, err
	}

	return curve.ScalarFromWideBytes(wide)
}
