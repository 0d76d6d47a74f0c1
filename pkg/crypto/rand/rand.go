// Package rand provides random scalar generation over an injected entropy source.
//
// There is no package-level reader: every caller passes the io.Reader it wants to draw from,
// normally crypto/rand.Reader. NewDeterministicReader exists for reproducible tests.
package rand

import (
	"io"

	"golang.org/x/crypto/chacha20"

	"github.com/Caqil/ed25519-tss/internal/security"
	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
)

// GenerateRandomBytes reads n bytes from rng
func GenerateRandomBytes(rng io.Reader, n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrInvalidLength
	}
	if rng == nil {
		return nil, ErrNilReader
	}

	bytes := make([]byte, n)
	if _, err := io.ReadFull(rng, bytes); err != nil {
		return nil, err
	}

	return bytes, nil
}

// GenerateRandomScalar samples a uniform scalar by reducing 64 random bytes mod ℓ.
// The result may be zero with negligible probability; use GenerateNonZeroScalar where
// zero is not acceptable.
func GenerateRandomScalar(rng io.Reader) (*curve.Scalar, error) {
	wide, err := GenerateRandomBytes(rng, curve.WideScalarSize)
	if err != nil {
		return nil, err
	}
	defer security.SecureZero(wide)

	return curve.ScalarFromWideBytes(wide)
}

// GenerateNonZeroScalar samples a uniform scalar in [1, ℓ)
func GenerateNonZeroScalar(rng io.Reader) (*curve.Scalar, error) {
	for {
		s, err := GenerateRandomScalar(rng)
		if err != nil {
			return nil, err
		}
		if !curve.IsZeroScalar(s) {
			return s, nil
		}
	}
}

// deterministicReader is a ChaCha20 keystream
type deterministicReader struct {
	cipher *chacha20.Cipher
}

// NewDeterministicReader returns a reproducible stream derived from seed.
// It is meant for tests only; the same seed always produces the same bytes.
func NewDeterministicReader(seed [32]byte) io.Reader {
	var nonce [chacha20.NonceSize]byte

	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		// Key and nonce sizes are fixed above
		panic(err)
	}
	return &deterministicReader{cipher: c}
}

func (r *deterministicReader) Read(p []byte) (int, error) {
	clear(p)
	r.cipher.XORKeyStream(p, p)
	return len(p), nil
}
