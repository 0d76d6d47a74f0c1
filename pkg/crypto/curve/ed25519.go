package curve

import (
	"bytes"
	"crypto/sha512"

	"filippo.io/edwards25519"
)

// EncodeScalar returns the 32-byte little-endian canonical encoding of s
func EncodeScalar(s *Scalar) []byte {
	return s.Bytes()
}

// DecodeScalar parses a canonical 32-byte little-endian scalar.
// Values >= ℓ are rejected.
func DecodeScalar(data []byte) (*Scalar, error) {
	if len(data) != ScalarSize {
		return nil, ErrMalformedScalar
	}

	s, err := edwards25519.NewScalar().SetCanonicalBytes(data)
	if err != nil {
		return nil, ErrMalformedScalar
	}
	return s, nil
}

// ScalarFromWideBytes reduces a 64-byte value modulo ℓ
func ScalarFromWideBytes(data []byte) (*Scalar, error) {
	if len(data) != WideScalarSize {
		return nil, ErrInvalidLength
	}

	s, err := edwards25519.NewScalar().SetUniformBytes(data)
	if err != nil {
		return nil, ErrInvalidLength
	}
	return s, nil
}

// EncodePoint returns the 32-byte compressed encoding of p
func EncodePoint(p *Point) []byte {
	return p.Bytes()
}

// DecodePoint parses a compressed point, rejecting non-canonical encodings.
// edwards25519 accepts non-canonical y coordinates, so the result is re-encoded and compared.
func DecodePoint(data []byte) (*Point, error) {
	if len(data) != PointSize {
		return nil, ErrMalformedPoint
	}

	p, err := new(edwards25519.Point).SetBytes(data)
	if err != nil {
		return nil, ErrMalformedPoint
	}

	if !bytes.Equal(p.Bytes(), data) {
		return nil, ErrMalformedPoint
	}

	return p, nil
}

// DecodeNonZeroPoint parses a point like DecodePoint and additionally rejects
// the identity and small-order points. Nonce commitments and public shares use this.
func DecodeNonZeroPoint(data []byte) (*Point, error) {
	p, err := DecodePoint(data)
	if err != nil {
		return nil, err
	}

	if IsSmallOrder(p) {
		return nil, ErrIdentityPoint
	}
	return p, nil
}

// ValidateNonZeroPoint checks an already-decoded point the same way DecodeNonZeroPoint does
func ValidateNonZeroPoint(p *Point) error {
	if p == nil {
		return ErrMalformedPoint
	}
	if IsSmallOrder(p) {
		return ErrIdentityPoint
	}
	return nil
}

// SecretScalarFromSeed derives the Ed25519 secret scalar from a 32-byte seed as in RFC 8032:
// the first half of SHA-512(seed), clamped. The returned scalar is reduced mod ℓ, so
// SecretScalarFromSeed(seed)*B equals the standard Ed25519 public key of seed.
func SecretScalarFromSeed(seed []byte) (*Scalar, error) {
	if len(seed) != 32 {
		return nil, ErrInvalidLength
	}

	h := sha512.Sum512(seed)
	defer clear(h[:])

	s, err := edwards25519.NewScalar().SetBytesWithClamping(h[:32])
	if err != nil {
		return nil, ErrInvalidLength
	}
	return s, nil
}
