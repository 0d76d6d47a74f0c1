package signing

import (
	"fmt"

	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
)

// SignatureSize is the length of an encoded signature, as in crypto/ed25519
const SignatureSize = curve.PointSize + curve.ScalarSize

// Signature is an aggregate threshold signature. It is an ordinary Ed25519 signature.
type Signature struct {
	R *curve.Point
	S *curve.Scalar
}

// Bytes encodes the signature as R ‖ s
func (sig *Signature) Bytes() []byte {
	out := make([]byte, 0, SignatureSize)
	out = append(out, sig.R.Bytes()...)
	out = append(out, sig.S.Bytes()...)
	return out
}

// ParseSignature decodes R ‖ s, rejecting non-canonical encodings
func ParseSignature(data []byte) (*Signature, error) {
	if len(data) != SignatureSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedSignature, SignatureSize, len(data))
	}

	R, err := curve.DecodePoint(data[:curve.PointSize])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSignature, err)
	}
	s, err := curve.DecodeScalar(data[curve.PointSize:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSignature, err)
	}

	return &Signature{R: R, S: s}, nil
}
