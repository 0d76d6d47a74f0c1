package signing

import (
	"fmt"

	"github.com/Caqil/ed25519-tss/internal/math"
	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
	"github.com/Caqil/ed25519-tss/pkg/crypto/hash"
)

// Verify checks an aggregate signature with the standard Ed25519 equation
// s·B == R + c·A, c = SHA-512(R ‖ A ‖ M) mod ℓ. It returns false for any failing
// or incomplete input.
func Verify(sig *Signature, message []byte, groupKey *curve.Point) bool {
	if sig == nil || sig.R == nil || sig.S == nil || groupKey == nil {
		return false
	}

	c := hash.Challenge(sig.R, groupKey, message)

	// R' = s·B - c·A
	check := curve.VarTimeDoubleScalarBaseMult(c, curve.Negate(groupKey), sig.S)

	return curve.PointsEqual(check, sig.R)
}

// VerifyBytes verifies an encoded signature under an encoded group key. Structural
// decode failures return ErrMalformedSignature; a well-formed but wrong signature returns
// false and no error.
func VerifyBytes(signature, message, groupKey []byte) (bool, error) {
	sig, err := ParseSignature(signature)
	if err != nil {
		return false, err
	}
	A, err := curve.DecodePoint(groupKey)
	if err != nil {
		return false, fmt.Errorf("%w: group key: %w", ErrMalformedSignature, err)
	}
	return Verify(sig, message, A), nil
}

// VerifyPartial checks s_i·B == R_i + c·λ_i·Y_i for one participant's contribution.
// The partial and the commitment must name the same participant and session.
func VerifyPartial(partial PartialSignature, commitment NonceCommitment, publicShare *curve.Point, challenge, coefficient *curve.Scalar) bool {
	if partial.S == nil || commitment.Point == nil || publicShare == nil || challenge == nil || coefficient == nil {
		return false
	}
	if partial.Index != commitment.Index || partial.SessionID != commitment.SessionID {
		return false
	}

	// R_i = s_i·B - (c·λ_i)·Y_i
	k := curve.NewScalar().Multiply(challenge, coefficient)
	check := curve.VarTimeDoubleScalarBaseMult(k, curve.Negate(publicShare), partial.S)

	return curve.PointsEqual(check, commitment.Point)
}

// LagrangeCoefficient returns λ_i over quorum, for auditors re-checking a transcript
func LagrangeCoefficient(index int, quorum []int, threshold int) (*curve.Scalar, error) {
	return math.LagrangeCoefficient(index, quorum, threshold)
}
