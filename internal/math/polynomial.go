// Package math implements polynomial arithmetic and Shamir secret sharing over the Ed25519 scalar field
package math

import (
	"io"

	"github.com/Caqil/ed25519-tss/internal/security"
	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
	"github.com/Caqil/ed25519-tss/pkg/crypto/rand"
)

// Polynomial represents f(x) = coefficients[0] + coefficients[1]*x + ... mod ℓ
type Polynomial struct {
	// Coefficients in ascending order (index 0 is constant term)
	Coefficients []*curve.Scalar
}

// NewRandomPolynomial generates a polynomial of the given degree with the given constant term.
// The remaining coefficients are sampled uniformly from rng. The constant term is copied,
// so the caller keeps ownership of its own secret.
func NewRandomPolynomial(rng io.Reader, degree int, constantTerm *curve.Scalar) (*Polynomial, error) {
	if degree < 0 {
		return nil, ErrInvalidDegree
	}
	if constantTerm == nil {
		return nil, ErrNilSecret
	}

	coefficients := make([]*curve.Scalar, degree+1)
	coefficients[0] = curve.CloneScalar(constantTerm)

	for i := 1; i <= degree; i++ {
		coef, err := rand.GenerateRandomScalar(rng)
		if err != nil {
			security.ZeroScalars(coefficients[:i])
			return nil, err
		}
		coefficients[i] = coef
	}

	return &Polynomial{Coefficients: coefficients}, nil
}

// Degree returns the nominal degree (number of coefficients minus one)
func (p *Polynomial) Degree() int {
	return len(p.Coefficients) - 1
}

// Evaluate computes f(x) using Horner's method
func (p *Polynomial) Evaluate(x *curve.Scalar) *curve.Scalar {
	n := len(p.Coefficients)
	if n == 0 {
		return curve.NewScalar()
	}

	// f(x) = a₀ + x(a₁ + x(a₂ + ...))
	result := curve.CloneScalar(p.Coefficients[n-1])
	for i := n - 2; i >= 0; i-- {
		result.MultiplyAdd(result, x, p.Coefficients[i])
	}

	return result
}

// EvaluateAt computes f(index) for an integer evaluation point
func (p *Polynomial) EvaluateAt(index int) *curve.Scalar {
	return p.Evaluate(curve.ScalarFromInt(index))
}

// Constant returns a copy of the constant term f(0)
func (p *Polynomial) Constant() *curve.Scalar {
	return curve.CloneScalar(p.Coefficients[0])
}

// Zeroize overwrites every coefficient. The polynomial is unusable afterwards.
func (p *Polynomial) Zeroize() {
	if p == nil {
		return
	}
	security.ZeroScalars(p.Coefficients)
	p.Coefficients = nil
}
