package keygen

import (
	"io"

	"github.com/Caqil/ed25519-tss/internal/math"
	"github.com/Caqil/ed25519-tss/pkg/crypto/commitment"
	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
)

// Dealing is one Feldman VSS distribution: a share per index and a public commitment
// C_k = a_k·B to every coefficient of the sharing polynomial.
// The polynomial itself is zeroized as soon as the dealing is built.
type Dealing struct {
	// Threshold is the minimum number of shares needed
	Threshold int

	// Shares are the private shares, one per index
	Shares []*math.Share

	// Commitment is the public commitment to the polynomial
	Commitment *commitment.PolynomialCommitment
}

// NewDealing shares secret among indices with Feldman commitments.
// The caller keeps ownership of secret.
func NewDealing(rng io.Reader, secret *curve.Scalar, threshold int, indices []int) (*Dealing, error) {
	if secret == nil {
		return nil, ErrNilSecret
	}

	shares, polynomial, err := math.Split(rng, secret, threshold, indices)
	if err != nil {
		return nil, err
	}
	defer polynomial.Zeroize()

	commit, err := commitment.Commit(polynomial)
	if err != nil {
		return nil, err
	}

	return &Dealing{
		Threshold:  threshold,
		Shares:     shares,
		Commitment: commit,
	}, nil
}

// Share returns the share for index, or nil
func (d *Dealing) Share(index int) *math.Share {
	for _, s := range d.Shares {
		if s.Index == index {
			return s
		}
	}
	return nil
}

// Zeroize destroys every private share in the dealing
func (d *Dealing) Zeroize() {
	for _, s := range d.Shares {
		s.Zeroize()
	}
}

// VerifyFeldman checks that share lies on the polynomial committed to by c.
// Verifies: f(i)·B = Σ_k i^k·C_k
func VerifyFeldman(share *math.Share, c *commitment.PolynomialCommitment) bool {
	if share == nil || share.Value == nil || c == nil {
		return false
	}
	return c.VerifyShare(share.Index, share.Value)
}

// BatchVerifyFeldman verifies multiple shares against the same commitment
func BatchVerifyFeldman(shares []*math.Share, c *commitment.PolynomialCommitment) []bool {
	results := make([]bool, len(shares))
	for i, s := range shares {
		results[i] = VerifyFeldman(s, c)
	}
	return results
}
