package keygen

import (
	"fmt"
	"io"

	"github.com/Caqil/ed25519-tss/internal/math"
	"github.com/Caqil/ed25519-tss/internal/security"
	"github.com/Caqil/ed25519-tss/pkg/crypto/commitment"
	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
)

// RefreshDealing shares zero among indices. Adding the resulting shares to existing key
// shares re-randomizes them without changing the group key, so shares leaked before the
// refresh cannot be combined with shares issued after it.
func RefreshDealing(rng io.Reader, threshold int, indices []int) (*Dealing, error) {
	return NewDealing(rng, curve.NewScalar(), threshold, indices)
}

// ApplyRefresh adds a refresh share to k in place. delta must verify against c, and c must
// commit to zero; otherwise k is left unchanged and ErrCorruptShare is returned.
func (k *KeyShare) ApplyRefresh(delta *math.Share, c *commitment.PolynomialCommitment) error {
	if err := checkRefreshCommitment(c, k.Threshold); err != nil {
		return err
	}
	if delta == nil || delta.Index != k.Index {
		return fmt.Errorf("%w: refresh share is for another index", ErrCorruptShare)
	}
	if !VerifyFeldman(delta, c) {
		return fmt.Errorf("%w: refresh share fails Feldman check", ErrCorruptShare)
	}

	k.Value.Add(k.Value, delta.Value)
	return nil
}

// ApplyRefresh updates the public shares and commitment for a refresh dealing committed to by c
func (p *PublicKeyPackage) ApplyRefresh(c *commitment.PolynomialCommitment) error {
	if err := checkRefreshCommitment(c, p.Threshold); err != nil {
		return err
	}
	if err := security.ValidateIndexSet(p.Indices()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}

	updated := make(map[int]*curve.Point, len(p.PublicShares))
	for idx, y := range p.PublicShares {
		delta, err := c.Evaluate(idx)
		if err != nil {
			return err
		}
		updated[idx] = curve.Add(y, delta)
	}

	if p.Commitment != nil {
		next, err := p.Commitment.Add(c)
		if err != nil {
			return err
		}
		p.Commitment = next
	}
	p.PublicShares = updated

	return nil
}

func checkRefreshCommitment(c *commitment.PolynomialCommitment, threshold int) error {
	if c == nil || c.Threshold() != threshold {
		return fmt.Errorf("%w: refresh commitment has wrong degree", ErrCorruptShare)
	}
	if !curve.IsIdentity(c.Coefficients[0]) {
		return fmt.Errorf("%w: refresh commitment does not share zero", ErrCorruptShare)
	}
	return nil
}
