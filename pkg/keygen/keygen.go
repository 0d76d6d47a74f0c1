// Package keygen creates and validates threshold Ed25519 key material.
//
// A trusted dealer (DealerSetup, SplitSeed) or the additive DKG in dkg.go produces one KeyShare per
// participant and a PublicKeyPackage that everyone may know. Shares and public shares are
// independent values paired by participant index; nothing links them by pointer.
package keygen

import (
	"fmt"
	"io"
	"slices"

	"github.com/Caqil/ed25519-tss/internal/math"
	"github.com/Caqil/ed25519-tss/internal/security"
	"github.com/Caqil/ed25519-tss/pkg/crypto/commitment"
	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
	"github.com/Caqil/ed25519-tss/pkg/crypto/rand"
)

// KeyShare is a participant's private share of the group key
type KeyShare struct {
	// Index is this participant's non-zero evaluation point
	Index int

	// Threshold is the minimum number of participants needed to sign
	Threshold int

	// Value is f(Index). Never log or serialize it in the clear.
	Value *curve.Scalar

	// GroupKey is the group public key the share belongs to
	GroupKey *curve.Point
}

// PublicShare returns Value·B, the share's public commitment
func (k *KeyShare) PublicShare() *curve.Point {
	return curve.ScalarBaseMult(k.Value)
}

// Share returns the share as a Shamir point, for reconstruction
func (k *KeyShare) Share() *math.Share {
	return &math.Share{Index: k.Index, Value: curve.CloneScalar(k.Value)}
}

// Zeroize destroys the secret share, e.g. on key rotation
func (k *KeyShare) Zeroize() {
	if k == nil {
		return
	}
	security.ZeroScalar(k.Value)
}

// Validate checks the structural invariants of the share
func (k *KeyShare) Validate() error {
	if k == nil || k.Value == nil || k.GroupKey == nil {
		return ErrInvalidParameters
	}
	if err := security.ValidateIndex(k.Index); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	if k.Threshold < 1 {
		return ErrInvalidParameters
	}
	return nil
}

// PublicShare is a participant's public verification point Y_i = x_i·B
type PublicShare struct {
	Index int
	Point *curve.Point
}

// PublicKeyPackage is the public output of key generation, shared by all participants
// and the signing coordinator
type PublicKeyPackage struct {
	// Threshold is the minimum number of participants needed to sign
	Threshold int

	// GroupKey is the Ed25519 public key signatures verify under
	GroupKey *curve.Point

	// PublicShares maps participant index to Y_i
	PublicShares map[int]*curve.Point

	// Commitment is the Feldman commitment to the sharing polynomial; nil when the
	// key was produced without one
	Commitment *commitment.PolynomialCommitment
}

// Indices returns the participant indices in ascending order
func (p *PublicKeyPackage) Indices() []int {
	indices := make([]int, 0, len(p.PublicShares))
	for idx := range p.PublicShares {
		indices = append(indices, idx)
	}
	slices.Sort(indices)
	return indices
}

// Total returns the number of participants
func (p *PublicKeyPackage) Total() int {
	return len(p.PublicShares)
}

// PublicShare returns Y_i for index, or nil if index is not a participant
func (p *PublicKeyPackage) PublicShare(index int) *curve.Point {
	return p.PublicShares[index]
}

// PublicShareList returns the public shares sorted by index
func (p *PublicKeyPackage) PublicShareList() []PublicShare {
	indices := p.Indices()
	list := make([]PublicShare, len(indices))
	for i, idx := range indices {
		list[i] = PublicShare{Index: idx, Point: p.PublicShares[idx]}
	}
	return list
}

// DealerConfig holds trusted dealer parameters
type DealerConfig struct {
	// Threshold is T
	Threshold int

	// Total is N
	Total int

	// Indices are the participants' evaluation points. Empty means 1..Total.
	Indices []int
}

// DefaultDealerConfig returns a configuration using indices 1..total
func DefaultDealerConfig(threshold, total int) *DealerConfig {
	return &DealerConfig{
		Threshold: threshold,
		Total:     total,
	}
}

// Validate checks the dealer parameters
func (c *DealerConfig) Validate() error {
	if err := security.ValidateThreshold(c.Threshold, c.Total); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	if len(c.Indices) == 0 {
		return nil
	}
	if len(c.Indices) != c.Total {
		return fmt.Errorf("%w: %d indices for %d participants", ErrInvalidParameters, len(c.Indices), c.Total)
	}
	if err := security.ValidateIndexSet(c.Indices); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	return nil
}

func (c *DealerConfig) indices() []int {
	if len(c.Indices) > 0 {
		return slices.Clone(c.Indices)
	}
	indices := make([]int, c.Total)
	for i := range indices {
		indices[i] = i + 1
	}
	return indices
}

// DealerSetup samples a fresh master secret and splits it T-of-N among indices 1..N.
// The master secret and the sharing polynomial are zeroized before returning.
func DealerSetup(rng io.Reader, threshold, total int) (*PublicKeyPackage, []*KeyShare, error) {
	return Deal(rng, DefaultDealerConfig(threshold, total))
}

// Deal is DealerSetup with explicit indices
func Deal(rng io.Reader, cfg *DealerConfig) (*PublicKeyPackage, []*KeyShare, error) {
	if cfg == nil {
		return nil, nil, ErrInvalidParameters
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	secret, err := rand.GenerateNonZeroScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	defer security.ZeroScalar(secret)

	return splitValidated(rng, secret, cfg)
}

// SplitSecret splits an existing secret scalar. The caller keeps ownership of secret.
func SplitSecret(rng io.Reader, secret *curve.Scalar, cfg *DealerConfig) (*PublicKeyPackage, []*KeyShare, error) {
	if secret == nil {
		return nil, nil, ErrNilSecret
	}
	if cfg == nil {
		return nil, nil, ErrInvalidParameters
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return splitValidated(rng, secret, cfg)
}

// SplitSeed splits an existing 32-byte Ed25519 seed. The group key equals the seed's
// standard Ed25519 public key, so existing verifiers keep working after the split.
func SplitSeed(rng io.Reader, seed []byte, cfg *DealerConfig) (*PublicKeyPackage, []*KeyShare, error) {
	if len(seed) != 32 {
		return nil, nil, ErrInvalidSeed
	}

	secret, err := curve.SecretScalarFromSeed(seed)
	if err != nil {
		return nil, nil, ErrInvalidSeed
	}
	defer security.ZeroScalar(secret)

	return SplitSecret(rng, secret, cfg)
}

func splitValidated(rng io.Reader, secret *curve.Scalar, cfg *DealerConfig) (*PublicKeyPackage, []*KeyShare, error) {
	dealing, err := NewDealing(rng, secret, cfg.Threshold, cfg.indices())
	if err != nil {
		return nil, nil, err
	}

	groupKey := dealing.Commitment.Secret()
	pub := &PublicKeyPackage{
		Threshold:    cfg.Threshold,
		GroupKey:     groupKey,
		PublicShares: make(map[int]*curve.Point, len(dealing.Shares)),
		Commitment:   dealing.Commitment,
	}

	shares := make([]*KeyShare, 0, len(dealing.Shares))
	for _, s := range dealing.Shares {
		pub.PublicShares[s.Index] = curve.ScalarBaseMult(s.Value)
		shares = append(shares, &KeyShare{
			Index:     s.Index,
			Threshold: cfg.Threshold,
			Value:     s.Value,
			GroupKey:  curve.ClonePoint(groupKey),
		})
	}

	return pub, shares, nil
}

// ReconstructSecret recovers the master secret from at least threshold key shares.
// Only for tests and emergency recovery: signing never reconstructs the key.
func ReconstructSecret(shares []*KeyShare) (*curve.Scalar, error) {
	if len(shares) == 0 || shares[0] == nil {
		return nil, ErrInsufficientShares
	}

	threshold := shares[0].Threshold
	points := make([]*math.Share, len(shares))
	for i, s := range shares {
		if s == nil || s.Threshold != threshold {
			return nil, ErrInsufficientShares
		}
		points[i] = s.Share()
	}
	defer func() {
		for _, p := range points {
			p.Zeroize()
		}
	}()

	return math.Reconstruct(points, threshold)
}
