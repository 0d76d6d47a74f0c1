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

// DKGProtocol runs one participant's side of the additive key generation: every
// participant acts as a Feldman dealer of a random secret, and each final share is the
// sum of the shares received from all dealers. No participant ever learns the group secret.
//
// Message delivery is the caller's responsibility. Round 1 output must reach every
// participant before Round 2 output is revealed.
type DKGProtocol struct {
	index     int
	threshold int
	indices   []int

	round int

	// Private state
	dealing        *Dealing
	receivedData   map[int]*Round1Data // Round 1 data from others
	receivedShares map[int]*math.Share // Round 2 shares from others
}

// Round1Data contains data broadcast in DKG round 1
type Round1Data struct {
	FromParty  int
	Commitment *commitment.PolynomialCommitment
}

// Round2Data contains data sent privately in DKG round 2
type Round2Data struct {
	FromParty int
	ToParty   int
	Share     *curve.Scalar
}

// NewDKGProtocol creates the protocol state for participant index among indices
func NewDKGProtocol(index, threshold int, indices []int) (*DKGProtocol, error) {
	if err := security.ValidateThreshold(threshold, len(indices)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	if err := security.ValidateIndexSet(indices); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	if !slices.Contains(indices, index) {
		return nil, ErrInvalidPartyID
	}

	sorted := slices.Clone(indices)
	slices.Sort(sorted)

	return &DKGProtocol{
		index:          index,
		threshold:      threshold,
		indices:        sorted,
		receivedData:   make(map[int]*Round1Data),
		receivedShares: make(map[int]*math.Share),
	}, nil
}

// Index returns this participant's index
func (d *DKGProtocol) Index() int {
	return d.index
}

// Round1 samples this participant's secret contribution, shares it and returns the
// commitment to broadcast
func (d *DKGProtocol) Round1(rng io.Reader) (*Round1Data, error) {
	if d.round != 0 {
		return nil, ErrRoundOrder
	}

	secret, err := rand.GenerateNonZeroScalar(rng)
	if err != nil {
		return nil, err
	}
	defer security.ZeroScalar(secret)

	dealing, err := NewDealing(rng, secret, d.threshold, d.indices)
	if err != nil {
		return nil, err
	}
	d.dealing = dealing
	d.round = 1

	return &Round1Data{
		FromParty:  d.index,
		Commitment: dealing.Commitment,
	}, nil
}

// Round2 records everyone's commitments and returns one private share per other participant.
// Own Round 1 data may be included in round1Data and is skipped.
func (d *DKGProtocol) Round2(round1Data []*Round1Data) ([]*Round2Data, error) {
	if d.round != 1 {
		return nil, ErrRoundOrder
	}

	for _, data := range round1Data {
		if data == nil || data.Commitment == nil {
			return nil, ErrMissingRound1Data
		}
		if data.FromParty == d.index {
			continue
		}
		if !slices.Contains(d.indices, data.FromParty) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidPartyID, data.FromParty)
		}
		if _, ok := d.receivedData[data.FromParty]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateParty, data.FromParty)
		}
		if data.Commitment.Threshold() != d.threshold {
			return nil, fmt.Errorf("%w: party %d committed to %d coefficients",
				ErrCorruptShare, data.FromParty, data.Commitment.Threshold())
		}
		d.receivedData[data.FromParty] = data
	}

	if len(d.receivedData) != len(d.indices)-1 {
		return nil, ErrMissingRound1Data
	}

	round2Data := make([]*Round2Data, 0, len(d.indices)-1)
	for _, idx := range d.indices {
		if idx == d.index {
			continue
		}
		share := d.dealing.Share(idx)
		round2Data = append(round2Data, &Round2Data{
			FromParty: d.index,
			ToParty:   idx,
			Share:     curve.CloneScalar(share.Value),
		})
	}
	d.round = 2

	return round2Data, nil
}

// Round3 verifies each received share against its sender's commitment and combines them
// into the final key share. ErrCorruptShare names the first sender whose share fails.
func (d *DKGProtocol) Round3(round2Data []*Round2Data) (*KeyShare, *PublicKeyPackage, error) {
	if d.round != 2 {
		return nil, nil, ErrRoundOrder
	}

	for _, data := range round2Data {
		if data == nil || data.Share == nil {
			return nil, nil, ErrMissingRound2Data
		}
		if data.ToParty != d.index {
			return nil, nil, fmt.Errorf("%w: share addressed to %d", ErrInvalidPartyID, data.ToParty)
		}
		round1, ok := d.receivedData[data.FromParty]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %d", ErrInvalidPartyID, data.FromParty)
		}
		if _, ok := d.receivedShares[data.FromParty]; ok {
			return nil, nil, fmt.Errorf("%w: %d", ErrDuplicateParty, data.FromParty)
		}

		share := &math.Share{Index: d.index, Value: curve.CloneScalar(data.Share)}
		if !VerifyFeldman(share, round1.Commitment) {
			share.Zeroize()
			return nil, nil, fmt.Errorf("%w: from party %d", ErrCorruptShare, data.FromParty)
		}
		d.receivedShares[data.FromParty] = share
	}

	if len(d.receivedShares) != len(d.indices)-1 {
		return nil, nil, ErrMissingRound2Data
	}

	// x_i = f_i(i) + Σ_j f_j(i)
	final := curve.CloneScalar(d.dealing.Share(d.index).Value)
	aggregate := d.dealing.Commitment
	for _, idx := range d.indices {
		if idx == d.index {
			continue
		}
		final.Add(final, d.receivedShares[idx].Value)

		var err error
		aggregate, err = aggregate.Add(d.receivedData[idx].Commitment)
		if err != nil {
			security.ZeroScalar(final)
			return nil, nil, err
		}
	}

	pub := &PublicKeyPackage{
		Threshold:    d.threshold,
		GroupKey:     aggregate.Secret(),
		PublicShares: make(map[int]*curve.Point, len(d.indices)),
		Commitment:   aggregate,
	}
	for _, idx := range d.indices {
		ys, err := aggregate.Evaluate(idx)
		if err != nil {
			security.ZeroScalar(final)
			return nil, nil, err
		}
		pub.PublicShares[idx] = ys
	}

	if err := curve.ValidateNonZeroPoint(pub.GroupKey); err != nil {
		security.ZeroScalar(final)
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}

	d.zeroize()
	d.round = 3

	return &KeyShare{
		Index:     d.index,
		Threshold: d.threshold,
		Value:     final,
		GroupKey:  curve.ClonePoint(pub.GroupKey),
	}, pub, nil
}

func (d *DKGProtocol) zeroize() {
	if d.dealing != nil {
		d.dealing.Zeroize()
	}
	for _, s := range d.receivedShares {
		s.Zeroize()
	}
}
