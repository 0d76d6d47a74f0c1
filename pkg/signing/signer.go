package signing

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/Caqil/ed25519-tss/internal/math"
	"github.com/Caqil/ed25519-tss/internal/security"
	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
	"github.com/Caqil/ed25519-tss/pkg/crypto/hash"
	"github.com/Caqil/ed25519-tss/pkg/keygen"
	"github.com/Caqil/ed25519-tss/pkg/logger"
)

// Signer is the participant side of the signing protocol. It holds one key share and
// only reads it, so one Signer may serve any number of concurrent sessions.
type Signer struct {
	share *keygen.KeyShare
	log   *logger.Logger
}

// NewSigner creates a signer for share. A nil logger disables logging.
func NewSigner(share *keygen.KeyShare, log *logger.Logger) (*Signer, error) {
	if share == nil {
		return nil, ErrInvalidKeyShare
	}
	if err := share.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeyShare, err)
	}
	if curve.IsZeroScalar(share.Value) {
		return nil, ErrInvalidKeyShare
	}

	return &Signer{
		share: share,
		log:   logger.OrNop(log).With().Int("participant", share.Index).Logger(),
	}, nil
}

// Index returns the signer's participant index
func (s *Signer) Index() int {
	return s.share.Index
}

// Nonce is the secret half of a nonce commitment. It is bound to one session and one
// message, can be used for exactly one Sign call, and is only obtainable from Commit.
type Nonce struct {
	mu        sync.Mutex
	sessionID SessionID
	message   []byte
	quorum    []int
	r         *curve.Scalar
	point     *curve.Point
}

// SessionID returns the session the nonce is bound to
func (n *Nonce) SessionID() SessionID {
	return n.sessionID
}

// Discard zeroizes the nonce. Discarding twice is harmless.
func (n *Nonce) Discard() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.r != nil {
		security.ZeroScalar(n.r)
		n.r = nil
	}
}

// take returns the secret scalar and marks the nonce consumed
func (n *Nonce) take() (*curve.Scalar, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.r == nil {
		return nil, ErrNonceConsumed
	}
	r := n.r
	n.r = nil
	return r, nil
}

// Commit samples a fresh nonce for req and returns its commitment. Every call draws new
// randomness, so there is no way to obtain the same nonce twice.
func (s *Signer) Commit(rng io.Reader, req *SessionRequest) (*Nonce, NonceCommitment, error) {
	if req == nil {
		return nil, NonceCommitment{}, ErrInvalidParameters
	}
	if err := security.ValidateIndexSet(req.Quorum); err != nil {
		return nil, NonceCommitment{}, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	if !slices.Contains(req.Quorum, s.share.Index) {
		return nil, NonceCommitment{}, fmt.Errorf("%w: %d", ErrInvalidPartyID, s.share.Index)
	}
	if len(req.Quorum) < s.share.Threshold {
		return nil, NonceCommitment{}, ErrQuorumTooSmall
	}

	r, err := hash.DeriveNonce(rng, s.share.Value, req.SessionID[:], req.Message)
	if err != nil {
		return nil, NonceCommitment{}, err
	}
	if curve.IsZeroScalar(r) {
		return nil, NonceCommitment{}, ErrInvalidCommitment
	}

	R := curve.ScalarBaseMult(r)
	nonce := &Nonce{
		sessionID: req.SessionID,
		message:   slices.Clone(req.Message),
		quorum:    slices.Clone(req.Quorum),
		r:         r,
		point:     R,
	}

	s.log.DebugEvent().Str("session", req.SessionID.String()).Msg("nonce committed")

	return nonce, NonceCommitment{
		SessionID: req.SessionID,
		Index:     s.share.Index,
		Point:     curve.ClonePoint(R),
	}, nil
}

// Sign computes this participant's partial signature for pkg. The nonce is consumed by
// the call whether or not it succeeds; a second call returns ErrNonceConsumed.
func (s *Signer) Sign(nonce *Nonce, pkg *SigningPackage) (PartialSignature, error) {
	if nonce == nil || pkg == nil {
		return PartialSignature{}, ErrInvalidParameters
	}

	r, err := nonce.take()
	if err != nil {
		return PartialSignature{}, err
	}
	defer security.ZeroScalar(r)

	if err := s.checkPackage(nonce, pkg); err != nil {
		s.log.WarnEvent().Str("session", pkg.SessionID.String()).Err(err).Msg("refusing to sign")
		return PartialSignature{}, err
	}

	lambda, err := math.LagrangeCoefficient(s.share.Index, pkg.Quorum, s.share.Threshold)
	if err != nil {
		return PartialSignature{}, err
	}

	R := pkg.AggregateNonce()
	c := hash.Challenge(R, s.share.GroupKey, pkg.Message)

	// s_i = r_i + c·λ_i·x_i
	weighted := curve.NewScalar().Multiply(c, lambda)
	defer security.ZeroScalar(weighted)
	si := curve.NewScalar().MultiplyAdd(weighted, s.share.Value, r)

	s.log.DebugEvent().Str("session", pkg.SessionID.String()).Msg("partial signature produced")

	return PartialSignature{
		SessionID: pkg.SessionID,
		Index:     s.share.Index,
		S:         si,
	}, nil
}

// checkPackage rejects a package that does not match what the nonce was committed for
func (s *Signer) checkPackage(nonce *Nonce, pkg *SigningPackage) error {
	if pkg.SessionID != nonce.sessionID {
		return ErrSessionMismatch
	}
	if !bytes.Equal(pkg.Message, nonce.message) {
		return fmt.Errorf("%w: message differs from the committed one", ErrSessionMismatch)
	}
	if !slices.Equal(pkg.Quorum, nonce.quorum) {
		return fmt.Errorf("%w: quorum differs from the committed one", ErrSessionMismatch)
	}
	if !curve.PointsEqual(pkg.GroupKey, s.share.GroupKey) {
		return fmt.Errorf("%w: package is for another group key", ErrInvalidParameters)
	}
	if len(pkg.Commitments) != len(pkg.Quorum) {
		return fmt.Errorf("%w: %d commitments for %d participants", ErrInvalidCommitment, len(pkg.Commitments), len(pkg.Quorum))
	}
	for _, idx := range pkg.Quorum {
		p, ok := pkg.Commitments[idx]
		if !ok {
			return fmt.Errorf("%w: missing commitment from %d", ErrInvalidCommitment, idx)
		}
		if err := curve.ValidateNonZeroPoint(p); err != nil {
			return fmt.Errorf("%w: participant %d: %w", ErrInvalidCommitment, idx, err)
		}
	}
	if !curve.PointsEqual(pkg.Commitments[s.share.Index], nonce.point) {
		return fmt.Errorf("%w: own commitment was substituted", ErrInvalidCommitment)
	}
	return nil
}
