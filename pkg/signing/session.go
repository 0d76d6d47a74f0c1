package signing

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/Caqil/ed25519-tss/internal/math"
	"github.com/Caqil/ed25519-tss/internal/security"
	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
	"github.com/Caqil/ed25519-tss/pkg/crypto/hash"
	"github.com/Caqil/ed25519-tss/pkg/crypto/rand"
	"github.com/Caqil/ed25519-tss/pkg/keygen"
	"github.com/Caqil/ed25519-tss/pkg/logger"
)

// State is the coordinator's position in the signing protocol
type State int

const (
	// StateInitialized collects nonce commitments
	StateInitialized State = iota

	// StateNonceCommitted has every commitment and collects partial signatures
	StateNonceCommitted

	// StatePartialSigned has every verified partial signature
	StatePartialSigned

	// StateCombined has produced the aggregate signature (terminal)
	StateCombined

	// StateAborted has failed or been cancelled (terminal)
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateNonceCommitted:
		return "nonce-committed"
	case StatePartialSigned:
		return "partial-signed"
	case StateCombined:
		return "combined"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SessionParams describes what a session signs and who signs it
type SessionParams struct {
	// Message is signed as-is; Ed25519 hashes it internally
	Message []byte

	// Quorum lists the participating indices, at least Public.Threshold of them
	Quorum []int

	// Public is the key generation output for the signing key
	Public *keygen.PublicKeyPackage
}

// SessionConfig holds per-session settings
type SessionConfig struct {
	// Deadline bounds both collection rounds. Required: there is no default timeout.
	Deadline time.Time

	// Logger receives protocol events; nil disables logging
	Logger *logger.Logger

	// Now returns the current time (default: time.Now)
	Now func() time.Time
}

// DefaultSessionConfig returns a configuration expiring timeout from now
func DefaultSessionConfig(timeout time.Duration) *SessionConfig {
	return &SessionConfig{
		Deadline: time.Now().Add(timeout),
		Now:      time.Now,
	}
}

// Validate checks the session configuration
func (c *SessionConfig) Validate() error {
	if c == nil || c.Deadline.IsZero() {
		return fmt.Errorf("%w: session deadline is required", ErrInvalidParameters)
	}
	return nil
}

// phase holds the data that exists only in one state
type phase interface {
	state() State
}

type initialized struct {
	commitments map[int]NonceCommitment
}

type nonceCommitted struct {
	commitments map[int]NonceCommitment
	R           *curve.Point
	challenge   *curve.Scalar
	lambdas     map[int]*curve.Scalar
	partials    map[int]*curve.Scalar
}

type partialSigned struct {
	R        *curve.Point
	partials map[int]*curve.Scalar
}

type combined struct {
	signature *Signature
}

type aborted struct {
	cause error
}

func (initialized) state() State    { return StateInitialized }
func (nonceCommitted) state() State { return StateNonceCommitted }
func (partialSigned) state() State  { return StatePartialSigned }
func (combined) state() State       { return StateCombined }
func (aborted) state() State        { return StateAborted }

// Session coordinates one signing of one message by one quorum.
// Methods are safe for concurrent use; transitions are serialized.
type Session struct {
	mu sync.Mutex

	id       SessionID
	message  []byte
	quorum   []int
	public   *keygen.PublicKeyPackage
	deadline time.Time
	now      func() time.Time
	log      *logger.Logger

	phase phase
}

// NewSession creates a coordinator session with a fresh random session ID
func NewSession(rng io.Reader, params SessionParams, cfg *SessionConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pub := params.Public
	if pub == nil || pub.GroupKey == nil || pub.Threshold < 1 {
		return nil, fmt.Errorf("%w: missing public key package", ErrInvalidParameters)
	}

	if err := security.ValidateIndexSet(params.Quorum); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	for _, idx := range params.Quorum {
		if pub.PublicShare(idx) == nil {
			return nil, fmt.Errorf("%w: unknown participant %d", ErrInvalidParameters, idx)
		}
	}
	if len(params.Quorum) < pub.Threshold {
		return nil, fmt.Errorf("%w: %d of %d", ErrQuorumTooSmall, len(params.Quorum), pub.Threshold)
	}

	raw, err := rand.GenerateRandomBytes(rng, SessionIDSize)
	if err != nil {
		return nil, err
	}
	var id SessionID
	copy(id[:], raw)

	quorum := slices.Clone(params.Quorum)
	slices.Sort(quorum)

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	s := &Session{
		id:       id,
		message:  slices.Clone(params.Message),
		quorum:   quorum,
		public:   pub,
		deadline: cfg.Deadline,
		now:      now,
		log:      logger.OrNop(cfg.Logger).With().Str("session", id.String()).Logger(),
		phase:    initialized{commitments: make(map[int]NonceCommitment, len(quorum))},
	}

	s.log.DebugEvent().Ints("quorum", quorum).Int("threshold", pub.Threshold).Msg("signing session created")

	return s, nil
}

// ID returns the session identifier
func (s *Session) ID() SessionID {
	return s.id
}

// Quorum returns the sorted quorum
func (s *Session) Quorum() []int {
	return slices.Clone(s.quorum)
}

// Deadline returns the session deadline
func (s *Session) Deadline() time.Time {
	return s.deadline
}

// State returns the current state, applying the deadline first
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	return s.phase.state()
}

// Err returns the abort cause, or nil if the session has not aborted
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	if a, ok := s.phase.(aborted); ok {
		return fmt.Errorf("%w: %w", ErrSessionAborted, a.cause)
	}
	return nil
}

// Request returns the message quorum members need to commit to a nonce
func (s *Session) Request() *SessionRequest {
	return &SessionRequest{
		SessionID: s.id,
		Message:   slices.Clone(s.message),
		Quorum:    slices.Clone(s.quorum),
	}
}

// AddCommitment records a quorum member's nonce commitment. The last commitment
// fixes R and the challenge and moves the session to StateNonceCommitted.
func (s *Session) AddCommitment(nc NonceCommitment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.liveLocked(); err != nil {
		return err
	}
	p, ok := s.phase.(initialized)
	if !ok {
		return fmt.Errorf("%w: commitments are closed in state %s", ErrInvalidState, s.phase.state())
	}
	if err := s.checkContribution(nc.SessionID, nc.Index); err != nil {
		return err
	}
	if _, dup := p.commitments[nc.Index]; dup {
		return fmt.Errorf("%w: commitment from %d", ErrDuplicateParty, nc.Index)
	}
	if err := curve.ValidateNonZeroPoint(nc.Point); err != nil {
		return fmt.Errorf("%w: participant %d: %w", ErrInvalidCommitment, nc.Index, err)
	}

	p.commitments[nc.Index] = NonceCommitment{
		SessionID: nc.SessionID,
		Index:     nc.Index,
		Point:     curve.ClonePoint(nc.Point),
	}
	s.log.DebugEvent().Int("participant", nc.Index).Msg("nonce commitment accepted")

	if len(p.commitments) < len(s.quorum) {
		return nil
	}

	return s.fixNoncesLocked(p)
}

// fixNoncesLocked computes R, the challenge and every λ_i once all commitments are in
func (s *Session) fixNoncesLocked(p initialized) error {
	points := make([]*curve.Point, 0, len(s.quorum))
	for _, idx := range s.quorum {
		points = append(points, p.commitments[idx].Point)
	}
	R := curve.Sum(points...)

	lambdas := make(map[int]*curve.Scalar, len(s.quorum))
	for _, idx := range s.quorum {
		lambda, err := math.LagrangeCoefficient(idx, s.quorum, s.public.Threshold)
		if err != nil {
			s.abortLocked(err, 0)
			return err
		}
		lambdas[idx] = lambda
	}

	s.phase = nonceCommitted{
		commitments: p.commitments,
		R:           R,
		challenge:   hash.Challenge(R, s.public.GroupKey, s.message),
		lambdas:     lambdas,
		partials:    make(map[int]*curve.Scalar, len(s.quorum)),
	}
	s.log.DebugEvent().Str("state", StateNonceCommitted.String()).Hex("R", R.Bytes()).Msg("all nonce commitments collected")

	return nil
}

// SigningPackage returns the data every quorum member signs over. Available once all
// commitments are collected.
func (s *Session) SigningPackage() (*SigningPackage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.liveLocked(); err != nil {
		return nil, err
	}
	p, ok := s.phase.(nonceCommitted)
	if !ok {
		return nil, fmt.Errorf("%w: no signing package in state %s", ErrInvalidState, s.phase.state())
	}

	commitments := make(map[int]*curve.Point, len(p.commitments))
	for idx, nc := range p.commitments {
		commitments[idx] = curve.ClonePoint(nc.Point)
	}

	return &SigningPackage{
		SessionID:   s.id,
		Message:     slices.Clone(s.message),
		Quorum:      slices.Clone(s.quorum),
		Commitments: commitments,
		GroupKey:    curve.ClonePoint(s.public.GroupKey),
	}, nil
}

// AddPartialSignature verifies and records a partial signature. A partial that fails
// verification aborts the session with a *PartialSignatureError naming its sender.
func (s *Session) AddPartialSignature(ps PartialSignature) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.liveLocked(); err != nil {
		return err
	}
	p, ok := s.phase.(nonceCommitted)
	if !ok {
		return fmt.Errorf("%w: partial signatures are closed in state %s", ErrInvalidState, s.phase.state())
	}
	if err := s.checkContribution(ps.SessionID, ps.Index); err != nil {
		return err
	}
	if _, dup := p.partials[ps.Index]; dup {
		return fmt.Errorf("%w: partial signature from %d", ErrDuplicateParty, ps.Index)
	}

	if !VerifyPartial(ps, p.commitments[ps.Index], s.public.PublicShare(ps.Index), p.challenge, p.lambdas[ps.Index]) {
		err := &PartialSignatureError{Index: ps.Index}
		s.abortLocked(err, ps.Index)
		return err
	}

	p.partials[ps.Index] = curve.CloneScalar(ps.S)
	s.log.DebugEvent().Int("participant", ps.Index).Msg("partial signature verified")

	if len(p.partials) < len(s.quorum) {
		return nil
	}

	security.ZeroScalar(p.challenge)
	s.phase = partialSigned{R: p.R, partials: p.partials}
	s.log.DebugEvent().Str("state", StatePartialSigned.String()).Msg("all partial signatures verified")

	return nil
}

// Combine sums the verified partial signatures into the aggregate signature
func (s *Session) Combine() (*Signature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.liveLocked(); err != nil {
		return nil, err
	}
	p, ok := s.phase.(partialSigned)
	if !ok {
		return nil, fmt.Errorf("%w: cannot combine in state %s", ErrInvalidState, s.phase.state())
	}

	// s = Σ s_i
	sum := curve.NewScalar()
	for _, idx := range s.quorum {
		sum.Add(sum, p.partials[idx])
	}
	zeroPartials(p.partials)

	sig := &Signature{R: curve.ClonePoint(p.R), S: sum}
	if !Verify(sig, s.message, s.public.GroupKey) {
		// Every partial verified, so this means the public key package is inconsistent
		err := fmt.Errorf("%w: aggregate fails verification", keygen.ErrInvalidPublicKey)
		s.abortLocked(err, 0)
		return nil, err
	}

	s.phase = combined{signature: sig}
	s.log.InfoEvent().Str("state", StateCombined.String()).Ints("quorum", s.quorum).Msg("threshold signature produced")

	return &Signature{R: curve.ClonePoint(sig.R), S: curve.CloneScalar(sig.S)}, nil
}

// Abort cancels the session. Aborting a finished session has no effect; aborting twice
// keeps the first cause.
func (s *Session) Abort(reason error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase.(type) {
	case combined, aborted:
		return
	}
	if reason == nil {
		reason = ErrSessionAborted
	}
	s.abortLocked(reason, 0)
}

// liveLocked applies the deadline and reports whether the session is usable
func (s *Session) liveLocked() error {
	s.expireLocked()
	if a, ok := s.phase.(aborted); ok {
		return fmt.Errorf("%w: %w", ErrSessionAborted, a.cause)
	}
	return nil
}

func (s *Session) expireLocked() {
	switch s.phase.(type) {
	case combined, aborted:
		return
	}
	if s.now().After(s.deadline) {
		s.abortLocked(ErrSessionTimeout, 0)
	}
}

// abortLocked zeroizes all per-session secrets and enters StateAborted.
// offender is the participant at fault, or 0.
func (s *Session) abortLocked(cause error, offender int) {
	switch p := s.phase.(type) {
	case nonceCommitted:
		security.ZeroScalar(p.challenge)
		zeroPartials(p.partials)
	case partialSigned:
		zeroPartials(p.partials)
	}

	from := s.phase.state()
	s.phase = aborted{cause: cause}

	event := s.log.WarnEvent().Str("from", from.String()).Err(cause)
	if offender != 0 {
		event = event.Int("offender", offender)
	}
	event.Msg("signing session aborted")
}

// checkContribution rejects messages from other sessions or from outside the quorum
func (s *Session) checkContribution(id SessionID, index int) error {
	if id != s.id {
		return ErrSessionMismatch
	}
	if !slices.Contains(s.quorum, index) {
		return fmt.Errorf("%w: %d", ErrInvalidPartyID, index)
	}
	return nil
}

func zeroPartials(partials map[int]*curve.Scalar) {
	for _, v := range partials {
		security.ZeroScalar(v)
	}
}
