package signing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Participant is a quorum member as seen by the coordinator. Implementations may be
// local signers or remote peers behind any transport.
type Participant interface {
	// Commit returns a fresh nonce commitment for the session
	Commit(ctx context.Context, req *SessionRequest) (NonceCommitment, error)

	// Sign returns the partial signature for a package whose commitments are fixed
	Sign(ctx context.Context, pkg *SigningPackage) (PartialSignature, error)

	// Abort tells the participant to discard any nonce held for the session
	Abort(id SessionID)
}

// LocalParticipant is an in-process Participant. It keeps at most one nonce per session
// and discards it on Sign or Abort.
type LocalParticipant struct {
	signer *Signer
	rng    io.Reader

	mu     sync.Mutex
	nonces map[SessionID]*Nonce
}

// NewLocalParticipant wraps signer, drawing nonce randomness from rng
func NewLocalParticipant(signer *Signer, rng io.Reader) *LocalParticipant {
	return &LocalParticipant{
		signer: signer,
		rng:    rng,
		nonces: make(map[SessionID]*Nonce),
	}
}

// Commit implements Participant
func (lp *LocalParticipant) Commit(ctx context.Context, req *SessionRequest) (NonceCommitment, error) {
	if err := ctx.Err(); err != nil {
		return NonceCommitment{}, err
	}
	if req == nil {
		return NonceCommitment{}, ErrInvalidParameters
	}
	req = cloneRequest(req)

	lp.mu.Lock()
	defer lp.mu.Unlock()

	if _, ok := lp.nonces[req.SessionID]; ok {
		return NonceCommitment{}, fmt.Errorf("%w: already committed to session %s", ErrInvalidState, req.SessionID)
	}

	nonce, nc, err := lp.signer.Commit(lp.rng, req)
	if err != nil {
		return NonceCommitment{}, err
	}
	// The coordinator may have given up while the nonce was being derived
	if err := ctx.Err(); err != nil {
		nonce.Discard()
		return NonceCommitment{}, err
	}
	lp.nonces[req.SessionID] = nonce

	return nc, nil
}

// Sign implements Participant
func (lp *LocalParticipant) Sign(ctx context.Context, pkg *SigningPackage) (PartialSignature, error) {
	if pkg == nil {
		return PartialSignature{}, ErrInvalidParameters
	}

	lp.mu.Lock()
	nonce, ok := lp.nonces[pkg.SessionID]
	delete(lp.nonces, pkg.SessionID)
	lp.mu.Unlock()

	if !ok {
		return PartialSignature{}, fmt.Errorf("%w: %s", ErrUnknownSession, pkg.SessionID)
	}
	if err := ctx.Err(); err != nil {
		nonce.Discard()
		return PartialSignature{}, err
	}

	return lp.signer.Sign(nonce, pkg)
}

// Abort implements Participant
func (lp *LocalParticipant) Abort(id SessionID) {
	lp.mu.Lock()
	nonce, ok := lp.nonces[id]
	delete(lp.nonces, id)
	lp.mu.Unlock()

	if ok {
		nonce.Discard()
	}
}

// Pending returns the number of sessions holding a live nonce
func (lp *LocalParticipant) Pending() int {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return len(lp.nonces)
}

// Run drives both protocol rounds of session against participants, which must cover
// the quorum. Both collection waits end at the session deadline. On any failure the
// session is aborted, every participant is told to discard its nonce, and the returned
// error wraps ErrSessionAborted and the cause.
func Run(ctx context.Context, session *Session, participants map[int]Participant) (*Signature, error) {
	for _, idx := range session.quorum {
		if participants[idx] == nil {
			err := fmt.Errorf("%w: no participant for index %d", ErrInvalidParameters, idx)
			return nil, fail(session, participants, err)
		}
	}

	ctx, cancel := context.WithDeadline(ctx, session.Deadline())
	defer cancel()

	abort := func(err error) error {
		cancel()
		return fail(session, participants, err)
	}

	// Round 1: nonce commitments
	req := session.Request()
	g, gctx := errgroup.WithContext(ctx)
	for _, idx := range session.quorum {
		idx := idx
		p := participants[idx]
		g.Go(func() error {
			nc, err := p.Commit(gctx, cloneRequest(req))
			if err != nil {
				return fmt.Errorf("participant %d commit: %w", idx, err)
			}
			if nc.Index != idx {
				return fmt.Errorf("%w: participant %d committed as %d", ErrInvalidPartyID, idx, nc.Index)
			}
			return session.AddCommitment(nc)
		})
	}
	if err := wait(ctx, g); err != nil {
		return nil, abort(err)
	}

	pkg, err := session.SigningPackage()
	if err != nil {
		return nil, abort(err)
	}

	// Round 2: partial signatures, verified on receipt
	g, gctx = errgroup.WithContext(ctx)
	for _, idx := range session.quorum {
		idx := idx
		p := participants[idx]
		g.Go(func() error {
			ps, err := p.Sign(gctx, pkg)
			if err != nil {
				return fmt.Errorf("participant %d sign: %w", idx, err)
			}
			if ps.Index != idx {
				return &PartialSignatureError{Index: idx}
			}
			return session.AddPartialSignature(ps)
		})
	}
	if err := wait(ctx, g); err != nil {
		return nil, abort(err)
	}

	sig, err := session.Combine()
	if err != nil {
		return nil, abort(err)
	}
	return sig, nil
}

// wait returns when every goroutine in g has finished or ctx is done, whichever is first
func wait(ctx context.Context, g *errgroup.Group) error {
	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fail aborts the session, releases every participant's nonce and returns the session error
func fail(session *Session, participants map[int]Participant, cause error) error {
	if errors.Is(cause, context.DeadlineExceeded) {
		cause = ErrSessionTimeout
	}
	session.Abort(cause)
	for _, p := range participants {
		if p != nil {
			p.Abort(session.ID())
		}
	}

	if err := session.Err(); err != nil {
		return err
	}
	return fmt.Errorf("%w: %w", ErrSessionAborted, cause)
}
