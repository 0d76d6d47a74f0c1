package signing

import (
	"errors"
	"fmt"

	"github.com/Caqil/ed25519-tss/internal/math"
)

var (
	// ErrInvalidParameters is returned for malformed session parameters or configuration
	ErrInvalidParameters = math.ErrInvalidParameters

	// ErrSingularQuorum is returned when Lagrange coefficients cannot be computed for a quorum
	ErrSingularQuorum = math.ErrSingularQuorum

	// ErrInvalidKeyShare is returned when the key share is invalid
	ErrInvalidKeyShare = errors.New("invalid key share")

	// ErrQuorumTooSmall is returned when fewer than threshold participants are chosen
	ErrQuorumTooSmall = errors.New("quorum smaller than threshold")

	// ErrInvalidPartialSignature is returned when a participant's contribution fails verification
	ErrInvalidPartialSignature = errors.New("invalid partial signature")

	// ErrMalformedSignature is returned when a signature does not decode to valid curve elements
	ErrMalformedSignature = errors.New("malformed signature")

	// ErrInvalidCommitment is returned when a nonce commitment is missing or invalid
	ErrInvalidCommitment = errors.New("invalid nonce commitment")

	// ErrDuplicateParty is returned when a participant contributes twice to the same round
	ErrDuplicateParty = errors.New("duplicate contribution")

	// ErrInvalidPartyID is returned when a contribution comes from outside the quorum
	ErrInvalidPartyID = errors.New("participant not in quorum")

	// ErrSessionMismatch is returned when a message belongs to another session
	ErrSessionMismatch = errors.New("session ID mismatch")

	// ErrSessionTimeout is returned when a signing session passes its deadline
	ErrSessionTimeout = errors.New("signing session timeout")

	// ErrSessionAborted is returned for any call on an aborted session
	ErrSessionAborted = errors.New("signing session aborted")

	// ErrInvalidState is returned when an operation is not allowed in the current session state
	ErrInvalidState = errors.New("operation not allowed in current session state")

	// ErrNonceConsumed is returned when a nonce is used after it was spent or discarded
	ErrNonceConsumed = errors.New("nonce already consumed")

	// ErrUnknownSession is returned when a participant holds no nonce for a session
	ErrUnknownSession = errors.New("unknown signing session")
)

// PartialSignatureError reports the participant whose partial signature failed verification
type PartialSignatureError struct {
	Index int
}

func (e *PartialSignatureError) Error() string {
	return fmt.Sprintf("%s from participant %d", ErrInvalidPartialSignature, e.Index)
}

// Unwrap makes errors.Is(err, ErrInvalidPartialSignature) hold
func (e *PartialSignatureError) Unwrap() error {
	return ErrInvalidPartialSignature
}
