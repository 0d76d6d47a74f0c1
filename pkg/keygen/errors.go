package keygen

import (
	"errors"

	"github.com/Caqil/ed25519-tss/internal/math"
)

var (
	// ErrInvalidParameters is returned for bad threshold/total values or zero/duplicate indices
	ErrInvalidParameters = math.ErrInvalidParameters

	// ErrInsufficientShares is returned when not enough distinct shares are available for reconstruction
	ErrInsufficientShares = math.ErrInsufficientShares

	// ErrCorruptShare is returned when a share fails its public-commitment consistency check.
	// The share must be re-issued.
	ErrCorruptShare = errors.New("share is inconsistent with public commitments")

	// ErrInvalidPublicKey is returned when a public key package is malformed or inconsistent
	ErrInvalidPublicKey = errors.New("invalid public key package")

	// ErrNilSecret is returned when a nil secret is provided
	ErrNilSecret = errors.New("secret cannot be nil")

	// ErrInvalidSeed is returned when an Ed25519 seed has the wrong length
	ErrInvalidSeed = errors.New("seed must be 32 bytes")

	// ErrInvalidPartyID is returned when a DKG message names an unknown participant
	ErrInvalidPartyID = errors.New("invalid participant index")

	// ErrDuplicateParty is returned when a participant contributes twice
	ErrDuplicateParty = errors.New("duplicate participant contribution")

	// ErrMissingRound1Data is returned when Round 1 data is missing
	ErrMissingRound1Data = errors.New("missing Round 1 data from some parties")

	// ErrMissingRound2Data is returned when Round 2 data is missing
	ErrMissingRound2Data = errors.New("missing Round 2 data from some parties")

	// ErrRoundOrder is returned when DKG rounds are run out of order
	ErrRoundOrder = errors.New("DKG rounds must run in order")
)
