package math

import "errors"

var (
	// ErrInvalidParameters is returned for bad threshold/total values or zero/duplicate indices
	ErrInvalidParameters = errors.New("invalid sharing parameters")

	// ErrSingularQuorum is returned when an interpolation set is too small, repeats an index
	// or does not contain the index whose coefficient is requested
	ErrSingularQuorum = errors.New("singular interpolation quorum")

	// ErrInsufficientShares is returned when not enough distinct shares are available for reconstruction
	ErrInsufficientShares = errors.New("insufficient shares for reconstruction")

	// ErrInvalidDegree is returned when degree is negative
	ErrInvalidDegree = errors.New("degree must be non-negative")

	// ErrNilSecret is returned when a nil secret is provided
	ErrNilSecret = errors.New("secret cannot be nil")

	// ErrNilShare is returned when a nil share is provided
	ErrNilShare = errors.New("share cannot be nil")

	// ErrPointValueMismatch is returned when indices and values have different lengths
	ErrPointValueMismatch = errors.New("indices and values must have the same length")
)
