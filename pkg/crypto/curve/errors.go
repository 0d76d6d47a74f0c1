package curve

import "errors"

var (
	// ErrMalformedPoint is returned when bytes are not a valid canonical point encoding
	ErrMalformedPoint = errors.New("malformed point encoding")

	// ErrMalformedScalar is returned when bytes are not a canonical scalar (wrong length or >= group order)
	ErrMalformedScalar = errors.New("malformed scalar encoding")

	// ErrIdentityPoint is returned when a point is the identity or has small order where that is not allowed
	ErrIdentityPoint = errors.New("point is the identity or of small order")

	// ErrInvalidLength is returned when an input has the wrong length
	ErrInvalidLength = errors.New("invalid input length")
)
