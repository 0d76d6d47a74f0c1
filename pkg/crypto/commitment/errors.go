package commitment

import "errors"

var (
	// ErrNilPolynomial is returned when there is no polynomial to commit to
	ErrNilPolynomial = errors.New("polynomial cannot be nil or empty")

	// ErrNilCommitment is returned when a nil commitment is provided
	ErrNilCommitment = errors.New("commitment cannot be nil")

	// ErrEmptyCommitment is returned when a commitment has no coefficients
	ErrEmptyCommitment = errors.New("commitment has no coefficients")

	// ErrDegreeMismatch is returned when combining commitments of different degree
	ErrDegreeMismatch = errors.New("commitments must have the same number of coefficients")

	// ErrInvalidIndex is returned when evaluating at an index that is not a participant index
	ErrInvalidIndex = errors.New("invalid evaluation index")

	// ErrInvalidEncoding is returned when a commitment encoding has the wrong length
	ErrInvalidEncoding = errors.New("invalid commitment encoding")
)
