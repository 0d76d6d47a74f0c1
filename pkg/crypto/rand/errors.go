package rand

import "errors"

var (
	// ErrInvalidLength is returned when requested length is invalid
	ErrInvalidLength = errors.New("invalid length: must be positive")

	// ErrNilReader is returned when no entropy source is supplied
	ErrNilReader = errors.New("random source cannot be nil")
)
