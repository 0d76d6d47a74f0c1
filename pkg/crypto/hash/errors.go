package hash

import "errors"

var (
	// ErrNilReader is returned when no entropy source is supplied
	ErrNilReader = errors.New("random source cannot be nil")

	// ErrNilSecret is returned when a nil secret share is provided
	ErrNilSecret = errors.New("secret cannot be nil")
)
