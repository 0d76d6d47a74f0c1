package security

import (
	"errors"
)

var (
	// ErrInvalidThreshold is returned when threshold parameters are invalid
	ErrInvalidThreshold = errors.New("invalid threshold: must satisfy 1 <= t <= n")

	// ErrInvalidIndex is returned when a participant index is zero, negative or too large
	ErrInvalidIndex = errors.New("invalid participant index: must be in range [1, max]")

	// ErrDuplicateIndex is returned when an index set contains the same index twice
	ErrDuplicateIndex = errors.New("duplicate participant index")
)

// MaxIndex bounds participant indices so they always fit a scalar without reduction
const MaxIndex = 1<<16 - 1

// ValidateThreshold checks 1 <= threshold <= total
func ValidateThreshold(threshold, total int) error {
	if total < 1 || threshold < 1 || threshold > total {
		return ErrInvalidThreshold
	}
	if total > MaxIndex {
		return ErrInvalidThreshold
	}

	return nil
}

// ValidateIndex checks that index is a usable Shamir evaluation point
func ValidateIndex(index int) error {
	if index < 1 || index > MaxIndex {
		return ErrInvalidIndex
	}
	return nil
}

// ValidateIndexSet checks that every index is valid and that none repeats
func ValidateIndexSet(indices []int) error {
	seen := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		if err := ValidateIndex(idx); err != nil {
			return err
		}
		if _, ok := seen[idx]; ok {
			return ErrDuplicateIndex
		}
		seen[idx] = struct{}{}
	}
	return nil
}
