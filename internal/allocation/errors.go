package allocation

import "errors"

// Allocation errors. None of them leave a state change behind.
var (
	// ErrInvalidCount is returned when the requested room count is zero or negative
	ErrInvalidCount = errors.New("room count must be a positive number")
	// ErrCapacityExceeded is returned when a single booking asks for more rooms than allowed
	ErrCapacityExceeded = errors.New("too many rooms requested in one booking")
	// ErrNoVacancy is returned when not a single room is free
	ErrNoVacancy = errors.New("no rooms available")
)
