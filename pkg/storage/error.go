package storage

import "errors"

var (
	// ErrNotFound matches any NotFoundError.
	ErrNotFound = errors.New("turn not found")

	// ErrNilTurn is returned by Put for a nil turn.
	ErrNilTurn = errors.New("cannot store nil turn")
)

// NotFoundError is returned when a turn doesn't exist in the store.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return ErrNotFound.Error()
	}

	return ErrNotFound.Error() + ": " + e.ID
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
