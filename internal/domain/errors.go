package domain

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")

	ErrEventNotFound   error = notFoundError{entity: "event"}
	ErrRaceNotFound    error = notFoundError{entity: "race"}
	ErrEventorNotFound error = notFoundError{entity: "eventor"}
	ErrEntryNotFound   error = notFoundError{entity: "entry"}
)

// notFoundError lets callers match either the specific entity or ErrNotFound.
type notFoundError struct {
	entity string
}

func (e notFoundError) Error() string {
	return e.entity + " not found"
}

func (e notFoundError) Is(target error) bool {
	return target == ErrNotFound
}
