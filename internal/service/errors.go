package service

import (
	"context"

	"github.com/stunor/origo-organiser/internal/domain"
	"github.com/stunor/origo-organiser/internal/repository"
)

var (
	ErrNotFound        = domain.ErrNotFound
	ErrValidation      = domain.ErrValidation
	ErrEventNotFound   = repository.ErrEventNotFound
	ErrRaceNotFound    = repository.ErrRaceNotFound
	ErrEventorNotFound = repository.ErrEventorNotFound
	ErrEntryNotFound   = repository.ErrEntryNotFound

	ErrDuplicate        = repository.ErrDuplicate
	ErrMissingReference = repository.ErrMissingReference
)

// Transactor scopes repository calls made with the context it hands to fn.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	LockImport(ctx context.Context, key string) error
}
