package dao

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrDuplicate        = errors.New("duplicate row")
	ErrMissingReference = errors.New("referenced row does not exist")
)

type txKey struct{}

// conn returns the transaction carried by ctx, or db when there is none.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}

	return db.WithContext(ctx)
}

// classify maps constraint violations to the package sentinels and leaves every other error alone.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrMissingReference, pgErr.ConstraintName)
	default:
		return err
	}
}

type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{
		db: db,
	}
}

// WithinTransaction runs fn in a transaction carried by the context passed to fn.
// Called again inside fn it opens a savepoint, so a failing inner call only rolls back its own writes.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return conn(ctx, t.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// LockImport takes a transaction scoped advisory lock. It blocks until concurrent holders of key commit.
func (t *Transactor) LockImport(ctx context.Context, key string) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); !ok {
		return errors.New("LockImport must run inside a transaction")
	}

	return conn(ctx, t.db).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}
