package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/repository"

	"github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		Repositories: newRepositories(db),
	}
}

func newRepositories(db DBTX) repository.Repositories {
	return repository.Repositories{
		Models:         NewToolModelRepository(db),
		Instances:      NewToolInstanceRepository(db),
		Rentals:        NewRentalRepository(db),
		ServiceActions: NewServiceActionRepository(db),
		Reviews:        NewReviewRepository(db),
		Employees:      NewEmployeeRepository(db),
		Customers:      NewCustomerRepository(db),
		Sites:          NewSiteRepository(db),
	}
}

// Repos returns the repositories bound to the connection pool.
func (s *Store) Repos() *repository.Repositories {
	return &s.Repositories
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithinTx implements repository.Transactor.
func (s *Store) WithinTx(ctx context.Context, fn func(repos *repository.Repositories) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	repos := newRepositories(tx)
	if err := fn(&repos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.ErrorContext(ctx, "Failed to roll back transaction", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapError(ctx, err, nil)
	}
	return nil
}

// mapError translates driver errors into domain errors. notFound is returned
// for sql.ErrNoRows when non-nil.
func mapError(ctx context.Context, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) && notFound != nil {
		return notFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		logger.WarnContext(ctx, "Constraint violation", "code", pqErr.Code, "constraint", pqErr.Constraint, "detail", pqErr.Detail)
		switch pqErr.Code {
		case "23505":
			return domain.ErrDuplicateEntry
		case "23503":
			return domain.ErrInvalidReference
		case "23514", "23502":
			return domain.ErrConstraintViolated
		}
	}
	return err
}

// expectAffected turns a zero-row update into notFound.
func expectAffected(ctx context.Context, res sql.Result, err error, notFound error) error {
	if err != nil {
		return mapError(ctx, err, notFound)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
