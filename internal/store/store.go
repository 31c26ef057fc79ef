// Package store persists users and their expense, saving and assumption
// records.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpgo/retirement-planner/internal/domain"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a record violates a uniqueness rule.
	ErrConflict = errors.New("record already exists")
)

// Repository is the record store used by the service layer.
type Repository interface {
	CreateUser(ctx context.Context, u *domain.User) error
	UpdateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByExternalID(ctx context.Context, externalID string) (*domain.User, error)

	CreateExpense(ctx context.Context, e *domain.Expense) error
	ListExpenses(ctx context.Context, userID int64, skip, limit int) ([]domain.Expense, error)

	CreateSaving(ctx context.Context, s *domain.Saving) error
	ListSavings(ctx context.Context, userID int64, skip, limit int) ([]domain.Saving, error)

	GetAssumptions(ctx context.Context, userID int64) (*domain.EconomicAssumptions, error)
	UpsertAssumptions(ctx context.Context, userID int64, a domain.EconomicAssumptions) error

	Ping(ctx context.Context) error
	Close() error
}

// DefaultListLimit is applied when a list call passes a non-positive limit.
const DefaultListLimit = 100

// Open returns a Repository for the named driver: sqlite, postgres or memory.
func Open(driver, dsn string) (Repository, error) {
	switch driver {
	case "sqlite":
		return OpenSQLite(dsn)
	case "postgres":
		return OpenPostgres(dsn)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return skip, limit
}
