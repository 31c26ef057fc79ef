package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lib/pq"
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/rpgo/retirement-planner/internal/domain"
)

// SQLStore is a Repository backed by SQLite or PostgreSQL.
type SQLStore struct {
	db       *sql.DB
	postgres bool
}

// OpenSQLite opens or creates the SQLite database at the given path.
func OpenSQLite(dbPath string) (*SQLStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(sqliteSchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// OpenPostgres connects to PostgreSQL and creates the schema if needed.
func OpenPostgres(dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(postgresSchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLStore{db: db, postgres: true}, nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

const userColumns = "id, external_id, email, age, start_year, is_active"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		age, year sql.NullInt64
	)
	if err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &age, &year, &u.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.Age = intPtr(age)
	u.StartYear = intPtr(year)
	return &u, nil
}

// CreateUser inserts u and sets its ID.
func (s *SQLStore) CreateUser(ctx context.Context, u *domain.User) error {
	err := s.db.QueryRowContext(ctx, s.rebind(`INSERT INTO users
		(external_id, email, age, start_year, is_active)
		VALUES (?, ?, ?, ?, ?) RETURNING id`),
		u.ExternalID, u.Email, nullInt(u.Age), nullInt(u.StartYear), u.IsActive,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", u.Email, ErrConflict)
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// UpdateUser stores the mutable profile fields of an existing user.
func (s *SQLStore) UpdateUser(ctx context.Context, u *domain.User) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE users
		SET age = ?, start_year = ?, is_active = ? WHERE id = ?`),
		nullInt(u.Age), nullInt(u.StartYear), u.IsActive, u.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user %d: %w", u.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating user %d: %w", u.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUser returns the user with the given id.
func (s *SQLStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, s.rebind("SELECT "+userColumns+" FROM users WHERE id = ?"), id))
}

// GetUserByEmail returns the user with the given email.
func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, s.rebind("SELECT "+userColumns+" FROM users WHERE email = ?"), email))
}

// GetUserByExternalID returns the user with the given identity-provider id.
func (s *SQLStore) GetUserByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, s.rebind("SELECT "+userColumns+" FROM users WHERE external_id = ?"), externalID))
}

// CreateExpense inserts e and sets its ID.
func (s *SQLStore) CreateExpense(ctx context.Context, e *domain.Expense) error {
	err := s.db.QueryRowContext(ctx, s.rebind(`INSERT INTO expenses
		(user_id, name, amount, frequency) VALUES (?, ?, ?, ?) RETURNING id`),
		e.UserID, e.Name, e.Amount, string(e.Frequency),
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("inserting expense: %w", err)
	}
	return nil
}

// ListExpenses returns a page of a user's expenses in insertion order.
func (s *SQLStore) ListExpenses(ctx context.Context, userID int64, skip, limit int) ([]domain.Expense, error) {
	skip, limit = normalizePage(skip, limit)
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT id, user_id, name, amount, frequency
		FROM expenses WHERE user_id = ? ORDER BY id LIMIT ? OFFSET ?`), userID, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []domain.Expense{}
	for rows.Next() {
		var (
			e    domain.Expense
			freq string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.Amount, &freq); err != nil {
			return nil, err
		}
		e.Frequency = domain.Frequency(freq)
		result = append(result, e)
	}
	return result, rows.Err()
}

// CreateSaving inserts sv and sets its ID.
func (s *SQLStore) CreateSaving(ctx context.Context, sv *domain.Saving) error {
	err := s.db.QueryRowContext(ctx, s.rebind(`INSERT INTO savings
		(user_id, name, amount, frequency, is_lump_sum) VALUES (?, ?, ?, ?, ?) RETURNING id`),
		sv.UserID, sv.Name, sv.Amount, string(sv.Frequency), sv.IsLumpSum,
	).Scan(&sv.ID)
	if err != nil {
		return fmt.Errorf("inserting saving: %w", err)
	}
	return nil
}

// ListSavings returns a page of a user's savings in insertion order.
func (s *SQLStore) ListSavings(ctx context.Context, userID int64, skip, limit int) ([]domain.Saving, error) {
	skip, limit = normalizePage(skip, limit)
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT id, user_id, name, amount, frequency, is_lump_sum
		FROM savings WHERE user_id = ? ORDER BY id LIMIT ? OFFSET ?`), userID, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("listing savings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []domain.Saving{}
	for rows.Next() {
		var (
			sv   domain.Saving
			freq string
		)
		if err := rows.Scan(&sv.ID, &sv.UserID, &sv.Name, &sv.Amount, &freq, &sv.IsLumpSum); err != nil {
			return nil, err
		}
		sv.Frequency = domain.Frequency(freq)
		result = append(result, sv)
	}
	return result, rows.Err()
}

// GetAssumptions returns the stored assumptions of a user.
func (s *SQLStore) GetAssumptions(ctx context.Context, userID int64) (*domain.EconomicAssumptions, error) {
	var a domain.EconomicAssumptions
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT return_rate, inflation_rate, life_expectancy
		FROM assumptions WHERE user_id = ?`), userID,
	).Scan(&a.ReturnRate, &a.InflationRate, &a.LifeExpectancy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading assumptions: %w", err)
	}
	return &a, nil
}

// UpsertAssumptions creates or replaces a user's assumptions.
func (s *SQLStore) UpsertAssumptions(ctx context.Context, userID int64, a domain.EconomicAssumptions) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO assumptions
		(user_id, return_rate, inflation_rate, life_expectancy) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			return_rate = excluded.return_rate,
			inflation_rate = excluded.inflation_rate,
			life_expectancy = excluded.life_expectancy`),
		userID, a.ReturnRate, a.InflationRate, a.LifeExpectancy,
	)
	if err != nil {
		return fmt.Errorf("saving assumptions: %w", err)
	}
	return nil
}
