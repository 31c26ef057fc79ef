package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rpgo/retirement-planner/internal/domain"
)

// MemoryStore is an in-memory Repository for tests and throwaway servers.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[int64]domain.User
	expenses    []domain.Expense
	savings     []domain.Saving
	assumptions map[int64]domain.EconomicAssumptions
	nextID      int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[int64]domain.User),
		assumptions: make(map[int64]domain.EconomicAssumptions),
	}
}

func (m *MemoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

func cloneUser(u domain.User) *domain.User {
	if u.Age != nil {
		age := *u.Age
		u.Age = &age
	}
	if u.StartYear != nil {
		year := *u.StartYear
		u.StartYear = &year
	}
	return &u
}

func (m *MemoryStore) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == u.Email || existing.ExternalID == u.ExternalID {
			return fmt.Errorf("user %s: %w", u.Email, ErrConflict)
		}
	}
	u.ID = m.id()
	m.users[u.ID] = *cloneUser(*u)
	return nil
}

func (m *MemoryStore) UpdateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Age = u.Age
	existing.StartYear = u.StartYear
	existing.IsActive = u.IsActive
	m.users[u.ID] = *cloneUser(existing)
	return nil
}

func (m *MemoryStore) GetUser(_ context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *MemoryStore) findUser(match func(domain.User) bool) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.findUser(func(u domain.User) bool { return u.Email == email })
}

func (m *MemoryStore) GetUserByExternalID(_ context.Context, externalID string) (*domain.User, error) {
	return m.findUser(func(u domain.User) bool { return u.ExternalID == externalID })
}

func (m *MemoryStore) CreateExpense(_ context.Context, e *domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[e.UserID]; !ok {
		return fmt.Errorf("inserting expense: user %d: %w", e.UserID, ErrNotFound)
	}
	e.ID = m.id()
	m.expenses = append(m.expenses, *e)
	return nil
}

func (m *MemoryStore) ListExpenses(_ context.Context, userID int64, skip, limit int) ([]domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return page(m.expenses, func(e domain.Expense) bool { return e.UserID == userID }, skip, limit), nil
}

func (m *MemoryStore) CreateSaving(_ context.Context, s *domain.Saving) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[s.UserID]; !ok {
		return fmt.Errorf("inserting saving: user %d: %w", s.UserID, ErrNotFound)
	}
	s.ID = m.id()
	m.savings = append(m.savings, *s)
	return nil
}

func (m *MemoryStore) ListSavings(_ context.Context, userID int64, skip, limit int) ([]domain.Saving, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return page(m.savings, func(s domain.Saving) bool { return s.UserID == userID }, skip, limit), nil
}

func (m *MemoryStore) GetAssumptions(_ context.Context, userID int64) (*domain.EconomicAssumptions, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.assumptions[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *MemoryStore) UpsertAssumptions(_ context.Context, userID int64, a domain.EconomicAssumptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; !ok {
		return fmt.Errorf("saving assumptions: user %d: %w", userID, ErrNotFound)
	}
	m.assumptions[userID] = a
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

// page returns the matching records after skipping skip matches, at most limit of them.
func page[T any](records []T, match func(T) bool, skip, limit int) []T {
	skip, limit = normalizePage(skip, limit)
	out := []T{}
	for _, r := range records {
		if !match(r) {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, r)
	}
	return out
}
