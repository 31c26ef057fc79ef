// Package service implements the planner's use cases on top of the record
// store, the calculation engine and the projection cache.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/rpgo/retirement-planner/internal/cache"
	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/internal/store"
)

var (
	ErrMissingIdentity     = errors.New("missing user identity")
	ErrUserNotFound        = errors.New("user not found")
	ErrAgeNotSet           = errors.New("user age is not set")
	ErrAssumptionsNotFound = errors.New("assumptions not found for this user")
	ErrInvalidInput        = errors.New("invalid input")
)

// ProjectionRecordLimit caps how many expenses and savings feed one projection.
const ProjectionRecordLimit = 1000

// PlannerService exposes user, record and projection operations.
type PlannerService struct {
	repo     store.Repository
	engine   *calculation.CalculationEngine
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// Option customizes a PlannerService.
type Option func(*PlannerService)

// WithCache enables projection caching.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *PlannerService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *PlannerService) { s.logger = l }
}

// NewPlannerService wires a service. Without WithCache nothing is cached.
func NewPlannerService(repo store.Repository, engine *calculation.CalculationEngine, opts ...Option) *PlannerService {
	s := &PlannerService{
		repo:   repo,
		engine: engine,
		cache:  cache.Nop{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterUserInput carries the fields accepted when creating a user.
type RegisterUserInput struct {
	Email      string `json:"email"`
	ExternalID string `json:"google_id"`
	Age        *int   `json:"age"`
	StartYear  *int   `json:"start_year"`
}

// RegisterUser returns the existing user matching the external id or email,
// or creates a new one. created reports which happened. A missing external
// id is replaced with a generated one.
func (s *PlannerService) RegisterUser(ctx context.Context, in RegisterUserInput) (user *domain.User, created bool, err error) {
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, false, fmt.Errorf("%w: email %q is not valid", ErrInvalidInput, in.Email)
	}
	if err := validateAge(in.Age); err != nil {
		return nil, false, err
	}

	if in.ExternalID != "" {
		existing, err := s.repo.GetUserByExternalID(ctx, in.ExternalID)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, false, err
		}
	}
	existing, err := s.repo.GetUserByEmail(ctx, in.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	u := &domain.User{
		Email:      in.Email,
		ExternalID: in.ExternalID,
		Age:        in.Age,
		StartYear:  in.StartYear,
		IsActive:   true,
	}
	if u.ExternalID == "" {
		u.ExternalID = uuid.NewString()
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, false, err
	}
	s.logger.Info("user registered", "user_id", u.ID, "email", u.Email)
	return u, true, nil
}

// UpdateProfileInput carries the mutable user fields.
type UpdateProfileInput struct {
	Age       *int `json:"age"`
	StartYear *int `json:"start_year"`
}

// UpdateProfile changes the age and start year of the identified user.
// Nil fields are left unchanged.
func (s *PlannerService) UpdateProfile(ctx context.Context, email string, in UpdateProfileInput) (*domain.User, error) {
	if err := validateAge(in.Age); err != nil {
		return nil, err
	}
	u, err := s.CurrentUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if in.Age != nil {
		u.Age = in.Age
	}
	if in.StartYear != nil {
		u.StartYear = in.StartYear
	}
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// CurrentUser resolves an identity to its user record.
func (s *PlannerService) CurrentUser(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, ErrMissingIdentity
	}
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		return nil, err
	}
	return u, nil
}

// ItemInput is the request form of an expense or saving.
type ItemInput struct {
	Name      string           `json:"name"`
	Amount    *float64         `json:"amount"`
	Frequency domain.Frequency `json:"frequency"`
	IsLumpSum bool             `json:"is_lump_sum"`
}

func (in ItemInput) validate(allowed func(domain.Frequency) bool) error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Amount == nil {
		return fmt.Errorf("%w: amount is required", ErrInvalidInput)
	}
	if !allowed(in.Frequency) {
		return fmt.Errorf("%w: unsupported frequency %q", ErrInvalidInput, in.Frequency)
	}
	return nil
}

// AddExpense stores a new expense for the identified user.
func (s *PlannerService) AddExpense(ctx context.Context, email string, in ItemInput) (*domain.Expense, error) {
	if err := in.validate(domain.Frequency.ValidForExpense); err != nil {
		return nil, err
	}
	u, err := s.CurrentUser(ctx, email)
	if err != nil {
		return nil, err
	}
	e := &domain.Expense{UserID: u.ID, Name: in.Name, Amount: *in.Amount, Frequency: in.Frequency}
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListExpenses returns a page of the identified user's expenses.
func (s *PlannerService) ListExpenses(ctx context.Context, email string, skip, limit int) ([]domain.Expense, error) {
	u, err := s.CurrentUser(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.repo.ListExpenses(ctx, u.ID, skip, limit)
}

// AddSaving stores a new saving for the identified user.
func (s *PlannerService) AddSaving(ctx context.Context, email string, in ItemInput) (*domain.Saving, error) {
	if err := in.validate(domain.Frequency.ValidForSaving); err != nil {
		return nil, err
	}
	u, err := s.CurrentUser(ctx, email)
	if err != nil {
		return nil, err
	}
	sv := &domain.Saving{UserID: u.ID, Name: in.Name, Amount: *in.Amount, Frequency: in.Frequency, IsLumpSum: in.IsLumpSum}
	if err := s.repo.CreateSaving(ctx, sv); err != nil {
		return nil, err
	}
	return sv, nil
}

// ListSavings returns a page of the identified user's savings.
func (s *PlannerService) ListSavings(ctx context.Context, email string, skip, limit int) ([]domain.Saving, error) {
	u, err := s.CurrentUser(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.repo.ListSavings(ctx, u.ID, skip, limit)
}

// GetAssumptions returns the identified user's stored assumptions.
func (s *PlannerService) GetAssumptions(ctx context.Context, email string) (*domain.EconomicAssumptions, error) {
	u, err := s.CurrentUser(ctx, email)
	if err != nil {
		return nil, err
	}
	a, err := s.repo.GetAssumptions(ctx, u.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAssumptionsNotFound
	}
	return a, err
}

// SaveAssumptions creates or replaces the identified user's assumptions.
func (s *PlannerService) SaveAssumptions(ctx context.Context, email string, a domain.EconomicAssumptions) (*domain.EconomicAssumptions, error) {
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	u, err := s.CurrentUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpsertAssumptions(ctx, u.ID, a); err != nil {
		return nil, err
	}
	return &a, nil
}

// loadProfile gathers everything a projection needs for the identified user.
func (s *PlannerService) loadProfile(ctx context.Context, email string) (*domain.Profile, error) {
	u, err := s.CurrentUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if u.Age == nil {
		return nil, ErrAgeNotSet
	}

	var assumptions *domain.EconomicAssumptions
	a, err := s.repo.GetAssumptions(ctx, u.ID)
	switch {
	case err == nil:
		assumptions = a
	case errors.Is(err, store.ErrNotFound):
	default:
		return nil, err
	}

	expenses, err := s.repo.ListExpenses(ctx, u.ID, 0, ProjectionRecordLimit)
	if err != nil {
		return nil, err
	}
	savings, err := s.repo.ListSavings(ctx, u.ID, 0, ProjectionRecordLimit)
	if err != nil {
		return nil, err
	}

	return domain.NewProfileFromRecords(*u, expenses, savings, assumptions), nil
}

// Projections returns the earliest retirement age per lifestyle for the
// identified user. Results are cached by their derived inputs.
func (s *PlannerService) Projections(ctx context.Context, email string) (*domain.ProjectionResponse, error) {
	profile, err := s.loadProfile(ctx, email)
	if err != nil {
		return nil, err
	}

	inputs := calculation.DeriveInputs(*profile.Age, profile)
	key := cache.ProjectionKey(inputs, profile.EffectiveAssumptions())
	if cached, ok := s.cache.Get(ctx, key); ok {
		var resp domain.ProjectionResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			s.logger.Debug("projection cache hit", "key", key)
			return &resp, nil
		}
		s.logger.Warn("discarding unreadable cache entry", "key", key)
	}

	report, err := s.engine.RunProjections(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("running projections: %w", err)
	}
	resp := &domain.ProjectionResponse{Projections: report.Projections}

	if data, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
			s.logger.Warn("projection cache write failed", "key", key, "error", err)
		}
	}
	return resp, nil
}

// Report returns the full projection report, including balance schedules,
// for the identified user.
func (s *PlannerService) Report(ctx context.Context, email string) (*domain.ProjectionReport, error) {
	profile, err := s.loadProfile(ctx, email)
	if err != nil {
		return nil, err
	}

	engine := *s.engine
	engine.IncludeSchedules = true
	report, err := engine.RunProjections(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("running projections: %w", err)
	}
	return report, nil
}

// Ping checks the record store.
func (s *PlannerService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func validateAge(age *int) error {
	if age != nil && (*age < 0 || *age > domain.MaxAge) {
		return fmt.Errorf("%w: age must be between 0 and %d", ErrInvalidInput, domain.MaxAge)
	}
	return nil
}
