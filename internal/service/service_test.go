package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/retirement-planner/internal/cache"
	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/internal/store"
)

const email = "saver@example.com"

func intPtr(v int) *int { return &v }

func newTestService(t *testing.T) (*PlannerService, *cache.MemoryCache) {
	t.Helper()
	c := cache.NewMemoryCache()
	svc := NewPlannerService(store.NewMemoryStore(), calculation.NewCalculationEngine(),
		WithCache(c, time.Minute),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return svc, c
}

func seedSaver(t *testing.T, svc *PlannerService) {
	t.Helper()
	ctx := context.Background()
	_, created, err := svc.RegisterUser(ctx, RegisterUserInput{Email: email, ExternalID: "g-1", Age: intPtr(30)})
	require.NoError(t, err)
	require.True(t, created)

	_, err = svc.AddExpense(ctx, email, ItemInput{Name: "housing", Amount: domain.Amount(2500), Frequency: domain.FrequencyMonthly})
	require.NoError(t, err)
	_, err = svc.AddExpense(ctx, email, ItemInput{Name: "travel", Amount: domain.Amount(10000), Frequency: domain.FrequencyYearly})
	require.NoError(t, err)
	_, err = svc.AddSaving(ctx, email, ItemInput{Name: domain.LumpSumSavingName, Amount: domain.Amount(100000), Frequency: domain.FrequencyOneTime})
	require.NoError(t, err)
	_, err = svc.AddSaving(ctx, email, ItemInput{Name: "401k", Amount: domain.Amount(2500), Frequency: domain.FrequencyQuarterly})
	require.NoError(t, err)
}

func ages(t *testing.T, results []domain.ProjectionResult) []int {
	t.Helper()
	out := make([]int, 0, len(results))
	for _, r := range results {
		if r.RetirementAge == nil {
			out = append(out, -1)
			continue
		}
		out = append(out, *r.RetirementAge)
	}
	return out
}

func TestRegisterUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, created, err := svc.RegisterUser(ctx, RegisterUserInput{Email: email, Age: intPtr(40)})
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, u.IsActive)
	_, err = uuid.Parse(u.ExternalID)
	assert.NoError(t, err, "a missing external id is generated")

	again, created, err := svc.RegisterUser(ctx, RegisterUserInput{Email: email, ExternalID: "other"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)

	byExternal, created, err := svc.RegisterUser(ctx, RegisterUserInput{Email: "new@example.com", ExternalID: u.ExternalID})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, byExternal.ID)

	_, _, err = svc.RegisterUser(ctx, RegisterUserInput{Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.RegisterUser(ctx, RegisterUserInput{Email: "old@example.com", Age: intPtr(400)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCurrentUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CurrentUser(ctx, "")
	assert.ErrorIs(t, err, ErrMissingIdentity)

	_, err = svc.CurrentUser(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, _, err := svc.RegisterUser(ctx, RegisterUserInput{Email: email})
	require.NoError(t, err)

	u, err := svc.UpdateProfile(ctx, email, UpdateProfileInput{Age: intPtr(45)})
	require.NoError(t, err)
	assert.Equal(t, 45, *u.Age)
	assert.Nil(t, u.StartYear)

	u, err = svc.UpdateProfile(ctx, email, UpdateProfileInput{StartYear: intPtr(2026)})
	require.NoError(t, err)
	assert.Equal(t, 45, *u.Age, "unset fields are kept")
	assert.Equal(t, 2026, *u.StartYear)

	_, err = svc.UpdateProfile(ctx, email, UpdateProfileInput{Age: intPtr(-3)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecords(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedSaver(t, svc)

	expenses, err := svc.ListExpenses(ctx, email, 0, 100)
	require.NoError(t, err)
	assert.Len(t, expenses, 2)

	savings, err := svc.ListSavings(ctx, email, 1, 100)
	require.NoError(t, err)
	require.Len(t, savings, 1)
	assert.Equal(t, "401k", savings[0].Name)

	testCases := []struct {
		name string
		call func() error
	}{
		{"expense without name", func() error {
			_, err := svc.AddExpense(ctx, email, ItemInput{Amount: domain.Amount(1), Frequency: domain.FrequencyMonthly})
			return err
		}},
		{"expense without amount", func() error {
			_, err := svc.AddExpense(ctx, email, ItemInput{Name: "x", Frequency: domain.FrequencyMonthly})
			return err
		}},
		{"one-time expense", func() error {
			_, err := svc.AddExpense(ctx, email, ItemInput{Name: "x", Amount: domain.Amount(1), Frequency: domain.FrequencyOneTime})
			return err
		}},
		{"bi-weekly saving", func() error {
			_, err := svc.AddSaving(ctx, email, ItemInput{Name: "x", Amount: domain.Amount(1), Frequency: "bi-weekly"})
			return err
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.call(), ErrInvalidInput)
		})
	}

	_, err = svc.AddExpense(ctx, "ghost@example.com", ItemInput{Name: "x", Amount: domain.Amount(1), Frequency: domain.FrequencyMonthly})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAssumptions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedSaver(t, svc)

	_, err := svc.GetAssumptions(ctx, email)
	assert.ErrorIs(t, err, ErrAssumptionsNotFound)

	want := domain.EconomicAssumptions{ReturnRate: 0.05, InflationRate: 0.03, LifeExpectancy: 90}
	_, err = svc.SaveAssumptions(ctx, email, want)
	require.NoError(t, err)

	got, err := svc.GetAssumptions(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	_, err = svc.SaveAssumptions(ctx, email, domain.EconomicAssumptions{ReturnRate: -2, LifeExpectancy: 90})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProjections(t *testing.T) {
	svc, c := newTestService(t)
	ctx := context.Background()
	seedSaver(t, svc)

	resp, err := svc.Projections(ctx, email)
	require.NoError(t, err)
	require.Len(t, resp.Projections, 3)
	assert.Equal(t, []int{54, 60, 68}, ages(t, resp.Projections))
	assert.Equal(t, domain.LifestyleFrugal, resp.Projections[0].Lifestyle)
	assert.Equal(t, 1, c.Len())

	cached, err := svc.Projections(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, resp, cached)
	assert.Equal(t, 1, c.Len())

	// changing an input produces a new cache entry
	_, err = svc.AddSaving(ctx, email, ItemInput{Name: "ira", Amount: domain.Amount(5000), Frequency: domain.FrequencyYearly})
	require.NoError(t, err)
	updated, err := svc.Projections(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, []int{51, 57, 64}, ages(t, updated.Projections))
	assert.Equal(t, 2, c.Len())
}

func TestProjections_StoredAssumptions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.RegisterUser(ctx, RegisterUserInput{Email: email, Age: intPtr(30)})
	require.NoError(t, err)
	_, err = svc.AddExpense(ctx, email, ItemInput{Name: "living", Amount: domain.Amount(25000), Frequency: domain.FrequencyYearly})
	require.NoError(t, err)
	_, err = svc.AddSaving(ctx, email, ItemInput{Name: "salary", Amount: domain.Amount(25000), Frequency: domain.FrequencyYearly})
	require.NoError(t, err)
	_, err = svc.SaveAssumptions(ctx, email, domain.EconomicAssumptions{LifeExpectancy: 60})
	require.NoError(t, err)

	resp, err := svc.Projections(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, []int{46, 49, 53}, ages(t, resp.Projections))
}

func TestProjections_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Projections(ctx, "")
	assert.ErrorIs(t, err, ErrMissingIdentity)

	_, err = svc.Projections(ctx, email)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, _, err = svc.RegisterUser(ctx, RegisterUserInput{Email: email})
	require.NoError(t, err)
	_, err = svc.Projections(ctx, email)
	assert.ErrorIs(t, err, ErrAgeNotSet)
}

func TestProjections_Infeasible(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.RegisterUser(ctx, RegisterUserInput{Email: email, Age: intPtr(96)})
	require.NoError(t, err)

	resp, err := svc.Projections(ctx, email)
	require.NoError(t, err)
	require.Len(t, resp.Projections, 3)
	for _, r := range resp.Projections {
		assert.False(t, r.CanRetire)
		assert.Nil(t, r.RetirementAge)
	}
}

func TestReport(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedSaver(t, svc)

	report, err := svc.Report(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, email, report.ProfileName)
	assert.Equal(t, 100000.0, report.Inputs.CurrentSavingsTotal)
	assert.Equal(t, 10000.0, report.Inputs.AnnualSavingsContribution)
	assert.Equal(t, 40000.0, report.Inputs.BaseAnnualExpenses)
	assert.Len(t, report.Schedules, 3)
	assert.Len(t, report.Schedules[domain.LifestyleFrugal], 95-30+1)

	assert.False(t, svc.engine.IncludeSchedules, "the shared engine is not modified")
}

func TestNegativeExpenseOffsetsSpending(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedSaver(t, svc)

	refund, err := svc.AddExpense(ctx, email, ItemInput{Name: "refund", Amount: domain.Amount(-100), Frequency: domain.FrequencyMonthly})
	require.NoError(t, err)
	assert.Equal(t, -100.0, refund.Amount)

	expenses, err := svc.ListExpenses(ctx, email, 0, 100)
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	assert.Equal(t, -100.0, expenses[2].Amount)

	report, err := svc.Report(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, 40000.0-1200.0, report.Inputs.BaseAnnualExpenses)
}

func TestNewPlannerService_Defaults(t *testing.T) {
	svc := NewPlannerService(store.NewMemoryStore(), calculation.NewCalculationEngine())
	assert.IsType(t, cache.Nop{}, svc.cache)
	assert.NoError(t, svc.Ping(context.Background()))
}
