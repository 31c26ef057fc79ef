package calculation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/retirement-planner/internal/domain"
)

func intPtr(v int) *int { return &v }

func sampleProfile() *domain.Profile {
	return &domain.Profile{
		Name: "sample",
		Age:  intPtr(30),
		Expenses: []domain.RecurringItem{
			{Name: "housing", Amount: domain.Amount(2500), Frequency: domain.FrequencyMonthly},
			{Name: "travel", Amount: domain.Amount(10000), Frequency: domain.FrequencyYearly},
		},
		Savings: []domain.RecurringItem{
			{Name: domain.LumpSumSavingName, Amount: domain.Amount(100000), Frequency: domain.FrequencyOneTime},
			{Name: "401k", Amount: domain.Amount(2500), Frequency: domain.FrequencyQuarterly},
		},
	}
}

func TestDeriveInputs(t *testing.T) {
	p := sampleProfile()
	p.Savings = append(p.Savings,
		domain.RecurringItem{Name: "brokerage", Amount: domain.Amount(5000), Frequency: domain.FrequencyYearly, LumpSum: true},
		domain.RecurringItem{Name: "windfall", Amount: domain.Amount(7000), Frequency: domain.FrequencyOneTime},
		domain.RecurringItem{Name: "weekly", Amount: domain.Amount(100), Frequency: "weekly"},
	)

	in := DeriveInputs(30, p)
	assert.Equal(t, 30, in.CurrentAge)
	assert.Equal(t, 105000.0, in.CurrentSavingsTotal)
	assert.Equal(t, 10000.0, in.AnnualSavingsContribution)
	assert.Equal(t, 40000.0, in.BaseAnnualExpenses)
}

func TestRunProjections(t *testing.T) {
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	SetNowFunc(func() time.Time { return fixed })
	defer SetNowFunc(time.Now)

	ce := NewCalculationEngine()
	report, err := ce.RunProjections(context.Background(), sampleProfile())
	require.NoError(t, err)

	assert.Equal(t, "sample", report.ProfileName)
	assert.Equal(t, fixed, report.GeneratedAt)
	assert.Equal(t, domain.DefaultAssumptions(), report.Assumptions)
	assert.Nil(t, report.Schedules)

	require.Len(t, report.Projections, 3)
	expected := []struct {
		lifestyle string
		age       int
	}{
		{domain.LifestyleFrugal, 54},
		{domain.LifestyleContent, 60},
		{domain.LifestyleLuxury, 68},
	}
	for i, e := range expected {
		r := report.Projections[i]
		assert.Equal(t, e.lifestyle, r.Lifestyle)
		require.NotNil(t, r.RetirementAge, e.lifestyle)
		assert.Equal(t, e.age, *r.RetirementAge)
		assert.True(t, r.CanRetire)
	}
}

func TestRunProjections_Infeasible(t *testing.T) {
	p := sampleProfile()
	p.Assumptions = &domain.EconomicAssumptions{ReturnRate: 0.07, InflationRate: 0.02, LifeExpectancy: 25}

	report, err := NewCalculationEngine().RunProjections(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, report.Projections, 3)
	for _, r := range report.Projections {
		assert.False(t, r.CanRetire)
		assert.Nil(t, r.RetirementAge)
	}
}

func TestRunProjections_Schedules(t *testing.T) {
	ce := NewCalculationEngine()
	ce.IncludeSchedules = true

	p := sampleProfile()
	p.Assumptions = &domain.EconomicAssumptions{ReturnRate: 0.05, InflationRate: 0.02, LifeExpectancy: 95}
	p.Savings[1].Amount = domain.Amount(250) // 1000 a year

	report, err := ce.RunProjections(context.Background(), p)
	require.NoError(t, err)

	for _, r := range report.Projections {
		rows, ok := report.Schedules[r.Lifestyle]
		assert.Equal(t, r.CanRetire, ok, r.Lifestyle)
		if ok {
			assert.Len(t, rows, 95-30+1)
		}
	}
}

func TestRunProjections_Errors(t *testing.T) {
	ce := NewCalculationEngine()

	_, err := ce.RunProjections(context.Background(), nil)
	assert.Error(t, err)

	_, err = ce.RunProjections(context.Background(), &domain.Profile{Name: "ageless"})
	assert.ErrorIs(t, err, ErrMissingAge)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ce.RunProjections(ctx, sampleProfile())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunProjections_BirthDate(t *testing.T) {
	SetNowFunc(func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) })
	defer SetNowFunc(time.Now)

	birth := time.Date(1995, 1, 15, 0, 0, 0, 0, time.UTC)
	p := sampleProfile()
	p.Age = nil
	p.BirthDate = &birth

	report, err := NewCalculationEngine().RunProjections(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 30, report.Inputs.CurrentAge)
}

func TestRunProfiles(t *testing.T) {
	ce := NewCalculationEngine()
	ce.MaxConcurrency = 2

	profiles := make([]*domain.Profile, 0, 6)
	for i := 0; i < 5; i++ {
		p := sampleProfile()
		p.Age = intPtr(30 + i)
		profiles = append(profiles, p)
	}
	profiles = append(profiles, &domain.Profile{Name: "ageless"})

	reports, err := ce.RunProfiles(context.Background(), profiles)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAge)
	assert.Contains(t, err.Error(), "profile 5")

	require.Len(t, reports, 6)
	for i := 0; i < 5; i++ {
		require.NotNil(t, reports[i])
		assert.Equal(t, 30+i, reports[i].Inputs.CurrentAge)
	}
	assert.Nil(t, reports[5])
}

func TestRunProfiles_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := NewCalculationEngine().RunProfiles(ctx, []*domain.Profile{sampleProfile()})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, reports[0])
}

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	l := NewSlogLogger(slog.New(handler))

	l.Debugf("hidden %d", 1)
	l.Infof("retire at %d", 54)
	l.Warnf("careful")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "retire at 54", entry["msg"])
	assert.Equal(t, "calculation", entry["component"])
}

func TestSetLogger_Nil(t *testing.T) {
	ce := NewCalculationEngine()
	ce.SetLogger(nil)
	assert.IsType(t, NopLogger{}, ce.Logger)
}
