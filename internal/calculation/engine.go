package calculation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rpgo/retirement-planner/internal/domain"
)

// ErrMissingAge is returned when a profile carries neither an age nor a birth date.
var ErrMissingAge = errors.New("profile has no age or birth date")

// DefaultMaxConcurrency limits how many profiles RunProfiles evaluates at once.
const DefaultMaxConcurrency = 10

// CalculationEngine turns profiles into per-lifestyle retirement projections.
type CalculationEngine struct {
	Logger Logger
	// IncludeSchedules attaches the year-by-year balance trace for every
	// feasible lifestyle to the report.
	IncludeSchedules bool
	MaxConcurrency   int
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Logger:         NopLogger{},
		MaxConcurrency: DefaultMaxConcurrency,
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// DeriveInputs splits a profile's savings into the lump-sum balance and
// recurring contributions, and annualizes contributions and expenses.
// Lump-sum amounts are added as-is regardless of their frequency tag.
func DeriveInputs(currentAge int, p *domain.Profile) domain.ProjectionInputs {
	var lumpSum float64
	recurring := make([]domain.RecurringItem, 0, len(p.Savings))
	for _, s := range p.Savings {
		if s.CountsAsLumpSum() {
			if s.Amount != nil {
				lumpSum += *s.Amount
			}
			continue
		}
		recurring = append(recurring, s)
	}

	return domain.ProjectionInputs{
		CurrentAge:                currentAge,
		CurrentSavingsTotal:       lumpSum,
		AnnualSavingsContribution: TotalAnnualAmount(recurring),
		BaseAnnualExpenses:        TotalAnnualAmount(p.Expenses),
	}
}

// ProjectLifestyles runs the simulator once per lifestyle and returns one
// result per lifestyle in declared order.
func ProjectLifestyles(inputs domain.ProjectionInputs, a domain.EconomicAssumptions) []domain.ProjectionResult {
	lifestyles := domain.Lifestyles()
	results := make([]domain.ProjectionResult, 0, len(lifestyles))
	for _, ls := range lifestyles {
		age, ok := CalculateRetirementProjection(retirementInputs(inputs, a, ls.Multiplier))
		results = append(results, domain.NewProjectionResult(ls.Name, age, ok))
	}
	return results
}

func retirementInputs(in domain.ProjectionInputs, a domain.EconomicAssumptions, multiplier float64) RetirementInputs {
	return RetirementInputs{
		CurrentAge:                in.CurrentAge,
		CurrentSavingsTotal:       in.CurrentSavingsTotal,
		AnnualSavingsContribution: in.AnnualSavingsContribution,
		BaseAnnualExpenses:        in.BaseAnnualExpenses,
		InvestmentReturnRate:      a.ReturnRate,
		InflationRate:             a.InflationRate,
		LifeExpectancy:            a.LifeExpectancy,
		ExpenseMultiplier:         multiplier,
	}
}

// RunProjections calculates the earliest retirement age of every lifestyle
// for a single profile.
func (ce *CalculationEngine) RunProjections(ctx context.Context, profile *domain.Profile) (*domain.ProjectionReport, error) {
	if profile == nil {
		return nil, fmt.Errorf("profile is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := nowFunc()
	age, ok := profile.CurrentAge(now)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingAge, profile.Name)
	}

	inputs := DeriveInputs(age, profile)
	assumptions := profile.EffectiveAssumptions()
	ce.Logger.Debugf("projecting %q: age=%d savings=%.2f contribution=%.2f expenses=%.2f",
		profile.Name, inputs.CurrentAge, inputs.CurrentSavingsTotal,
		inputs.AnnualSavingsContribution, inputs.BaseAnnualExpenses)

	report := &domain.ProjectionReport{
		ProfileName: profile.Name,
		Inputs:      inputs,
		Assumptions: assumptions,
		Projections: ProjectLifestyles(inputs, assumptions),
		GeneratedAt: now,
	}

	for _, r := range report.Projections {
		if !r.CanRetire {
			ce.Logger.Infof("%s lifestyle is not feasible for %q before age %d", r.Lifestyle, profile.Name, assumptions.LifeExpectancy)
			continue
		}
		ce.Logger.Debugf("%s lifestyle: retire at %d", r.Lifestyle, *r.RetirementAge)
		if !ce.IncludeSchedules {
			continue
		}
		if report.Schedules == nil {
			report.Schedules = make(map[string][]domain.YearBalance, len(report.Projections))
		}
		multiplier, _ := domain.LifestyleMultiplier(r.Lifestyle)
		report.Schedules[r.Lifestyle] = BuildSchedule(retirementInputs(inputs, assumptions, multiplier), *r.RetirementAge)
	}

	return report, nil
}

// RunProfiles evaluates several profiles in parallel. Reports keep the input
// order; a profile that fails leaves a nil entry and its error is joined
// into the returned error.
func (ce *CalculationEngine) RunProfiles(ctx context.Context, profiles []*domain.Profile) ([]*domain.ProjectionReport, error) {
	limit := ce.MaxConcurrency
	if limit <= 0 {
		limit = DefaultMaxConcurrency
	}

	reports := make([]*domain.ProjectionReport, len(profiles))
	errs := make([]error, len(profiles))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, limit)

	for i, p := range profiles {
		wg.Add(1)
		go func(idx int, profile *domain.Profile) {
			defer wg.Done()
			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				errs[idx] = fmt.Errorf("profile %d: %w", idx, ctx.Err())
				return
			}
			defer func() { <-semaphore }()

			report, err := ce.RunProjections(ctx, profile)
			if err != nil {
				errs[idx] = fmt.Errorf("profile %d: %w", idx, err)
				return
			}
			reports[idx] = report
		}(i, p)
	}

	wg.Wait()
	return reports, errors.Join(errs...)
}
