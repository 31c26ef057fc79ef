package domain

import "time"

// ProjectionInputs are the scalar inputs derived from a profile and fed to
// the retirement simulator.
type ProjectionInputs struct {
	CurrentAge                int     `json:"current_age"`
	CurrentSavingsTotal       float64 `json:"current_savings_total"`
	AnnualSavingsContribution float64 `json:"annual_savings_contribution"`
	BaseAnnualExpenses        float64 `json:"base_annual_expenses"`
}

// ProjectionResult is the earliest feasible retirement age for one lifestyle.
type ProjectionResult struct {
	Lifestyle     string `json:"lifestyle"`
	RetirementAge *int   `json:"retirement_age"`
	CanRetire     bool   `json:"can_retire"`
}

// NewProjectionResult builds a result; CanRetire is derived from ok.
func NewProjectionResult(lifestyle string, age int, ok bool) ProjectionResult {
	if !ok {
		return ProjectionResult{Lifestyle: lifestyle}
	}
	return ProjectionResult{Lifestyle: lifestyle, RetirementAge: &age, CanRetire: true}
}

// Phase distinguishes saving years from drawdown years in a schedule.
type Phase string

const (
	PhaseAccumulation Phase = "accumulation"
	PhaseDrawdown     Phase = "drawdown"
)

// YearBalance is one row of a year-by-year savings schedule. All amounts are
// nominal.
type YearBalance struct {
	Age          int     `json:"age"`
	Phase        Phase   `json:"phase"`
	StartBalance float64 `json:"start_balance"`
	Contribution float64 `json:"contribution"`
	Withdrawal   float64 `json:"withdrawal"`
	Growth       float64 `json:"growth"`
	EndBalance   float64 `json:"end_balance"`
}

// ProjectionReport collects the projections for every lifestyle of a profile.
type ProjectionReport struct {
	ProfileName string                   `json:"profile_name"`
	Inputs      ProjectionInputs         `json:"inputs"`
	Assumptions EconomicAssumptions      `json:"assumptions"`
	Projections []ProjectionResult       `json:"projections"`
	Schedules   map[string][]YearBalance `json:"schedules,omitempty"`
	GeneratedAt time.Time                `json:"generated_at"`
}

// Result returns the projection for the named lifestyle.
func (pr *ProjectionReport) Result(lifestyle string) (ProjectionResult, bool) {
	for _, r := range pr.Projections {
		if r.Lifestyle == lifestyle {
			return r, true
		}
	}
	return ProjectionResult{}, false
}

// ProjectionResponse is the API envelope for projection results.
type ProjectionResponse struct {
	Projections []ProjectionResult `json:"projections"`
}
