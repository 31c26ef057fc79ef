package output

import (
	"strconv"

	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
	"github.com/rpgo/retirement-planner/pkg/decimal"
)

// FormatCurrency formats a nominal amount as grouped USD with cents.
func FormatCurrency(amount float64) string { return decimal.NewMoney(amount).Format() }

// FormatPercentage formats a fractional rate (0.07) as "7.00%".
func FormatPercentage(rate float64) string { return decimal.FormatRate(rate) }

// FormatAmount renders an amount with two decimals and no grouping, for CSV.
func FormatAmount(amount float64) string { return decimal.NewMoney(amount).String() }

const notFeasible = "not feasible"

// FormatRetirementAge renders the retirement age or "not feasible".
func FormatRetirementAge(r domain.ProjectionResult) string {
	if !r.CanRetire || r.RetirementAge == nil {
		return notFeasible
	}
	return intToString(*r.RetirementAge)
}

// retirementYear is the calendar year of a feasible retirement, relative to
// the year the report was generated.
func retirementYear(report *domain.ProjectionReport, r domain.ProjectionResult) (int, bool) {
	if !r.CanRetire || r.RetirementAge == nil {
		return 0, false
	}
	return dateutil.YearAtAge(report.GeneratedAt.Year(), report.Inputs.CurrentAge, *r.RetirementAge), true
}

// yearsAway is how many years remain until a feasible retirement.
func yearsAway(report *domain.ProjectionReport, r domain.ProjectionResult) (int, bool) {
	if !r.CanRetire || r.RetirementAge == nil {
		return 0, false
	}
	return dateutil.YearsUntilAge(report.Inputs.CurrentAge, *r.RetirementAge), true
}

func multiplierOf(lifestyle string) string {
	m, ok := domain.LifestyleMultiplier(lifestyle)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(m, 'f', 1, 64) + "x"
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
