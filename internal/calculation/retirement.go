package calculation

import (
	"math"

	"github.com/rpgo/retirement-planner/internal/domain"
)

const (
	// MaxProjectionYears bounds the outer year scan of the simulator.
	MaxProjectionYears = 100
	// DivergenceFloor is the balance below which a shrinking portfolio
	// under negative returns is abandoned as infeasible.
	DivergenceFloor = -1e9
)

// RetirementInputs are the scalar inputs to a single simulator run.
// Monetary amounts are in today's money; rates are fractions (0.07 = 7%).
type RetirementInputs struct {
	CurrentAge                int
	CurrentSavingsTotal       float64
	AnnualSavingsContribution float64
	BaseAnnualExpenses        float64
	InvestmentReturnRate      float64
	InflationRate             float64
	LifeExpectancy            int
	ExpenseMultiplier         float64
}

// DesiredAnnualExpenses returns the lifestyle-adjusted spending in today's money.
func (in RetirementInputs) DesiredAnnualExpenses() float64 {
	return in.BaseAnnualExpenses * in.ExpenseMultiplier
}

// CalculateRetirementProjection returns the earliest age, starting at the
// current age, at which retiring leaves savings that cover inflated
// expenses through life expectancy inclusive. ok is false when no such age
// exists before life expectancy or within MaxProjectionYears.
func CalculateRetirementProjection(in RetirementInputs) (age int, ok bool) {
	if in.CurrentAge >= in.LifeExpectancy {
		return 0, false
	}

	desired := in.DesiredAnnualExpenses()
	accumulated := in.CurrentSavingsTotal

	for year := 0; year < MaxProjectionYears; year++ {
		age := in.CurrentAge + year
		if age >= in.LifeExpectancy {
			return 0, false
		}

		contribution := in.AnnualSavingsContribution * math.Pow(1+in.InflationRate, float64(year))

		if IsFeasibleAt(age, year, accumulated, desired, in.InflationRate, in.InvestmentReturnRate, in.LifeExpectancy) {
			return age, true
		}

		accumulated = accumulated*(1+in.InvestmentReturnRate) + contribution

		if accumulated < 0 && in.InvestmentReturnRate < 0 && accumulated < DivergenceFloor {
			return 0, false
		}
	}

	return 0, false
}

// IsFeasibleAt reports whether savings held at the given age cover every
// year of expenses from that age through lifeExpectancy inclusive.
// yearOffset is the number of years from today to age; expenses are
// inflated from today's money accordingly. Each year's withdrawal is taken
// before that year's growth.
func IsFeasibleAt(age, yearOffset int, savings, desiredExpensesToday, inflationRate, returnRate float64, lifeExpectancy int) bool {
	temp := savings
	for offset := 0; offset <= lifeExpectancy-age; offset++ {
		expense := desiredExpensesToday * math.Pow(1+inflationRate, float64(yearOffset+offset))
		if temp < expense {
			return false
		}
		temp -= expense
		temp *= 1 + returnRate
	}
	return true
}

// BuildSchedule traces balances year by year for a saver who retires at
// retirementAge: contributions and growth up to that age, then withdrawals
// and growth through life expectancy. It uses the simulator's arithmetic so
// the trace for a feasible age never dips below zero.
func BuildSchedule(in RetirementInputs, retirementAge int) []domain.YearBalance {
	if retirementAge < in.CurrentAge || retirementAge > in.LifeExpectancy {
		return nil
	}

	rows := make([]domain.YearBalance, 0, in.LifeExpectancy-in.CurrentAge+1)
	balance := in.CurrentSavingsTotal

	retireYear := retirementAge - in.CurrentAge
	for year := 0; year < retireYear; year++ {
		contribution := in.AnnualSavingsContribution * math.Pow(1+in.InflationRate, float64(year))
		end := balance*(1+in.InvestmentReturnRate) + contribution
		rows = append(rows, domain.YearBalance{
			Age:          in.CurrentAge + year,
			Phase:        domain.PhaseAccumulation,
			StartBalance: balance,
			Contribution: contribution,
			Growth:       end - balance - contribution,
			EndBalance:   end,
		})
		balance = end
	}

	desired := in.DesiredAnnualExpenses()
	for offset := 0; offset <= in.LifeExpectancy-retirementAge; offset++ {
		withdrawal := desired * math.Pow(1+in.InflationRate, float64(retireYear+offset))
		remaining := balance - withdrawal
		end := remaining * (1 + in.InvestmentReturnRate)
		rows = append(rows, domain.YearBalance{
			Age:          retirementAge + offset,
			Phase:        domain.PhaseDrawdown,
			StartBalance: balance,
			Withdrawal:   withdrawal,
			Growth:       end - remaining,
			EndBalance:   end,
		})
		balance = end
	}

	return rows
}
