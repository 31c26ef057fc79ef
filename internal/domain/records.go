package domain

import "fmt"

// LumpSumSavingName is the reserved saving name that marks the current
// savings balance rather than a recurring contribution.
const LumpSumSavingName = "Current Total Savings"

// Default economic assumptions used when a user has none stored.
const (
	DefaultReturnRate     = 0.07
	DefaultInflationRate  = 0.02
	DefaultLifeExpectancy = 95
)

// MaxAge bounds ages and life expectancies accepted from input.
const MaxAge = 130

// User is a planner account. Age is optional at the record level but
// required before projections can run.
type User struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	ExternalID string `json:"google_id"`
	Age        *int   `json:"age"`
	StartYear  *int   `json:"start_year,omitempty"`
	IsActive   bool   `json:"is_active"`
}

// Expense is a stored recurring expense owned by a user.
type Expense struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Frequency Frequency `json:"frequency"`
}

// Line implements LineItem.
func (e Expense) Line() (float64, Frequency, bool) { return e.Amount, e.Frequency, true }

// Saving is a stored saving entry owned by a user. It is either a recurring
// contribution or the lump-sum balance.
type Saving struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Frequency Frequency `json:"frequency"`
	IsLumpSum bool      `json:"is_lump_sum"`
}

// Line implements LineItem.
func (s Saving) Line() (float64, Frequency, bool) { return s.Amount, s.Frequency, true }

// CountsAsLumpSum reports whether s holds the current savings balance,
// either by explicit flag or by the reserved name.
func (s Saving) CountsAsLumpSum() bool {
	return s.IsLumpSum || s.Name == LumpSumSavingName
}

// EconomicAssumptions are the market and longevity parameters of a projection.
type EconomicAssumptions struct {
	ReturnRate     float64 `yaml:"return_rate" json:"return_rate"`
	InflationRate  float64 `yaml:"inflation_rate" json:"inflation_rate"`
	LifeExpectancy int     `yaml:"life_expectancy" json:"life_expectancy"`
}

// DefaultAssumptions returns 7% return, 2% inflation, life expectancy 95.
func DefaultAssumptions() EconomicAssumptions {
	return EconomicAssumptions{
		ReturnRate:     DefaultReturnRate,
		InflationRate:  DefaultInflationRate,
		LifeExpectancy: DefaultLifeExpectancy,
	}
}

// Validate rejects assumptions the simulator cannot compound: rates at or
// below -100% and a non-positive life expectancy.
func (a EconomicAssumptions) Validate() error {
	if a.ReturnRate <= -1 {
		return fmt.Errorf("return rate must be greater than -100%%")
	}
	if a.InflationRate <= -1 {
		return fmt.Errorf("inflation rate must be greater than -100%%")
	}
	if a.LifeExpectancy <= 0 || a.LifeExpectancy > MaxAge {
		return fmt.Errorf("life expectancy must be between 1 and %d", MaxAge)
	}
	return nil
}
