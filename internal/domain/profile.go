package domain

import (
	"time"

	"github.com/rpgo/retirement-planner/pkg/dateutil"
)

// Profile is the complete input to a projection run: who the saver is,
// what they spend, what they save, and the economic assumptions to apply.
type Profile struct {
	Name        string               `yaml:"name" json:"name"`
	Age         *int                 `yaml:"age,omitempty" json:"age,omitempty"`
	BirthDate   *time.Time           `yaml:"birth_date,omitempty" json:"birth_date,omitempty"`
	Expenses    []RecurringItem      `yaml:"expenses" json:"expenses"`
	Savings     []RecurringItem      `yaml:"savings" json:"savings"`
	Assumptions *EconomicAssumptions `yaml:"assumptions,omitempty" json:"assumptions,omitempty"`
}

// CurrentAge resolves the saver's age at the given date. An explicit age
// wins over a birth date.
func (p *Profile) CurrentAge(at time.Time) (int, bool) {
	if p.Age != nil {
		return *p.Age, true
	}
	if p.BirthDate != nil && !p.BirthDate.IsZero() {
		return dateutil.Age(*p.BirthDate, at), true
	}
	return 0, false
}

// EffectiveAssumptions returns the profile's assumptions or the defaults.
func (p *Profile) EffectiveAssumptions() EconomicAssumptions {
	if p.Assumptions == nil {
		return DefaultAssumptions()
	}
	return *p.Assumptions
}

// CountsAsLumpSum reports whether the item holds the current savings balance.
func (ri RecurringItem) CountsAsLumpSum() bool {
	return ri.LumpSum || ri.Name == LumpSumSavingName
}

// NewProfileFromRecords assembles a Profile from stored records. A nil
// assumptions pointer falls back to the defaults at calculation time.
func NewProfileFromRecords(user User, expenses []Expense, savings []Saving, assumptions *EconomicAssumptions) *Profile {
	p := &Profile{
		Name:        user.Email,
		Age:         user.Age,
		Assumptions: assumptions,
		Expenses:    make([]RecurringItem, 0, len(expenses)),
		Savings:     make([]RecurringItem, 0, len(savings)),
	}
	for _, e := range expenses {
		p.Expenses = append(p.Expenses, RecurringItem{Name: e.Name, Amount: Amount(e.Amount), Frequency: e.Frequency})
	}
	for _, s := range savings {
		p.Savings = append(p.Savings, RecurringItem{Name: s.Name, Amount: Amount(s.Amount), Frequency: s.Frequency, LumpSum: s.IsLumpSum})
	}
	return p
}
