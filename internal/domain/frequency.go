package domain

// Frequency tags how often a recurring line item occurs.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
	FrequencyOneTime   Frequency = "one-time"
)

// Valid reports whether f is one of the four recognized tags.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly, FrequencyOneTime:
		return true
	}
	return false
}

// Recurring reports whether f is valid and repeats (anything but one-time).
func (f Frequency) Recurring() bool {
	return f.Valid() && f != FrequencyOneTime
}

// ValidForExpense reports whether f may be stored on an expense.
// Expenses are always recurring.
func (f Frequency) ValidForExpense() bool {
	return f.Recurring()
}

// ValidForSaving reports whether f may be stored on a saving. Savings also
// accept one-time so a current balance can be recorded; it annualizes to 0.
func (f Frequency) ValidForSaving() bool {
	return f.Valid()
}

// ValidFrequencies returns the recognized tags in canonical order.
// A new slice is returned on each call.
func ValidFrequencies() []Frequency {
	return []Frequency{FrequencyMonthly, FrequencyQuarterly, FrequencyYearly, FrequencyOneTime}
}

// LineItem is anything that carries an amount and a frequency tag.
// ok is false when either attribute is missing.
type LineItem interface {
	Line() (amount float64, frequency Frequency, ok bool)
}

// RecurringItem is the file-level form of an expense or saving entry.
// A nil Amount or an empty Frequency counts as missing.
type RecurringItem struct {
	Name      string    `yaml:"name" json:"name"`
	Amount    *float64  `yaml:"amount" json:"amount"`
	Frequency Frequency `yaml:"frequency" json:"frequency"`
	LumpSum   bool      `yaml:"lump_sum,omitempty" json:"lump_sum,omitempty"`
}

// Line implements LineItem.
func (ri RecurringItem) Line() (float64, Frequency, bool) {
	if ri.Amount == nil || ri.Frequency == "" {
		return 0, ri.Frequency, false
	}
	return *ri.Amount, ri.Frequency, true
}

// Amount returns a pointer to v, for building RecurringItem literals.
func Amount(v float64) *float64 { return &v }
