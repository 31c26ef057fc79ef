package calculation

import (
	"errors"
	"fmt"

	"github.com/rpgo/retirement-planner/internal/domain"
)

// ErrInvalidFrequency is returned when a frequency tag is not recognized.
var ErrInvalidFrequency = errors.New("invalid frequency")

// NormalizeItemToAnnual converts a single amount to its annual equivalent.
// One-time amounts do not recur and annualize to zero.
func NormalizeItemToAnnual(amount float64, frequency domain.Frequency) (float64, error) {
	switch frequency {
	case domain.FrequencyMonthly:
		return amount * 12, nil
	case domain.FrequencyQuarterly:
		return amount * 4, nil
	case domain.FrequencyYearly:
		return amount, nil
	case domain.FrequencyOneTime:
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidFrequency, string(frequency))
	}
}

// TotalAnnualAmount sums the annual equivalent of every item in order.
// Items that are missing an amount or frequency, or that carry an
// unrecognized frequency, contribute nothing.
func TotalAnnualAmount[T domain.LineItem](items []T) float64 {
	total := 0.0
	for _, item := range items {
		amount, freq, ok := item.Line()
		if !ok {
			continue
		}
		annual, err := NormalizeItemToAnnual(amount, freq)
		if err != nil {
			continue
		}
		total += annual
	}
	return total
}
