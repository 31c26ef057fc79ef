package domain

// Lifestyle is a named spending tier applied to baseline annual expenses.
type Lifestyle struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

const (
	LifestyleFrugal  = "frugal"
	LifestyleContent = "content"
	LifestyleLuxury  = "luxury"
)

var lifestyles = [...]Lifestyle{
	{Name: LifestyleFrugal, Multiplier: 1.0},
	{Name: LifestyleContent, Multiplier: 1.5},
	{Name: LifestyleLuxury, Multiplier: 2.5},
}

// Lifestyles returns the fixed lifestyle tiers in declared order.
// The returned slice is a copy; the table itself cannot be changed.
func Lifestyles() []Lifestyle {
	out := make([]Lifestyle, len(lifestyles))
	copy(out, lifestyles[:])
	return out
}

// LifestyleMultiplier looks up a tier by name.
func LifestyleMultiplier(name string) (float64, bool) {
	for _, l := range lifestyles {
		if l.Name == name {
			return l.Multiplier, true
		}
	}
	return 0, false
}
