package config

import (
	"fmt"
	"os"

	"github.com/rpgo/retirement-planner/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of profile files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a profile from a YAML (or JSON) file and validates it.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Profile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates profile bytes.
func (ip *InputParser) Parse(data []byte) (*domain.Profile, error) {
	var profile domain.Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateProfile(&profile); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}

	return &profile, nil
}

// ValidateProfile validates a loaded profile
func (ip *InputParser) ValidateProfile(profile *domain.Profile) error {
	if profile.Name == "" {
		return fmt.Errorf("name is required")
	}

	if profile.Age == nil && (profile.BirthDate == nil || profile.BirthDate.IsZero()) {
		return fmt.Errorf("either age or birth_date is required")
	}
	if profile.Age != nil && (*profile.Age < 0 || *profile.Age > domain.MaxAge) {
		return fmt.Errorf("age must be between 0 and %d", domain.MaxAge)
	}

	for i, item := range profile.Expenses {
		if err := validateItem(item, domain.Frequency.ValidForExpense); err != nil {
			return fmt.Errorf("expense %d (%s) validation failed: %w", i, item.Name, err)
		}
	}

	lumpSums := 0
	for i, item := range profile.Savings {
		if err := validateItem(item, domain.Frequency.ValidForSaving); err != nil {
			return fmt.Errorf("saving %d (%s) validation failed: %w", i, item.Name, err)
		}
		if item.CountsAsLumpSum() {
			lumpSums++
		}
	}
	if lumpSums > 1 {
		return fmt.Errorf("at most one lump-sum saving is allowed, found %d", lumpSums)
	}

	if profile.Assumptions != nil {
		if err := profile.Assumptions.Validate(); err != nil {
			return fmt.Errorf("assumptions validation failed: %w", err)
		}
	}

	return nil
}

func validateItem(item domain.RecurringItem, allowed func(domain.Frequency) bool) error {
	if item.Name == "" {
		return fmt.Errorf("name is required")
	}
	if item.Amount == nil {
		return fmt.Errorf("amount is required")
	}
	if !allowed(item.Frequency) {
		return fmt.Errorf("unsupported frequency %q", item.Frequency)
	}
	return nil
}

// CreateExampleProfile creates an example profile for reference
func (ip *InputParser) CreateExampleProfile() *domain.Profile {
	age := 35
	assumptions := domain.DefaultAssumptions()
	return &domain.Profile{
		Name: "Example Saver",
		Age:  &age,
		Expenses: []domain.RecurringItem{
			{Name: "Housing", Amount: domain.Amount(1800), Frequency: domain.FrequencyMonthly},
			{Name: "Groceries", Amount: domain.Amount(600), Frequency: domain.FrequencyMonthly},
			{Name: "Car insurance", Amount: domain.Amount(450), Frequency: domain.FrequencyQuarterly},
			{Name: "Travel", Amount: domain.Amount(4000), Frequency: domain.FrequencyYearly},
		},
		Savings: []domain.RecurringItem{
			{Name: domain.LumpSumSavingName, Amount: domain.Amount(85000), Frequency: domain.FrequencyOneTime, LumpSum: true},
			{Name: "401(k)", Amount: domain.Amount(1200), Frequency: domain.FrequencyMonthly},
			{Name: "Roth IRA", Amount: domain.Amount(7000), Frequency: domain.FrequencyYearly},
		},
		Assumptions: &assumptions,
	}
}

// MarshalProfile renders a profile as YAML.
func MarshalProfile(profile *domain.Profile) ([]byte, error) {
	data, err := yaml.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	return data, nil
}
