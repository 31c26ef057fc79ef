package dateutil

import (
	"time"
)

// Age calculates the age in whole years at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// YearAtAge returns the calendar year in which someone who is currentAge in
// currentYear reaches targetAge.
func YearAtAge(currentYear, currentAge, targetAge int) int {
	return currentYear + (targetAge - currentAge)
}

// YearsUntilAge returns how many whole years remain until targetAge, or zero
// when targetAge has already been reached.
func YearsUntilAge(currentAge, targetAge int) int {
	if targetAge <= currentAge {
		return 0
	}
	return targetAge - currentAge
}
