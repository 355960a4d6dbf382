package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted in profile documents
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date in UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// PensionStartDate returns the first day of the month following the birthday on which
// retirementAge is reached, which is when the first pension payment is due. A 29 February
// birthday falls in February of every year.
func PensionStartDate(birthDate time.Time, retirementAge int) time.Time {
	return time.Date(birthDate.Year()+retirementAge, birthDate.Month()+1, 1, 0, 0, 0, 0, birthDate.Location())
}

// RetirementYear returns the calendar year in which yearsRemaining contribution years end
func RetirementYear(now time.Time, yearsRemaining int) int {
	if yearsRemaining < 0 {
		yearsRemaining = 0
	}
	return now.Year() + yearsRemaining
}

// RetentionCutoff returns the instant before which records older than days are expired
func RetentionCutoff(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}
