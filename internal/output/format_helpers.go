package output

import (
	"strconv"
	"time"

	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/maretraitesuisse/simulator/pkg/dateutil"
	"github.com/maretraitesuisse/simulator/pkg/decimal"
	stddec "github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as CHF with 2 decimals and apostrophe grouping.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount stddec.Decimal) string { return decimal.NewMoneyFromDecimal(amount).Format() }

// FormatWholeCurrency formats a decimal as whole francs, for compact summaries.
func FormatWholeCurrency(amount stddec.Decimal) string {
	return decimal.NewMoneyFromDecimal(amount).FormatWhole()
}

// FormatAnnualCurrency formats a monthly amount as its yearly equivalent.
func FormatAnnualCurrency(monthly stddec.Decimal) string {
	return decimal.NewMoneyFromDecimal(monthly).Annual().Format()
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount stddec.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fraction (0.068) as a percentage (6.80%).
func FormatRate(rate stddec.Decimal) string { return FormatPercentage(rate.Mul(decimalHundred)) }

// PensionStart describes when the pension begins: the first payment date when the birth
// date is known, else the calendar year the remaining contribution years end.
func PensionStart(p domain.PersonProfile, asOf time.Time) string {
	if p.BirthDate != "" {
		if birth, err := dateutil.ParseDate(p.BirthDate); err == nil {
			return "first payment " + dateutil.PensionStartDate(birth, p.RetirementAge).Format(dateutil.DateLayout)
		}
	}
	return "in " + intToString(dateutil.RetirementYear(asOf, p.YearsRemaining()))
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
