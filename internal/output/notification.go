package output

import (
	"fmt"
	"strings"

	"github.com/maretraitesuisse/simulator/internal/domain"
)

// Notification is the summary sent to a client once a simulation is stored.
// It carries only the name and the final totals.
type Notification struct {
	Recipient    string `json:"recipient"`
	Email        string `json:"email,omitempty"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	TotalMonthly string `json:"total_monthly"`
	TotalAnnual  string `json:"total_annual"`
}

// BuildNotification prepares the client summary of a simulation
func BuildNotification(sim domain.Simulation) Notification {
	res := sim.Result.Rounded(MoneyPlaces)
	name := sim.Client.DisplayName()
	monthly := FormatCurrency(res.TotalMonthly)
	annual := FormatCurrency(res.TotalAnnual)

	var body strings.Builder
	if name != "" {
		fmt.Fprintf(&body, "Hello %s,\n\n", name)
	} else {
		body.WriteString("Hello,\n\n")
	}
	body.WriteString("Your retirement simulation is ready.\n\n")
	fmt.Fprintf(&body, "Estimated retirement income: %s per month (%s per year).\n", monthly, annual)
	if sim.ID != "" {
		fmt.Fprintf(&body, "\nReference: %s\n", sim.ID)
	}

	return Notification{
		Recipient:    name,
		Email:        sim.Client.Email,
		Subject:      "Your retirement simulation",
		Body:         body.String(),
		TotalMonthly: monthly,
		TotalAnnual:  annual,
	}
}
