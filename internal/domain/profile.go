package domain

import (
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// MaritalStatus selects whether the couple ceiling applies
type MaritalStatus string

const (
	Single  MaritalStatus = "single"
	Married MaritalStatus = "married"
)

// SpouseAwareness describes what the client knows about the spouse's state pension
type SpouseAwareness string

const (
	SpouseKnown       SpouseAwareness = "known"
	SpouseUnknown     SpouseAwareness = "unknown"
	SpouseNeverWorked SpouseAwareness = "never_worked"
)

// EmploymentStatus drives whether mandatory occupational contributions are made
type EmploymentStatus string

const (
	Employed     EmploymentStatus = "employed"
	SelfEmployed EmploymentStatus = "self_employed"
)

// PersonProfile holds the validated numeric inputs of one simulation
type PersonProfile struct {
	CurrentAge            int              `yaml:"current_age" json:"current_age"`
	RetirementAge         int              `yaml:"retirement_age" json:"retirement_age"`
	CurrentSalary         decimal.Decimal  `yaml:"current_salary" json:"current_salary"`
	AverageIncome         decimal.Decimal  `yaml:"average_income" json:"average_income"`
	YearsContributed      int              `yaml:"years_contributed" json:"years_contributed"`
	EducationCreditYears  int              `yaml:"education_credit_years" json:"education_credit_years"`
	AssistanceCreditYears int              `yaml:"assistance_credit_years" json:"assistance_credit_years"`
	MaritalStatus         MaritalStatus    `yaml:"marital_status" json:"marital_status"`
	EmploymentStatus      EmploymentStatus `yaml:"employment_status,omitempty" json:"employment_status,omitempty"`

	// Optional amounts: nil means the client does not know them
	OccupationalCapital *decimal.Decimal `yaml:"occupational_capital,omitempty" json:"occupational_capital,omitempty"`
	SpousePension       *decimal.Decimal `yaml:"spouse_pension,omitempty" json:"spouse_pension,omitempty"`
	SpouseAwareness     SpouseAwareness  `yaml:"spouse_awareness,omitempty" json:"spouse_awareness,omitempty"`

	// BirthDate (YYYY-MM-DD) lets intake derive CurrentAge when it is not given
	BirthDate string `yaml:"birth_date,omitempty" json:"birth_date,omitempty"`
}

// UnmarshalYAML accepts optional decimal amounts written as plain numbers or strings
// and normalizes enum spellings.
func (p *PersonProfile) UnmarshalYAML(value *yaml.Node) error {
	type Alias struct {
		CurrentAge            int             `yaml:"current_age"`
		RetirementAge         int             `yaml:"retirement_age"`
		CurrentSalary         decimal.Decimal `yaml:"current_salary"`
		AverageIncome         decimal.Decimal `yaml:"average_income"`
		YearsContributed      int             `yaml:"years_contributed"`
		EducationCreditYears  int             `yaml:"education_credit_years"`
		AssistanceCreditYears int             `yaml:"assistance_credit_years"`
		MaritalStatus         string          `yaml:"marital_status"`
		EmploymentStatus      string          `yaml:"employment_status,omitempty"`
		OccupationalCapital   *string         `yaml:"occupational_capital,omitempty"`
		SpousePension         *string         `yaml:"spouse_pension,omitempty"`
		SpouseAwareness       string          `yaml:"spouse_awareness,omitempty"`
		BirthDate             string          `yaml:"birth_date,omitempty"`
	}

	var aux Alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	p.CurrentAge = aux.CurrentAge
	p.RetirementAge = aux.RetirementAge
	p.CurrentSalary = aux.CurrentSalary
	p.AverageIncome = aux.AverageIncome
	p.YearsContributed = aux.YearsContributed
	p.EducationCreditYears = aux.EducationCreditYears
	p.AssistanceCreditYears = aux.AssistanceCreditYears
	p.MaritalStatus = MaritalStatus(strings.ToLower(strings.TrimSpace(aux.MaritalStatus)))
	p.EmploymentStatus = EmploymentStatus(strings.ToLower(strings.TrimSpace(aux.EmploymentStatus)))
	p.SpouseAwareness = SpouseAwareness(strings.ToLower(strings.TrimSpace(aux.SpouseAwareness)))
	p.BirthDate = strings.TrimSpace(aux.BirthDate)

	if aux.OccupationalCapital != nil {
		val, err := decimal.NewFromString(strings.TrimSpace(*aux.OccupationalCapital))
		if err != nil {
			return err
		}
		p.OccupationalCapital = &val
	}
	if aux.SpousePension != nil {
		val, err := decimal.NewFromString(strings.TrimSpace(*aux.SpousePension))
		if err != nil {
			return err
		}
		p.SpousePension = &val
	}

	return nil
}

// YearsRemaining returns the number of contribution years left before retirement (never negative)
func (p PersonProfile) YearsRemaining() int {
	if p.RetirementAge <= p.CurrentAge {
		return 0
	}
	return p.RetirementAge - p.CurrentAge
}

// YearsAtRetirement is the projected state pension career length at retirement
func (p PersonProfile) YearsAtRetirement() int {
	years := p.YearsContributed
	if years < 0 {
		years = 0
	}
	return years + p.YearsRemaining()
}

// IsMarried reports whether the couple ceiling applies
func (p PersonProfile) IsMarried() bool {
	return p.MaritalStatus == Married
}

// IsSelfEmployed reports whether the person is outside mandatory occupational coverage
func (p PersonProfile) IsSelfEmployed() bool {
	return p.EmploymentStatus == SelfEmployed
}

// Client identifies the person a simulation was run for
type Client struct {
	FirstName string `yaml:"first_name" json:"first_name"`
	LastName  string `yaml:"last_name" json:"last_name"`
	Email     string `yaml:"email,omitempty" json:"email,omitempty"`
}

// DisplayName returns "First LAST", falling back to whichever part is present
func (c Client) DisplayName() string {
	first := strings.TrimSpace(c.FirstName)
	last := strings.ToUpper(strings.TrimSpace(c.LastName))
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}

// ClientProfile pairs a client with the profile to simulate
type ClientProfile struct {
	Client  Client        `yaml:"client" json:"client"`
	Profile PersonProfile `yaml:"profile" json:"profile"`
}

// Configuration is the document loaded by the CLI: one or more clients to simulate
type Configuration struct {
	Clients []ClientProfile `yaml:"clients" json:"clients"`
}
