package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/maretraitesuisse/simulator/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrInvalidProfile is wrapped by every profile validation failure
var ErrInvalidProfile = errors.New("invalid profile")

const (
	maxAge            = 120
	maxRetirementAge  = 75
	maxCreditedYears  = 60
	exampleConfigNote = "# Swiss retirement simulator input. Amounts in CHF, occupational_capital and spouse_pension are optional.\n"
)

// InputParser handles parsing and validation of client documents and rule overrides
type InputParser struct {
	// Now is the clock used to derive ages from birth dates
	Now func() time.Time
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{Now: time.Now}
}

// LoadFromFile loads a client document from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseConfiguration(data)
}

// ParseConfiguration decodes and validates a YAML client document
func (ip *InputParser) ParseConfiguration(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates every client of the document, applying profile defaults in place
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if len(config.Clients) == 0 {
		return fmt.Errorf("no clients provided")
	}

	for i := range config.Clients {
		entry := &config.Clients[i]
		if err := ip.ValidateClient(&entry.Client); err != nil {
			return fmt.Errorf("client %d validation failed: %w", i, err)
		}
		if err := ip.ValidateProfile(&entry.Profile); err != nil {
			return fmt.Errorf("client %d (%s) validation failed: %w", i, entry.Client.DisplayName(), err)
		}
	}

	return nil
}

// ValidateClient checks the identity block of a client
func (ip *InputParser) ValidateClient(client *domain.Client) error {
	client.FirstName = strings.TrimSpace(client.FirstName)
	client.LastName = strings.TrimSpace(client.LastName)
	client.Email = strings.TrimSpace(client.Email)

	if client.FirstName == "" && client.LastName == "" {
		return fmt.Errorf("client name is required")
	}
	if client.Email != "" {
		if _, err := mail.ParseAddress(client.Email); err != nil {
			return fmt.Errorf("invalid email %q: %w", client.Email, err)
		}
	}
	return nil
}

// ValidateProfile applies intake defaults to a profile and checks its invariants.
// Every error wraps ErrInvalidProfile.
func (ip *InputParser) ValidateProfile(profile *domain.PersonProfile) error {
	if err := ip.applyDefaults(profile); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if err := validateProfile(profile); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return nil
}

// applyDefaults normalizes enum spellings, fills the employment and spouse defaults,
// and derives the current age from the birth date when one is given
func (ip *InputParser) applyDefaults(profile *domain.PersonProfile) error {
	profile.MaritalStatus = domain.MaritalStatus(strings.ToLower(strings.TrimSpace(string(profile.MaritalStatus))))
	profile.EmploymentStatus = domain.EmploymentStatus(strings.ToLower(strings.TrimSpace(string(profile.EmploymentStatus))))
	profile.SpouseAwareness = domain.SpouseAwareness(strings.ToLower(strings.TrimSpace(string(profile.SpouseAwareness))))

	if profile.MaritalStatus == "" {
		profile.MaritalStatus = domain.Single
	}
	if profile.EmploymentStatus == "" {
		profile.EmploymentStatus = domain.Employed
	}
	if profile.MaritalStatus == domain.Married && profile.SpouseAwareness == "" {
		if profile.SpousePension != nil {
			profile.SpouseAwareness = domain.SpouseKnown
		} else {
			profile.SpouseAwareness = domain.SpouseUnknown
		}
	}

	if profile.BirthDate != "" {
		birth, err := dateutil.ParseDate(profile.BirthDate)
		if err != nil {
			return err
		}
		now := time.Now()
		if ip.Now != nil {
			now = ip.Now()
		}
		age := dateutil.Age(birth, now)
		if profile.CurrentAge != 0 && profile.CurrentAge != age {
			return fmt.Errorf("current age %d does not match birth date %s (age %d)", profile.CurrentAge, profile.BirthDate, age)
		}
		profile.CurrentAge = age
	}
	return nil
}

func validateProfile(p *domain.PersonProfile) error {
	if p.CurrentAge <= 0 || p.CurrentAge > maxAge {
		return fmt.Errorf("current age must be between 1 and %d", maxAge)
	}
	if p.RetirementAge <= p.CurrentAge {
		return fmt.Errorf("retirement age (%d) must be greater than current age (%d)", p.RetirementAge, p.CurrentAge)
	}
	if p.RetirementAge > maxRetirementAge {
		return fmt.Errorf("retirement age cannot exceed %d", maxRetirementAge)
	}
	if p.YearsContributed < 0 {
		return fmt.Errorf("years contributed cannot be negative")
	}
	if p.YearsContributed > p.CurrentAge {
		return fmt.Errorf("years contributed (%d) cannot exceed current age (%d)", p.YearsContributed, p.CurrentAge)
	}
	if p.EducationCreditYears < 0 || p.EducationCreditYears > maxCreditedYears {
		return fmt.Errorf("education credit years must be between 0 and %d", maxCreditedYears)
	}
	if p.AssistanceCreditYears < 0 || p.AssistanceCreditYears > maxCreditedYears {
		return fmt.Errorf("assistance credit years must be between 0 and %d", maxCreditedYears)
	}
	if p.CurrentSalary.IsNegative() {
		return fmt.Errorf("current salary cannot be negative")
	}
	if p.AverageIncome.IsNegative() {
		return fmt.Errorf("average income cannot be negative")
	}
	if p.OccupationalCapital != nil && p.OccupationalCapital.IsNegative() {
		return fmt.Errorf("occupational capital cannot be negative")
	}

	switch p.MaritalStatus {
	case domain.Single, domain.Married:
	default:
		return fmt.Errorf("invalid marital status %q", p.MaritalStatus)
	}
	switch p.EmploymentStatus {
	case domain.Employed, domain.SelfEmployed:
	default:
		return fmt.Errorf("invalid employment status %q", p.EmploymentStatus)
	}

	if p.IsMarried() {
		switch p.SpouseAwareness {
		case domain.SpouseKnown, domain.SpouseUnknown, domain.SpouseNeverWorked:
		default:
			return fmt.Errorf("invalid spouse awareness %q", p.SpouseAwareness)
		}
		if p.SpousePension != nil && p.SpousePension.IsNegative() {
			return fmt.Errorf("spouse pension cannot be negative")
		}
	}

	return nil
}

// LoadRulesFromFile reads a legal rules override file. Keys absent from the file
// keep their DefaultLegalRules value; unknown keys are rejected.
func (ip *InputParser) LoadRulesFromFile(filename string) (domain.LegalRules, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.LegalRules{}, fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}
	return ip.ParseRules(data)
}

// ParseRules decodes a YAML rules override on top of the defaults and validates the result
func (ip *InputParser) ParseRules(data []byte) (domain.LegalRules, error) {
	rules := domain.DefaultLegalRules()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return domain.LegalRules{}, fmt.Errorf("failed to parse rules YAML: %w", err)
	}

	if err := rules.Validate(); err != nil {
		return domain.LegalRules{}, fmt.Errorf("rules validation failed: %w", err)
	}
	return rules, nil
}

// SaveConfiguration writes a client document as YAML
func (ip *InputParser) SaveConfiguration(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.WriteFile(filename, append([]byte(exampleConfigNote), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// CreateExampleConfiguration creates an example document with one client per situation
// the simulator distinguishes
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	capital := decimal.NewFromInt(185000)
	spouse := decimal.NewFromInt(1950)

	return &domain.Configuration{
		Clients: []domain.ClientProfile{
			{
				Client: domain.Client{FirstName: "Anna", LastName: "Meier", Email: "anna.meier@example.ch"},
				Profile: domain.PersonProfile{
					CurrentAge:          45,
					RetirementAge:       65,
					CurrentSalary:       decimal.NewFromInt(95000),
					AverageIncome:       decimal.NewFromInt(82000),
					YearsContributed:    22,
					MaritalStatus:       domain.Single,
					EmploymentStatus:    domain.Employed,
					OccupationalCapital: &capital,
				},
			},
			{
				Client: domain.Client{FirstName: "Luca", LastName: "Rossi", Email: "luca.rossi@example.ch"},
				Profile: domain.PersonProfile{
					CurrentAge:           56,
					RetirementAge:        65,
					CurrentSalary:        decimal.NewFromInt(110000),
					AverageIncome:        decimal.NewFromInt(90720),
					YearsContributed:     33,
					EducationCreditYears: 8,
					MaritalStatus:        domain.Married,
					EmploymentStatus:     domain.Employed,
					SpousePension:        &spouse,
					SpouseAwareness:      domain.SpouseKnown,
				},
			},
			{
				Client: domain.Client{FirstName: "Claire", LastName: "Dubois"},
				Profile: domain.PersonProfile{
					CurrentAge:       50,
					RetirementAge:    65,
					CurrentSalary:    decimal.NewFromInt(70000),
					AverageIncome:    decimal.NewFromInt(60000),
					YearsContributed: 24,
					MaritalStatus:    domain.Married,
					EmploymentStatus: domain.SelfEmployed,
					SpouseAwareness:  domain.SpouseNeverWorked,
				},
			},
		},
	}
}
