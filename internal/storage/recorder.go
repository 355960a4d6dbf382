package storage

import (
	"context"
	"errors"
	"time"

	"github.com/maretraitesuisse/simulator/internal/domain"
)

// ErrNotFound is returned by Get when no simulation has the requested id
var ErrNotFound = errors.New("simulation not found")

// Record is one stored simulation: the request as submitted and the rounded result
type Record struct {
	ID        string                  `json:"id"`
	CreatedAt time.Time               `json:"created_at"`
	RulesYear int                     `json:"rules_year"`
	Client    domain.Client           `json:"client"`
	Profile   domain.PersonProfile    `json:"profile"`
	Result    domain.RetirementResult `json:"result"`
}

// Simulation returns the record in the form the output formatters consume
func (r Record) Simulation() domain.Simulation {
	return domain.Simulation{
		ID:        r.ID,
		Client:    r.Client,
		Result:    r.Result,
		CreatedAt: r.CreatedAt,
	}
}

// Recorder persists simulations for later review and reporting.
type Recorder interface {
	// Save stores a simulation and returns its record. A missing id or timestamp is assigned.
	Save(ctx context.Context, sim domain.Simulation, rulesYear int) (Record, error)
	Get(ctx context.Context, id string) (Record, error)
	// List returns the most recent simulations first; limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]Record, error)
	// PurgeBefore deletes simulations created before cutoff and returns how many were removed.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}
