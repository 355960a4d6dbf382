package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maretraitesuisse/simulator/internal/domain"
)

// NoopRecorder is a no-op implementation used when persistence is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Save(_ context.Context, sim domain.Simulation, rulesYear int) (Record, error) {
	if sim.ID == "" {
		sim.ID = uuid.NewString()
	}
	if sim.CreatedAt.IsZero() {
		sim.CreatedAt = time.Now().UTC()
	}
	return Record{ID: sim.ID, CreatedAt: sim.CreatedAt, RulesYear: rulesYear, Client: sim.Client, Profile: sim.Result.Profile, Result: sim.Result}, nil
}

func (n *NoopRecorder) Get(_ context.Context, _ string) (Record, error)           { return Record{}, ErrNotFound }
func (n *NoopRecorder) List(_ context.Context, _ int) ([]Record, error)           { return nil, nil }
func (n *NoopRecorder) PurgeBefore(_ context.Context, _ time.Time) (int64, error) { return 0, nil }
func (n *NoopRecorder) Close() error                                              { return nil }
