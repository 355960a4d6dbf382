package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/maretraitesuisse/simulator/internal/calculation"
	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "simulations.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func testSimulation(t *testing.T, lastName string, createdAt time.Time) domain.Simulation {
	t.Helper()
	capital := decimal.NewFromInt(150000)
	profile := domain.PersonProfile{
		CurrentAge:          48,
		RetirementAge:       65,
		CurrentSalary:       decimal.RequireFromString("87654.321"),
		AverageIncome:       decimal.NewFromInt(75000),
		YearsContributed:    25,
		MaritalStatus:       domain.Single,
		EmploymentStatus:    domain.Employed,
		OccupationalCapital: &capital,
	}

	result, err := calculation.NewCalculationEngine().Calculate(context.Background(), profile)
	require.NoError(t, err)

	return domain.Simulation{
		Client:    domain.Client{FirstName: "Test", LastName: lastName, Email: "test@example.ch"},
		Result:    *result,
		CreatedAt: createdAt,
	}
}

func TestSQLiteRecorder_SaveAndGet(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	sim := testSimulation(t, "Meier", time.Time{})
	saved, err := r.Save(ctx, sim, 2025)
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID, "id is assigned")
	assert.False(t, saved.CreatedAt.IsZero(), "timestamp is assigned")
	assert.True(t, saved.Result.TotalMonthly.Equal(sim.Result.TotalMonthly.Round(2)), "stored result is rounded")

	loaded, err := r.Get(ctx, saved.ID)
	require.NoError(t, err)

	assert.Equal(t, saved.ID, loaded.ID)
	assert.Equal(t, 2025, loaded.RulesYear)
	assert.Equal(t, saved.CreatedAt.Unix(), loaded.CreatedAt.Unix())
	assert.Equal(t, "Test MEIER", loaded.Client.DisplayName())
	assert.True(t, loaded.Profile.CurrentSalary.Equal(decimal.RequireFromString("87654.321")), "request is stored unrounded")
	assert.True(t, loaded.Result.TotalMonthly.Equal(saved.Result.TotalMonthly))
	assert.Equal(t, len(saved.Result.Scenarios), len(loaded.Result.Scenarios))
	assert.Equal(t, domain.CapitalDeclared, loaded.Result.CapitalSource)

	sim2 := loaded.Simulation()
	assert.Equal(t, saved.ID, sim2.ID)
	assert.Equal(t, loaded.Client, sim2.Client)
}

func TestSQLiteRecorder_GetMissing(t *testing.T) {
	r := newTestRecorder(t)

	_, err := r.Get(context.Background(), "does-not-exist")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLiteRecorder_DuplicateID(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	sim := testSimulation(t, "Meier", time.Now())
	sim.ID = "fixed-id"
	_, err := r.Save(ctx, sim, 2025)
	require.NoError(t, err)

	_, err = r.Save(ctx, sim, 2025)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert simulation")
}

func TestSQLiteRecorder_ListAndPurge(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, name := range []string{"Old", "Middle", "Recent"} {
		_, err := r.Save(ctx, testSimulation(t, name, now.AddDate(0, 0, -100*(2-i))), 2025)
		require.NoError(t, err)
	}

	all, err := r.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Recent", all[0].Client.LastName, "most recent first")
	assert.Equal(t, "Old", all[2].Client.LastName)

	limited, err := r.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	removed, err := r.PurgeBefore(ctx, now.AddDate(0, 0, -150))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	remaining, err := r.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, "Middle", remaining[1].Client.LastName)
}

func TestSQLiteRecorder_InMemory(t *testing.T) {
	r, err := NewSQLiteRecorder(":memory:", calculation.NopLogger{})
	require.NoError(t, err)
	defer r.Close()

	ctx := context.Background()
	_, err = r.Save(ctx, testSimulation(t, "Memory", time.Now()), 2025)
	require.NoError(t, err)

	records, err := r.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	ctx := context.Background()

	rec, err := r.Save(ctx, testSimulation(t, "Noop", time.Time{}), 2025)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)

	_, err = r.Get(ctx, rec.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	list, err := r.List(ctx, 0)
	assert.NoError(t, err)
	assert.Empty(t, list)

	n, err := r.PurgeBefore(ctx, time.Now())
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, r.Close())
}
