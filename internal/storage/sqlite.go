package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/maretraitesuisse/simulator/internal/calculation"
	"github.com/maretraitesuisse/simulator/internal/domain"

	_ "modernc.org/sqlite"
)

// ResultPlaces is the rounding applied to stored results
const ResultPlaces = 2

// SQLiteRecorder persists simulations to a SQLite database. Request and result
// are stored as opaque JSON documents next to a few indexed columns.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger calculation.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger calculation.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = calculation.NopLogger{}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection: writes are serialized anyway and ":memory:" databases are per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS simulations (
			id            TEXT PRIMARY KEY,
			created_at    INTEGER NOT NULL,
			rules_year    INTEGER NOT NULL,
			client_name   TEXT,
			client_email  TEXT,
			total_monthly TEXT,
			request_json  TEXT NOT NULL,
			result_json   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_simulations_created ON simulations(created_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

type storedRequest struct {
	Client  domain.Client        `json:"client"`
	Profile domain.PersonProfile `json:"profile"`
}

// Save stores the simulation with its result rounded to ResultPlaces
func (r *SQLiteRecorder) Save(ctx context.Context, sim domain.Simulation, rulesYear int) (Record, error) {
	if sim.ID == "" {
		sim.ID = uuid.NewString()
	}
	if sim.CreatedAt.IsZero() {
		sim.CreatedAt = time.Now().UTC()
	}

	rec := Record{
		ID:        sim.ID,
		CreatedAt: sim.CreatedAt.Truncate(time.Second),
		RulesYear: rulesYear,
		Client:    sim.Client,
		Profile:   sim.Result.Profile,
		Result:    sim.Result.Rounded(ResultPlaces),
	}

	request, err := json.Marshal(storedRequest{Client: rec.Client, Profile: rec.Profile})
	if err != nil {
		return Record{}, fmt.Errorf("encode request: %w", err)
	}
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return Record{}, fmt.Errorf("encode result: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.ExecContext(ctx, `INSERT INTO simulations
		(id, created_at, rules_year, client_name, client_email, total_monthly, request_json, result_json)
		VALUES (?,?,?,?,?,?,?,?)`,
		rec.ID, rec.CreatedAt.Unix(), rec.RulesYear,
		rec.Client.DisplayName(), rec.Client.Email, rec.Result.TotalMonthly.String(),
		string(request), string(result),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert simulation: %w", err)
	}
	return rec, nil
}

// Get loads one simulation by id
func (r *SQLiteRecorder) Get(ctx context.Context, id string) (Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, created_at, rules_year, request_json, result_json
		FROM simulations WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// List returns stored simulations, most recent first
func (r *SQLiteRecorder) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, created_at, rules_year, request_json, result_json
		FROM simulations ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query simulations: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PurgeBefore deletes simulations created strictly before cutoff
func (r *SQLiteRecorder) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, `DELETE FROM simulations WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("purge simulations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge simulations: %w", err)
	}
	return n, nil
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Infof("closing sqlite recorder")
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var (
		rec       Record
		createdAt int64
		request   string
		result    string
	)
	if err := s.Scan(&rec.ID, &createdAt, &rec.RulesYear, &request, &result); err != nil {
		return Record{}, err
	}
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()

	var req storedRequest
	if err := json.Unmarshal([]byte(request), &req); err != nil {
		return Record{}, fmt.Errorf("decode request %s: %w", rec.ID, err)
	}
	rec.Client = req.Client
	rec.Profile = req.Profile

	if err := json.Unmarshal([]byte(result), &rec.Result); err != nil {
		return Record{}, fmt.Errorf("decode result %s: %w", rec.ID, err)
	}
	return rec, nil
}
