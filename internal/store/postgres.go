// Package store persists column-generation run records and their final
// routes to Postgres, grounded on gpsnav's internal/store Postgres
// wrapper (database/sql over the pgx stdlib driver, google/uuid run ids).
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/azaryc2s/vrptw-cg/internal/vrperr"
)

// Postgres wraps a database/sql handle opened with the pgx stdlib driver.
type Postgres struct {
	db *sql.DB
}

// New opens and pings a Postgres connection.
func New(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, vrperr.New(vrperr.KindSolverBackendFailure, "store: sql.Open", err)
	}
	if err := db.Ping(); err != nil {
		return nil, vrperr.New(vrperr.KindSolverBackendFailure, "store: ping", err)
	}
	return &Postgres{db: db}, nil
}

// RunRecord is one persisted column-generation run.
type RunRecord struct {
	ID            uuid.UUID
	InstancePath  string
	NumCustomers  int
	TerminalState string
	Objective     float64
	Iterations    int
	StartedAt     time.Time
	FinishedAt    time.Time
	Routes        [][]int
}

// CreateRun inserts a run record, returning its generated id.
func (p *Postgres) CreateRun(ctx context.Context, r RunRecord) (uuid.UUID, error) {
	id := uuid.New()
	routesJSON, err := json.Marshal(r.Routes)
	if err != nil {
		return uuid.Nil, vrperr.New(vrperr.KindInstance, "store: marshal routes", err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO cg_runs (id, instance_path, num_customers, terminal_state, objective, iterations, started_at, finished_at, routes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		id, r.InstancePath, r.NumCustomers, r.TerminalState, r.Objective, r.Iterations, r.StartedAt, r.FinishedAt, routesJSON)
	if err != nil {
		return uuid.Nil, vrperr.New(vrperr.KindSolverBackendFailure, "store: insert run", err)
	}
	return id, nil
}

// GetRun loads one run record by id.
func (p *Postgres) GetRun(ctx context.Context, id uuid.UUID) (RunRecord, error) {
	var r RunRecord
	var routesJSON []byte
	err := p.db.QueryRowContext(ctx, `
		SELECT id, instance_path, num_customers, terminal_state, objective, iterations, started_at, finished_at, routes
		FROM cg_runs WHERE id=$1`, id).
		Scan(&r.ID, &r.InstancePath, &r.NumCustomers, &r.TerminalState, &r.Objective, &r.Iterations, &r.StartedAt, &r.FinishedAt, &routesJSON)
	if err != nil {
		return RunRecord{}, vrperr.New(vrperr.KindSolverBackendFailure, "store: select run", err)
	}
	if err := json.Unmarshal(routesJSON, &r.Routes); err != nil {
		return RunRecord{}, vrperr.New(vrperr.KindInstance, "store: unmarshal routes", err)
	}
	return r, nil
}

// ListRunsForInstance returns the most recent runs against instancePath,
// newest first. A limit outside 1..200 is replaced by 20.
func (p *Postgres) ListRunsForInstance(ctx context.Context, instancePath string, limit int) ([]RunRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, instance_path, num_customers, terminal_state, objective, iterations, started_at, finished_at, routes
		FROM cg_runs WHERE instance_path=$1 ORDER BY started_at DESC LIMIT $2`, instancePath, limit)
	if err != nil {
		return nil, vrperr.New(vrperr.KindSolverBackendFailure, "store: select runs", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var routesJSON []byte
		if err := rows.Scan(&r.ID, &r.InstancePath, &r.NumCustomers, &r.TerminalState, &r.Objective, &r.Iterations, &r.StartedAt, &r.FinishedAt, &routesJSON); err != nil {
			return nil, vrperr.New(vrperr.KindSolverBackendFailure, "store: scan run", err)
		}
		if err := json.Unmarshal(routesJSON, &r.Routes); err != nil {
			return nil, vrperr.New(vrperr.KindInstance, "store: unmarshal routes", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error { return p.db.Close() }
