// Package sqlite persists session reports in a single-file SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	session_id TEXT PRIMARY KEY,
	workflow   TEXT NOT NULL,
	total_cost REAL NOT NULL,
	created_at TEXT NOT NULL,
	data       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_workflow ON reports(workflow);
`

// Store implements ports.ReportStore on SQLite. The full report is kept as
// JSON; workflow and cost are duplicated into columns for ad-hoc queries.
type Store struct {
	db *sql.DB
}

var _ ports.ReportStore = (*Store)(nil)

// Open opens (or creates) the database at path. ":memory:" is accepted.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with a single writer

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save inserts or replaces the report.
func (s *Store) Save(ctx context.Context, sessionID string, report *domain.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (session_id, workflow, total_cost, created_at, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			workflow = excluded.workflow,
			total_cost = excluded.total_cost,
			created_at = excluded.created_at,
			data = excluded.data`,
		sessionID, string(report.Workflow), report.TotalCost, report.CreatedAt.UTC().Format(time.RFC3339Nano), string(data))
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// Load reads a report.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Report, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM reports WHERE session_id = ?`, sessionID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var r domain.Report
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &r, nil
}

// Delete removes a report.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// List returns the stored session IDs, oldest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT session_id FROM reports ORDER BY created_at, session_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan report id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TotalCostByWorkflow sums the cost of stored sessions per workflow.
func (s *Store) TotalCostByWorkflow(ctx context.Context) (map[domain.Workflow]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT workflow, SUM(total_cost) FROM reports GROUP BY workflow`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reports: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.Workflow]float64)
	for rows.Next() {
		var w string
		var total float64
		if err := rows.Scan(&w, &total); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate: %w", err)
		}
		out[domain.Workflow(w)] = total
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
