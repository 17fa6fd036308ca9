package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the outcome of one job.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Record is one row of the job ledger.
type Record struct {
	ID           string
	BatchID      string
	InputPath    string
	OutputPath   string
	Backend      string
	Granularity  string
	Status       Status
	ErrorKind    string
	ErrorMessage string
	Blocks       int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration is the wall time the job took.
func (r Record) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Stats summarizes the ledger by status.
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
}

const timeLayout = time.RFC3339Nano

// Record inserts or replaces a job outcome.
func (s *Store) Record(ctx context.Context, rec Record) error {
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("history record requires an id")
	}
	if rec.Status == "" {
		return errors.New("history record requires a status")
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = rec.FinishedAt
	}
	err := s.exec(ctx, `INSERT OR REPLACE INTO jobs
		(id, batch_id, input_path, output_path, backend, granularity, status,
		 error_kind, error_message, blocks, started_at, finished_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.BatchID, rec.InputPath, rec.OutputPath, rec.Backend, rec.Granularity, string(rec.Status),
		rec.ErrorKind, rec.ErrorMessage, rec.Blocks,
		rec.StartedAt.UTC().Format(timeLayout), rec.FinishedAt.UTC().Format(timeLayout),
		rec.Duration().Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record job %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns up to limit records, newest first. A non-positive limit
// returns every record.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, batch_id, input_path, output_path, backend, granularity, status,
		error_kind, error_message, blocks, started_at, finished_at
		FROM jobs ORDER BY finished_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec               Record
			status            string
			started, finished string
		)
		if err := rows.Scan(&rec.ID, &rec.BatchID, &rec.InputPath, &rec.OutputPath, &rec.Backend,
			&rec.Granularity, &status, &rec.ErrorKind, &rec.ErrorMessage, &rec.Blocks,
			&started, &finished); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		rec.Status = Status(status)
		rec.StartedAt, _ = time.Parse(timeLayout, started)
		rec.FinishedAt, _ = time.Parse(timeLayout, finished)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return records, nil
}

// Stats counts records by status.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM jobs GROUP BY status")
	if err != nil {
		return Stats{}, fmt.Errorf("query history stats: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, fmt.Errorf("scan history stats: %w", err)
		}
		stats.Total += count
		switch Status(status) {
		case StatusSucceeded:
			stats.Succeeded = count
		case StatusFailed:
			stats.Failed = count
		case StatusSkipped:
			stats.Skipped = count
		}
	}
	return stats, rows.Err()
}
