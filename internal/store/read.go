package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fieldops/recon430/internal/recon"
)

// ErrRunNotFound is returned when a run ID has no stored record.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is one stored run, as listed by history.
type RunRecord struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Timezone  string        `json:"timezone"`
	Summary   recon.Summary `json:"summary"`
	Report    string        `json:"report,omitempty"`
}

// ListRuns returns the most recent runs, newest first, without reports.
// Ordering ties on created_at break by id so listings are stable.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, timezone, total_chat_events, total_official,
		       distinct_contracts, ok_count, divergent_count, missing_count
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetRun returns one stored run including its rendered report and
// outcome rows reassembled into buckets.
func (s *Store) GetRun(ctx context.Context, id string) (*RunRecord, *recon.Result, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, timezone, total_chat_events, total_official,
		       distinct_contracts, ok_count, divergent_count, missing_count, report
		FROM runs WHERE id = ?
	`, id)

	var rec RunRecord
	var createdAt string
	err := row.Scan(&rec.ID, &createdAt, &rec.Timezone,
		&rec.Summary.TotalChatEvents, &rec.Summary.TotalOfficialRows,
		&rec.Summary.DistinctContractsOfficial, &rec.Summary.OkCount,
		&rec.Summary.DivergentCount, &rec.Summary.MissingCount, &rec.Report)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get run %s: %w", id, err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	res := &recon.Result{RunID: rec.ID, Summary: rec.Summary, Report: rec.Report}

	rows, err := s.db.QueryContext(ctx, `
		SELECT bucket, contract, reporter, technicians, serials
		FROM outcomes WHERE run_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get run %s outcomes: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket string
		var o recon.Outcome
		var technicians, serials string
		if err := rows.Scan(&bucket, &o.Contract, &o.Reporter, &technicians, &serials); err != nil {
			return nil, nil, fmt.Errorf("get run %s outcomes: %w", id, err)
		}
		o.Technicians = splitList(technicians)
		o.Serials = splitList(serials)

		switch bucket {
		case "ok":
			res.Ok = append(res.Ok, o)
		case "divergent":
			res.Divergent = append(res.Divergent, o)
		case "missing":
			res.Missing = append(res.Missing, o)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("get run %s outcomes: %w", id, err)
	}

	return &rec, res, nil
}

func scanRun(rows *sql.Rows) (RunRecord, error) {
	var rec RunRecord
	var createdAt string
	err := rows.Scan(&rec.ID, &createdAt, &rec.Timezone,
		&rec.Summary.TotalChatEvents, &rec.Summary.TotalOfficialRows,
		&rec.Summary.DistinctContractsOfficial, &rec.Summary.OkCount,
		&rec.Summary.DivergentCount, &rec.Summary.MissingCount)
	if err != nil {
		return RunRecord{}, err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return rec, nil
}

func splitList(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, listSeparator)
}
