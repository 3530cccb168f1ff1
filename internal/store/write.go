package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fieldops/recon430/internal/recon"
)

// listSeparator joins multi-valued outcome fields for storage. Unit
// separator: it cannot appear in names or serials from either source.
const listSeparator = "\x1f"

// SaveRun persists one reconciliation result and its outcomes in a
// single transaction. Buckets are written in report order (divergent,
// missing, ok) with a run-wide position so that reads reproduce the
// classification order exactly.
//
// Saving the same run ID twice is an error; run IDs are fresh UUIDs.
func (s *Store) SaveRun(ctx context.Context, res *recon.Result, timezone string, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, created_at, timezone, total_chat_events, total_official,
		 distinct_contracts, ok_count, divergent_count, missing_count, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		res.RunID,
		at.UTC().Format(time.RFC3339),
		timezone,
		res.Summary.TotalChatEvents,
		res.Summary.TotalOfficialRows,
		res.Summary.DistinctContractsOfficial,
		res.Summary.OkCount,
		res.Summary.DivergentCount,
		res.Summary.MissingCount,
		res.Report,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", res.RunID, err)
	}

	position := 0
	for _, section := range []struct {
		bucket   string
		outcomes []recon.Outcome
	}{
		{"divergent", res.Divergent},
		{"missing", res.Missing},
		{"ok", res.Ok},
	} {
		for _, o := range section.outcomes {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO outcomes
				(run_id, position, bucket, contract, reporter, technicians, serials)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`,
				res.RunID,
				position,
				section.bucket,
				o.Contract,
				o.Reporter,
				strings.Join(o.Technicians, listSeparator),
				strings.Join(o.Serials, listSeparator),
			)
			if err != nil {
				return fmt.Errorf("save outcome %s/%s: %w", res.RunID, o.Contract, err)
			}
			position++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run %s: %w", res.RunID, err)
	}
	return nil
}
