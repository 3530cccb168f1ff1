package recon

import (
	"time"

	"github.com/fieldops/recon430/internal/config"
	"github.com/fieldops/recon430/internal/names"
	"github.com/fieldops/recon430/internal/sheet"
)

// RecordSet is the authoritative comparison set: official rows that
// carry the pending-status marker AND closed on the reference day,
// grouped by contract number. A contract may hold several rows, one per
// equipment line.
type RecordSet struct {
	byContract map[string][]sheet.Row
	contracts  []string // insertion order, for deterministic iteration
	totalRows  int
}

// BuildRecordSet filters and groups the projected workbook rows.
//
// Rows are excluded, silently, when the technician field lacks the
// status marker, the closure date is not same-day in zone, or the
// contract number does not normalize to 6-8 digits.
func BuildRecordSet(rows []sheet.Row, rules config.Rules, ref time.Time, zone *time.Location) *RecordSet {
	set := &RecordSet{byContract: make(map[string][]sheet.Row)}
	marker := names.Fold(rules.StatusMarker)

	for _, row := range rows {
		if !sheet.HasStatusMarker(row.Technician, marker) {
			continue
		}
		if !sheet.SameCivilDay(row.ClosureDate, ref, zone) {
			continue
		}
		contract := names.Digits(row.Contract)
		if len(contract) < 6 || len(contract) > 8 {
			continue
		}

		if _, seen := set.byContract[contract]; !seen {
			set.contracts = append(set.contracts, contract)
		}
		set.byContract[contract] = append(set.byContract[contract], row)
		set.totalRows++
	}

	return set
}

// Lookup returns the official rows recorded for a contract, in workbook
// order. A nil slice means the contract has no same-day pending rows.
func (s *RecordSet) Lookup(contract string) []sheet.Row {
	return s.byContract[contract]
}

// TotalRows is the number of rows that passed the day/status filter.
func (s *RecordSet) TotalRows() int { return s.totalRows }

// DistinctContracts is the number of contracts in the set.
func (s *RecordSet) DistinctContracts() int { return len(s.contracts) }
