package recon

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fieldops/recon430/internal/chat"
	"github.com/fieldops/recon430/internal/config"
	"github.com/fieldops/recon430/internal/names"
	"github.com/fieldops/recon430/internal/sheet"
)

// Outcome is the verdict for one reported contract.
type Outcome struct {
	Contract string `json:"contract"`
	Reporter string `json:"reporter"`

	// Technicians and Serials are populated for divergent outcomes
	// only: the distinct official technician names and equipment
	// serials found for the contract, in workbook order.
	Technicians []string `json:"technicians,omitempty"`
	Serials     []string `json:"serials,omitempty"`
}

// Summary carries the run counters.
type Summary struct {
	TotalChatEvents           int `json:"total_chat_events"`
	TotalOfficialRows         int `json:"total_official_rows"`
	DistinctContractsOfficial int `json:"distinct_contracts_official"`
	OkCount                   int `json:"ok_count"`
	DivergentCount            int `json:"divergent_count"`
	MissingCount              int `json:"missing_count"`
}

// Result is the full outcome of one reconciliation run. The three
// buckets partition the deduplicated chat events; Report is the
// rendered text, ready for direct display.
type Result struct {
	RunID     string    `json:"run_id"`
	Summary   Summary   `json:"summary"`
	Ok        []Outcome `json:"ok"`
	Divergent []Outcome `json:"divergent"`
	Missing   []Outcome `json:"missing"`
	Report    string    `json:"report"`
}

// Run executes one reconciliation: extract chat events, resolve and
// filter the workbook, classify, render.
//
// Run is pure apart from the RunID: identical inputs plus an identical
// reference instant produce an identical report. Fatal errors (sheet or
// column resolution) abort the run; noisy lines and rows only shrink
// the working sets.
func Run(chatText string, workbook []byte, now time.Time, zone *time.Location, rules config.Rules) (*Result, error) {
	events := chat.Extract(chatText, rules)

	table, err := sheet.OpenWorkbook(workbook, rules)
	if err != nil {
		return nil, err
	}
	binding, err := sheet.ResolveRoles(table, rules, now, zone)
	if err != nil {
		return nil, err
	}
	set := BuildRecordSet(table.Select(binding), rules, now, zone)

	ok, divergent, missing := Classify(events, set)

	res := &Result{
		RunID: uuid.NewString(),
		Summary: Summary{
			TotalChatEvents:           len(events),
			TotalOfficialRows:         set.TotalRows(),
			DistinctContractsOfficial: set.DistinctContracts(),
			OkCount:                   len(ok),
			DivergentCount:            len(divergent),
			MissingCount:              len(missing),
		},
		Ok:        ok,
		Divergent: divergent,
		Missing:   missing,
	}
	res.Report = Render(res)
	return res, nil
}

// Classify buckets every chat event, in transcript order:
//
//  1. No official rows for the contract: Missing.
//  2. Any official row whose technician matches the reporter under the
//     strict rule: Ok.
//  3. Otherwise: Divergent, carrying the distinct official technicians
//     and serials for human cross-checking.
//
// The strict matcher is bound here on purpose; see names.Loose for why
// the convenience matcher must not be used in this join.
func Classify(events []chat.Event, set *RecordSet) (ok, divergent, missing []Outcome) {
	for _, ev := range events {
		rows := set.Lookup(ev.Contract)
		if len(rows) == 0 {
			missing = append(missing, Outcome{Contract: ev.Contract, Reporter: ev.Reporter})
			continue
		}

		matched := false
		for _, row := range rows {
			if names.Strict(ev.Reporter, row.Technician) {
				matched = true
				break
			}
		}
		if matched {
			ok = append(ok, Outcome{Contract: ev.Contract, Reporter: ev.Reporter})
			continue
		}

		divergent = append(divergent, Outcome{
			Contract:    ev.Contract,
			Reporter:    ev.Reporter,
			Technicians: distinctTechnicians(rows),
			Serials:     distinctSerials(rows),
		})
	}
	return ok, divergent, missing
}

func distinctTechnicians(rows []sheet.Row) []string {
	return distinct(rows, func(r sheet.Row) string { return r.Technician })
}

func distinctSerials(rows []sheet.Row) []string {
	return distinct(rows, func(r sheet.Row) string { return r.Serial })
}

// distinct keeps non-blank values in first-seen order.
func distinct(rows []sheet.Row, field func(sheet.Row) string) []string {
	seen := make(map[string]bool, len(rows))
	var out []string
	for _, r := range rows {
		v := strings.TrimSpace(field(r))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
