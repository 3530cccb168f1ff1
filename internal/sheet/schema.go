package sheet

import (
	"strings"
	"time"

	"github.com/fieldops/recon430/internal/config"
	"github.com/fieldops/recon430/internal/names"
)

// Role is a semantic column role required by the reconciliation.
type Role string

const (
	RoleContract    Role = "contract"
	RoleTechnician  Role = "technician"
	RoleSerial      Role = "serial"
	RoleClosureDate Role = "closure_date"
)

// allRoles fixes the resolution and reporting order.
var allRoles = []Role{RoleContract, RoleTechnician, RoleSerial, RoleClosureDate}

// inferMinScore is the minimum content-inference score a column must
// reach to be accepted for any role. Headers are often absent entirely,
// so a single confident sample row is enough.
const inferMinScore = 1

// Binding maps each role to a column index in the source table. A
// binding is valid for exactly one run.
type Binding map[Role]int

// Row is one official work-order record after role projection.
type Row struct {
	Contract    string
	Technician  string
	Serial      string
	ClosureDate string
}

// ResolveRoles binds all four roles against the table, label matching
// first and content inference as fallback. ref and zone feed the
// closure-date predicate (a column whose sample values land on the
// reference day is almost certainly the date column).
//
// Fails with COLUMN_NOT_RESOLVED listing the missing roles and every
// label seen when any role stays unbound.
func ResolveRoles(t *Table, rules config.Rules, ref time.Time, zone *time.Location) (Binding, error) {
	binding := Binding{}
	sample := t.Sample(rules.SampleLimit)

	candidates := map[Role][]string{
		RoleContract:    rules.Columns.Contract,
		RoleTechnician:  rules.Columns.Technician,
		RoleSerial:      rules.Columns.Serial,
		RoleClosureDate: rules.Columns.ClosureDate,
	}

	for _, role := range allRoles {
		if col, ok := matchLabel(t.Labels, candidates[role]); ok {
			binding[role] = col
		}
	}

	if _, ok := binding[RoleContract]; !ok {
		if col, ok := InferColumn(len(t.Labels), sample, isContractValue, inferMinScore); ok {
			binding[RoleContract] = col
		}
	}
	if _, ok := binding[RoleSerial]; !ok {
		if col, ok := InferColumn(len(t.Labels), sample, isSerialValue, inferMinScore); ok {
			binding[RoleSerial] = col
		}
	}
	if _, ok := binding[RoleClosureDate]; !ok {
		sameDay := func(v string) bool { return SameCivilDay(v, ref, zone) }
		col, ok := InferColumn(len(t.Labels), sample, sameDay, inferMinScore)
		if !ok {
			col, ok = InferColumn(len(t.Labels), sample, looksLikeDate, inferMinScore)
		}
		if ok {
			binding[RoleClosureDate] = col
		}
	}
	if _, ok := binding[RoleTechnician]; !ok {
		marker := names.Fold(rules.StatusMarker)
		pending := func(v string) bool { return HasStatusMarker(v, marker) }
		if col, ok := InferColumn(len(t.Labels), sample, pending, inferMinScore); ok {
			binding[RoleTechnician] = col
		}
	}

	var missing []Role
	for _, role := range allRoles {
		if _, ok := binding[role]; !ok {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		return nil, &ResolveError{
			Code:      ErrCodeColumnNotResolved,
			Missing:   missing,
			Available: t.Labels,
		}
	}

	return binding, nil
}

// matchLabel finds the first column whose folded label contains (or is
// contained by) a candidate phrase, in candidate order. Empty folded
// labels never match; a blank header must fall through to content
// inference instead of swallowing the first candidate.
func matchLabel(labels []string, candidates []string) (int, bool) {
	folded := make([]string, len(labels))
	for i, l := range labels {
		folded[i] = names.Fold(l)
	}

	for _, cand := range candidates {
		cand = names.Fold(cand)
		if cand == "" {
			continue
		}
		for i, l := range folded {
			if l == "" {
				continue
			}
			if strings.Contains(l, cand) || strings.Contains(cand, l) {
				return i, true
			}
		}
	}
	return 0, false
}

// InferColumn scores every column by counting predicate hits over the
// sample rows and returns the best column index, provided its score
// reaches minScore. Ties keep the earlier column, so inference is
// deterministic for a given table.
func InferColumn(columns int, sample [][]string, pred func(string) bool, minScore int) (int, bool) {
	bestCol, bestScore := 0, 0
	for col := 0; col < columns; col++ {
		score := 0
		for _, row := range sample {
			if col < len(row) && pred(row[col]) {
				score++
			}
		}
		if score > bestScore {
			bestCol, bestScore = col, score
		}
	}
	return bestCol, bestScore >= minScore && bestScore > 0
}

// isContractValue: the digits-only form is a 6-8 digit contract number.
func isContractValue(v string) bool {
	d := names.Digits(v)
	return len(d) >= 6 && len(d) <= 8
}

// isSerialValue: at least one letter AND one digit, six or more
// alphanumeric runes total.
func isSerialValue(v string) bool {
	letters, digits := false, false
	alnum := 0
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
			digits = true
			alnum++
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			letters = true
			alnum++
		}
	}
	return letters && digits && alnum >= 6
}

// HasStatusMarker reports whether the folded value carries the marker as
// a whole word ("DESC - Joao Silva" matches marker "desc"; a technician
// actually named Descartes would not).
func HasStatusMarker(v, marker string) bool {
	if marker == "" {
		return false
	}
	for _, word := range splitWords(names.Fold(v)) {
		if word == marker {
			return true
		}
	}
	return false
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z')
	})
}
