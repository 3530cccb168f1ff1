package sheet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fieldops/recon430/internal/config"
	"github.com/fieldops/recon430/internal/names"
)

// Table is the raw cell grid of the selected sheet: a header row of
// labels plus data rows, every row padded to the header width. Values
// are unformatted, so closure dates stored as Excel day serials survive
// as numeric strings instead of locale-formatted text.
type Table struct {
	SheetName string
	Labels    []string
	Rows      [][]string
}

// OpenWorkbook parses workbook bytes and extracts the pending-return
// sheet: the sheet whose folded name equals rules.SheetName, or failing
// that the first sheet whose name contains every marker token.
//
// Fails with SHEET_NOT_RESOLVED (listing every sheet name seen) when no
// sheet qualifies.
func OpenWorkbook(data []byte, rules config.Rules) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	name, err := selectSheet(f.GetSheetList(), rules)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}

	t := &Table{SheetName: name}
	if len(rows) == 0 {
		return t, nil
	}

	t.Labels = rows[0]
	for _, row := range rows[1:] {
		padded := make([]string, len(t.Labels))
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}
	return t, nil
}

// selectSheet prefers an exact folded-name match, then the first sheet
// whose folded name contains all marker tokens.
func selectSheet(sheets []string, rules config.Rules) (string, error) {
	want := names.Fold(rules.SheetName)
	for _, s := range sheets {
		if want != "" && names.Fold(s) == want {
			return s, nil
		}
	}

	for _, s := range sheets {
		folded := names.Fold(s)
		all := len(rules.SheetMarkers) > 0
		for _, marker := range rules.SheetMarkers {
			if !containsFold(folded, marker) {
				all = false
				break
			}
		}
		if all {
			return s, nil
		}
	}

	return "", &ResolveError{Code: ErrCodeSheetNotResolved, Available: sheets}
}

func containsFold(folded, marker string) bool {
	m := names.Fold(marker)
	return m != "" && strings.Contains(folded, m)
}

// Sample returns at most limit data rows, bounding the cost of content
// inference on very large exports.
func (t *Table) Sample(limit int) [][]string {
	if limit <= 0 || limit >= len(t.Rows) {
		return t.Rows
	}
	return t.Rows[:limit]
}

// Select projects the bound columns of every data row into typed rows.
// No filtering happens here; the caller owns the status/day filters.
func (t *Table) Select(b Binding) []Row {
	rows := make([]Row, 0, len(t.Rows))
	for _, raw := range t.Rows {
		rows = append(rows, Row{
			Contract:    cell(raw, b[RoleContract]),
			Technician:  cell(raw, b[RoleTechnician]),
			Serial:      cell(raw, b[RoleSerial]),
			ClosureDate: cell(raw, b[RoleClosureDate]),
		})
	}
	return rows
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
