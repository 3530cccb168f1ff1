// Package config holds the literal rule sets that drive a reconciliation
// run: the target closure code and its text aliases, the conflict-code
// blacklist, the pending-status marker, sheet-name markers, and the ranked
// column-label candidates per role.
//
// The defaults mirror the sets used in production. They can be overridden
// from a YAML file so that domain experts can amend the blacklist or the
// label candidates without a code change.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Columns lists the ranked label-candidate phrases per column role.
// Candidates are tried in order; the first containment match wins.
type Columns struct {
	Contract    []string `yaml:"contract"`
	Technician  []string `yaml:"technician"`
	Serial      []string `yaml:"serial"`
	ClosureDate []string `yaml:"closure_date"`
}

// Rules is the full rule set for one reconciliation run.
//
// All matching against these values is accent- and case-insensitive.
type Rules struct {
	// TargetCode is the closure code that marks a pending-return report.
	TargetCode string `yaml:"target_code"`

	// Aliases are text phrases equivalent to TargetCode in chat messages.
	// Single-word aliases match as whole tokens, phrases as substrings.
	Aliases []string `yaml:"aliases"`

	// ConflictCodes suppress a line even when TargetCode is present.
	// A report mentioning both codes is ambiguous and safer to drop.
	//
	// The set is preserved as shipped upstream; extend it via the YAML
	// override after domain review rather than in code.
	ConflictCodes []string `yaml:"conflict_codes"`

	// StatusMarker tags official rows still pending assignment ("desc").
	StatusMarker string `yaml:"status_marker"`

	// SheetName is the preferred (exact, after folding) sheet name.
	SheetName string `yaml:"sheet_name"`

	// SheetMarkers must all appear in a sheet name for the partial match.
	SheetMarkers []string `yaml:"sheet_markers"`

	// Columns holds the per-role label candidates.
	Columns Columns `yaml:"columns"`

	// SampleLimit bounds how many data rows content inference scans.
	SampleLimit int `yaml:"sample_limit"`
}

// Default returns the production rule set.
func Default() Rules {
	return Rules{
		TargetCode:    "430",
		Aliases:       []string{"fora rota", "fora de rota", "fr"},
		ConflictCodes: []string{"512"},
		StatusMarker:  "desc",
		SheetName:     "devolucao pendente",
		SheetMarkers:  []string{"devolucao", "pendente"},
		Columns: Columns{
			Contract:    []string{"contrato"},
			Technician:  []string{"instalador", "tecnico", "instalad"},
			Serial:      []string{"serial", "numero serial", "num serial"},
			ClosureDate: []string{"data da baixa", "data baixa", "data da b", "baixa"},
		},
		SampleLimit: 200,
	}
}

// Load reads a YAML override file on top of the defaults. Fields absent
// from the file keep their default values; fields present replace them
// wholesale (lists are not merged).
func Load(path string) (Rules, error) {
	rules := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}

	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("rules file %s: %w", path, err)
	}

	return rules, nil
}

// Validate rejects rule sets that cannot drive a run.
func (r Rules) Validate() error {
	if r.TargetCode == "" {
		return fmt.Errorf("target_code must not be empty")
	}
	if r.StatusMarker == "" {
		return fmt.Errorf("status_marker must not be empty")
	}
	if len(r.Columns.Contract) == 0 || len(r.Columns.Technician) == 0 ||
		len(r.Columns.Serial) == 0 || len(r.Columns.ClosureDate) == 0 {
		return fmt.Errorf("every column role needs at least one label candidate")
	}
	if r.SampleLimit <= 0 {
		return fmt.Errorf("sample_limit must be positive")
	}
	return nil
}
