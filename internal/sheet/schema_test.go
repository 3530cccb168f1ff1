package sheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/recon430/internal/config"
)

func tableOf(labels []string, rows ...[]string) *Table {
	return &Table{SheetName: "devolucao pendente", Labels: labels, Rows: rows}
}

func resolve(t *testing.T, table *Table) (Binding, error) {
	t.Helper()
	loc := zone(t)
	ref := time.Date(2026, 2, 24, 12, 0, 0, 0, loc)
	return ResolveRoles(table, config.Default(), ref, loc)
}

func TestResolveRoles_ByLabels(t *testing.T) {
	table := tableOf([]string{"Contrato", "Instalador", "Serial", "Data da Baixa"})

	binding, err := resolve(t, table)
	require.NoError(t, err)

	assert.Equal(t, Binding{
		RoleContract:    0,
		RoleTechnician:  1,
		RoleSerial:      2,
		RoleClosureDate: 3,
	}, binding)
}

func TestResolveRoles_LabelsAreFoldedAndPartial(t *testing.T) {
	// Accented, cased, truncated headers still bind.
	table := tableOf([]string{"Nº do CONTRATO", "Técnico Responsável", "Número Serial", "Data da B"})

	binding, err := resolve(t, table)
	require.NoError(t, err)

	assert.Equal(t, 0, binding[RoleContract])
	assert.Equal(t, 1, binding[RoleTechnician])
	assert.Equal(t, 2, binding[RoleSerial])
	assert.Equal(t, 3, binding[RoleClosureDate])
}

func TestResolveRoles_CandidateOrderWins(t *testing.T) {
	// Both "Instalador" and "Tecnico" present: the higher-ranked
	// candidate ("instalador") picks its column first.
	table := tableOf([]string{"Contrato", "Tecnico", "Instalador", "Serial", "Baixa"})

	binding, err := resolve(t, table)
	require.NoError(t, err)
	assert.Equal(t, 2, binding[RoleTechnician])
}

func TestResolveRoles_ContentInferenceFallback(t *testing.T) {
	table := tableOf(
		[]string{"Col1", "Col2", "Col3", "Col4"},
		[]string{"1234567", "DESC - Joao Silva", "ABC123456", "24/02/2026"},
		[]string{"7654321", "DESC - Ana Dias", "DEF654321", "24/02/2026"},
	)

	binding, err := resolve(t, table)
	require.NoError(t, err)

	assert.Equal(t, 0, binding[RoleContract])
	assert.Equal(t, 1, binding[RoleTechnician])
	assert.Equal(t, 2, binding[RoleSerial])
	assert.Equal(t, 3, binding[RoleClosureDate])
}

func TestResolveRoles_DateInferredByShapeWhenNotToday(t *testing.T) {
	// No sample date lands on the reference day; the shape-based second
	// pass still finds the column.
	table := tableOf(
		[]string{"Contrato", "Instalador", "Serial", "Quando"},
		[]string{"1234567", "DESC - Joao", "ABC123456", "10/01/2026"},
	)

	binding, err := resolve(t, table)
	require.NoError(t, err)
	assert.Equal(t, 3, binding[RoleClosureDate])
}

func TestResolveRoles_FailureListsMissingRolesAndLabels(t *testing.T) {
	table := tableOf(
		[]string{"Campo1", "Campo2"},
		[]string{"x", "y"},
	)

	_, err := resolve(t, table)
	require.Error(t, err)
	require.True(t, IsColumnNotResolved(err))

	var re *ResolveError
	require.ErrorAs(t, err, &re)
	assert.ElementsMatch(t, []Role{RoleContract, RoleTechnician, RoleSerial, RoleClosureDate}, re.Missing)
	assert.Equal(t, []string{"Campo1", "Campo2"}, re.Available)
	assert.Contains(t, err.Error(), "Campo1, Campo2")
}

func TestResolveRoles_BlankHeaderFallsThroughToInference(t *testing.T) {
	table := tableOf(
		[]string{"", "Instalador", "Serial", "Baixa"},
		[]string{"1234567", "DESC - Joao", "ABC123456", "24/02/2026"},
	)

	binding, err := resolve(t, table)
	require.NoError(t, err)
	assert.Equal(t, 0, binding[RoleContract])
}

func TestInferColumn_ThresholdAndTies(t *testing.T) {
	sample := [][]string{
		{"1234567", "9999999"},
		{"abc", "8888888"},
	}
	isSevenDigits := func(v string) bool { return len(v) == 7 && allDigits(v) }

	col, ok := InferColumn(2, sample, isSevenDigits, 1)
	require.True(t, ok)
	assert.Equal(t, 1, col, "higher score wins")

	_, ok = InferColumn(2, sample, func(string) bool { return false }, 1)
	assert.False(t, ok, "no hits never satisfies the threshold")

	col, ok = InferColumn(2, [][]string{{"a1b2c3", "d4e5f6"}}, isSerialValue, 1)
	require.True(t, ok)
	assert.Equal(t, 0, col, "ties keep the earlier column")
}

func allDigits(v string) bool {
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func TestContractPredicate(t *testing.T) {
	assert.True(t, isContractValue("1234567"))
	assert.True(t, isContractValue(" 1.234.567 "))
	assert.False(t, isContractValue("12345"))
	assert.False(t, isContractValue("123456789"))
	assert.False(t, isContractValue("abc"))
}

func TestSerialPredicate(t *testing.T) {
	assert.True(t, isSerialValue("ABC123456"))
	assert.True(t, isSerialValue("a1-b2-c3"))
	assert.False(t, isSerialValue("123456"), "digits only is a contract, not a serial")
	assert.False(t, isSerialValue("ABCDEF"), "letters only")
	assert.False(t, isSerialValue("a1b2"), "too short")
}

func TestHasStatusMarker(t *testing.T) {
	assert.True(t, HasStatusMarker("DESC - Joao Silva", "desc"))
	assert.True(t, HasStatusMarker("desc", "desc"))
	assert.False(t, HasStatusMarker("Descartes Silva", "desc"), "whole word only")
	assert.False(t, HasStatusMarker("Joao Silva", "desc"))
	assert.False(t, HasStatusMarker("DESC - Joao", ""))
}
