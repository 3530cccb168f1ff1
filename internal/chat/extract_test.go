package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/recon430/internal/config"
)

func extract(t *testing.T, transcript string) []Event {
	t.Helper()
	return Extract(transcript, config.Default())
}

func TestExtract_ExportPrefixLine(t *testing.T) {
	events := extract(t, "[10:00, 01/01/2030] Joao Silva: contrato 1234567 430")

	require.Len(t, events, 1)
	assert.Equal(t, "1234567", events[0].Contract)
	assert.Equal(t, "Joao Silva", events[0].Reporter)
	assert.Equal(t, "[10:00, 01/01/2030] Joao Silva: contrato 1234567 430", events[0].RawLine)
}

func TestExtract_BareLineGetsSentinelReporter(t *testing.T) {
	events := extract(t, "430 finalizado contrato 7654321")

	require.Len(t, events, 1)
	assert.Equal(t, "7654321", events[0].Contract)
	assert.Equal(t, UnidentifiedReporter, events[0].Reporter)
}

func TestExtract_AliasPhraseQualifies(t *testing.T) {
	transcript := "[09:00, 01/01/2030] Maria: contrato 1234567 fora de rota\n" +
		"[09:05, 01/01/2030] Ana: 2345678 FR\n" +
		"[09:10, 01/01/2030] Rui: 3456789 fora rota"

	events := extract(t, transcript)
	require.Len(t, events, 3)
}

func TestExtract_AliasTokenIsNotSubstring(t *testing.T) {
	// "fr" must match as a whole token, not inside another word.
	events := extract(t, "[09:00, 01/01/2030] Ana: 2345678 frota nova")
	assert.Empty(t, events)
}

func TestExtract_ConflictCodeSuppressesLine(t *testing.T) {
	// A line mentioning both 430 and a blacklisted code yields nothing.
	events := extract(t, "[10:00, 01/01/2030] Joao: 1234567 430 512")
	assert.Empty(t, events)
}

func TestExtract_CodeMustBeWholeToken(t *testing.T) {
	events := extract(t, "[10:00, 01/01/2030] Joao: contrato 1234567 14300")
	assert.Empty(t, events)
}

func TestExtract_ContractLengthBounds(t *testing.T) {
	cases := []struct {
		name string
		line string
		want string
	}{
		{"five digits skipped", "430 contrato 12345", ""},
		{"six digits", "430 contrato 123456", "123456"},
		{"eight digits", "430 contrato 12345678", "12345678"},
		{"nine digits skipped", "430 contrato 123456789", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events := extract(t, tc.line)
			if tc.want == "" {
				assert.Empty(t, events)
				return
			}
			require.Len(t, events, 1)
			assert.Equal(t, tc.want, events[0].Contract)
		})
	}
}

func TestExtract_NoContractIsSkippedSilently(t *testing.T) {
	events := extract(t, "[10:00, 01/01/2030] Joao: 430 sem numero ainda")
	assert.Empty(t, events)
}

func TestExtract_DedupKeepsLastReport(t *testing.T) {
	transcript := "[08:00, 01/01/2030] Joao Silva: 1234567 430\n" +
		"[08:30, 01/01/2030] Ana: 7654321 430\n" +
		"[11:00, 01/01/2030] Carlos Souza: 1234567 430"

	events := extract(t, transcript)
	require.Len(t, events, 2)

	// Survivors sit at the position of their final occurrence.
	assert.Equal(t, "7654321", events[0].Contract)
	assert.Equal(t, "1234567", events[1].Contract)
	assert.Equal(t, "Carlos Souza", events[1].Reporter)
}

func TestExtract_EmptyAndBlankLines(t *testing.T) {
	assert.Empty(t, extract(t, ""))
	assert.Empty(t, extract(t, "\n\n   \n"))
}

func TestExtract_CRLFTranscript(t *testing.T) {
	events := extract(t, "[10:00, 01/01/2030] Joao: 1234567 430\r\n[10:05, 01/01/2030] Ana: 7654321 430\r\n")
	require.Len(t, events, 2)
}

func TestExtract_ContractFromPrefixFallback(t *testing.T) {
	// The number sits before the colon, so the body has no contract and
	// the extractor falls back to scanning the whole line.
	events := extract(t, "[10:00, 01/01/2030] Equipe 1234567: baixa 430 ok")
	require.Len(t, events, 1)
	assert.Equal(t, "1234567", events[0].Contract)
}
