package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/recon430/internal/recon"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(id string) *recon.Result {
	return &recon.Result{
		RunID: id,
		Summary: recon.Summary{
			TotalChatEvents:           3,
			TotalOfficialRows:         3,
			DistinctContractsOfficial: 2,
			OkCount:                   1,
			DivergentCount:            1,
			MissingCount:              1,
		},
		Ok: []recon.Outcome{{Contract: "1234567", Reporter: "Joao Silva"}},
		Divergent: []recon.Outcome{{
			Contract:    "7654321",
			Reporter:    "Maria Souza",
			Technicians: []string{"DESC - Carlos Souza"},
			Serials:     []string{"XYZ987654", "KLM555444"},
		}},
		Missing: []recon.Outcome{{Contract: "2223334", Reporter: "Pedro Lima"}},
		Report:  "COMPARATIVO DEVOLUCAO PENDENTE (430)\n",
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestSaveRun_RoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	at := time.Date(2026, 2, 24, 15, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, sampleResult("run-1"), "America/Sao_Paulo", at))

	rec, res, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, "run-1", rec.ID)
	assert.Equal(t, "America/Sao_Paulo", rec.Timezone)
	assert.Equal(t, at, rec.CreatedAt)
	assert.Equal(t, 1, rec.Summary.DivergentCount)
	assert.Contains(t, rec.Report, "COMPARATIVO")

	require.Len(t, res.Divergent, 1)
	assert.Equal(t, []string{"XYZ987654", "KLM555444"}, res.Divergent[0].Serials)
	assert.Equal(t, []string{"DESC - Carlos Souza"}, res.Divergent[0].Technicians)
	require.Len(t, res.Ok, 1)
	require.Len(t, res.Missing, 1)
	assert.Empty(t, res.Ok[0].Serials, "empty lists round-trip as nil")
}

func TestSaveRun_DuplicateIDFails(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, sampleResult("run-1"), "UTC", time.Now()))
	assert.Error(t, s.SaveRun(ctx, sampleResult("run-1"), "UTC", time.Now()))
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 24, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, sampleResult("run-old"), "UTC", base))
	require.NoError(t, s.SaveRun(ctx, sampleResult("run-new"), "UTC", base.Add(time.Hour)))

	records, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "run-new", records[0].ID)
	assert.Equal(t, "run-old", records[1].ID)
	assert.Empty(t, records[0].Report, "listing omits reports")
}

func TestListRuns_Limit(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 24, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.SaveRun(ctx, sampleResult(id), "UTC", base.Add(time.Duration(i)*time.Minute)))
	}

	records, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestGetRun_NotFound(t *testing.T) {
	s := openTemp(t)

	_, _, err := s.GetRun(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
