package report

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeQuarter(t *testing.T, dataDir, key string, records ...[]string) {
	w := NewWriter(dataDir)
	require.NoError(t, w.Create(key))
	for _, record := range records {
		require.NoError(t, w.writeRecord(w.reportBuf, record))
	}
	require.NoError(t, w.Close())
}

func annualRecord(form, accession string) []string {
	record := make([]string, len(Header()))
	record[0] = "2009FY"
	record[formCol] = form
	record[accessionCol] = accession
	return record
}

func TestAnnual(t *testing.T) {
	dataDir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	writeQuarter(t, dataDir, "2009Q1",
		annualRecord("10-K", "0000000001-09-000001"),
		annualRecord("10-Q", "0000000001-09-000002"))
	writeQuarter(t, dataDir, "2009Q2",
		annualRecord("10-K/A", "0000000001-09-000003"),
		annualRecord("10-K", "0000000001-09-000001"))

	require.NoError(t, Annual(dataDir, 2009, log))

	lines := readLines(t, filepath.Join(dataDir, "2009"))
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(Header(), Sep), lines[0])
	assert.Contains(t, lines[1], "0000000001-09-000001")
	assert.Contains(t, lines[2], "0000000001-09-000003")
}

func TestAnnual_noQuarters(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := Annual(t.TempDir(), 2009, log)
	require.Error(t, err)
}

func TestAnnual_missingQuarterSkipped(t *testing.T) {
	dataDir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	writeQuarter(t, dataDir, "2009Q3",
		annualRecord("10-K", "0000000001-09-000001"))

	require.NoError(t, Annual(dataDir, 2009, log))

	lines := readLines(t, filepath.Join(dataDir, "2009"))
	require.Len(t, lines, 2)

	_, err := os.Stat(filepath.Join(dataDir, "2009Q1"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
