package repo

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() []string {
	record := make([]string, 35)
	copy(record, []string{
		"2009Q1", "ACME", "123456", "95014", "10-Q", "2009-03-31",
		"2009-05-01", "20090501123456", "0000123456-09-000001", "ACME CORP",
	})
	record[10] = "5000"
	record[34] = "115"
	return record
}

func TestParseFiling(t *testing.T) {
	f, err := ParseFiling("2009Q1", testRecord())
	require.NoError(t, err)

	assert.Equal(t, "0000123456-09-000001", f.Accession)
	assert.Equal(t, "2009Q1", f.Qtr)
	assert.Equal(t, uint32(123456), f.CIK)
	assert.Equal(t, "ACME CORP", f.EntityName)
	assert.Equal(t, time.Date(2009, time.May, 1, 0, 0, 0, 0, time.UTC),
		f.Filed)

	assert.True(t, f.FormDate.Valid)
	assert.True(t, f.Accepted.Valid)
	assert.Equal(t,
		time.Date(2009, time.May, 1, 12, 34, 56, 0, time.UTC),
		f.Accepted.Time)

	require.Len(t, f.Fields, 25)
	assert.True(t, f.Fields[0].Valid)
	assert.Equal(t, float64(5000), f.Fields[0].Float64)
	assert.False(t, f.Fields[1].Valid)
}

func TestParseFiling_errors(t *testing.T) {
	_, err := ParseFiling("2009Q1", []string{"too", "short"})
	require.Error(t, err)

	record := testRecord()
	record[2] = "not a cik"
	_, err = ParseFiling("2009Q1", record)
	require.Error(t, err)

	record = testRecord()
	record[6] = "05/01/2009"
	_, err = ParseFiling("2009Q1", record)
	require.Error(t, err)
}

func TestParseFiling_commaValues(t *testing.T) {
	record := testRecord()
	record[10] = "5,000"
	record[11] = "1,234.5"
	f, err := ParseFiling("2009Q1", record)
	require.NoError(t, err)
	assert.Equal(t, float64(5000), f.Fields[0].Float64)
	assert.Equal(t, 1234.5, f.Fields[1].Float64)
	assert.True(t, f.Fields[1].Valid)
}

func TestParseFiling_emptyOptionals(t *testing.T) {
	record := testRecord()
	record[5], record[7] = "", ""
	f, err := ParseFiling("2009Q1", record)
	require.NoError(t, err)
	assert.False(t, f.FormDate.Valid)
	assert.False(t, f.Accepted.Valid)
	assert.Len(t, f.Values(), len(filingCols))
}

func TestParseHistoryRow(t *testing.T) {
	h, err := ParseHistoryRow("2009Q1", []string{
		"0000123456-09-000001", "bs.assets", "Assets", "20081231", "4500",
	})
	require.NoError(t, err)
	assert.Equal(t, "2009Q1", h.Qtr)
	assert.Equal(t, "bs.assets", h.Field)
	assert.Equal(t, time.Date(2008, time.December, 31, 0, 0, 0, 0, time.UTC),
		h.FactDate.Time)
	assert.Len(t, h.Values(), len(historyCols))

	_, err = ParseHistoryRow("2009Q1", []string{"too", "short"})
	require.Error(t, err)
}

func TestRepo_ReplaceQuarter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM filings").
		WithArgs("2009Q1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectCopyFrom(pgx.Identifier{"filings"}, filingCols).
		WillReturnResult(1)
	mock.ExpectCommit()
	mock.ExpectRollback()

	f, err := ParseFiling("2009Q1", testRecord())
	require.NoError(t, err)

	err = New(mock).ReplaceQuarter(context.Background(), "2009Q1", 1,
		func(i int) (*Filing, error) { return f, nil })
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_ReplaceHistory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM fact_history").
		WithArgs("2009Q1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"fact_history"}, historyCols[:]).
		WillReturnResult(1)
	mock.ExpectCommit()
	mock.ExpectRollback()

	h, err := ParseHistoryRow("2009Q1", []string{
		"0000123456-09-000001", "bs.assets", "Assets", "20081231", "4500",
	})
	require.NoError(t, err)

	err = New(mock).ReplaceHistory(context.Background(), "2009Q1", 1,
		func(i int) (*HistoryRow, error) { return h, nil })
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_FilingCounts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT qtr, COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"qtr", "cnt"}).
			AddRow("2009Q1", uint32(10)).
			AddRow("2009Q2", uint32(20)))

	counts, err := New(mock).FilingCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]uint32{"2009Q1": 10, "2009Q2": 20}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}
