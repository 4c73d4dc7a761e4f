package repo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/marisj/financials/internal/filing"
	"github.com/marisj/financials/internal/xbrl"
)

const (
	recordDateLayout   = "2006-01-02"
	acceptedDateLayout = "20060102150405"
)

// filingCols lists the filings table columns in the order Values returns
// them: identity columns first, then one column per statement field with
// '.' flattened to '_'.
var filingCols = append([]string{
	"accession", "qtr", "focus", "ticker", "cik", "zip", "form",
	"form_date", "filed", "accepted", "entity_name",
}, fieldCols()...)

func fieldCols() []string {
	cols := make([]string, len(xbrl.FieldNames))
	for i, name := range xbrl.FieldNames {
		col := []byte(name)
		for j := range col {
			if col[j] == '.' {
				col[j] = '_'
			}
		}
		cols[i] = string(col)
	}
	return cols
}

// Filing is one filings table row.
type Filing struct {
	Accession  string           `db:"accession"`
	Qtr        string           `db:"qtr"`
	Focus      pgtype.Text      `db:"focus"`
	Ticker     pgtype.Text      `db:"ticker"`
	CIK        uint32           `db:"cik"`
	Zip        pgtype.Text      `db:"zip"`
	Form       string           `db:"form"`
	FormDate   pgtype.Date      `db:"form_date"`
	Filed      time.Time        `db:"filed"`
	Accepted   pgtype.Timestamp `db:"accepted"`
	EntityName string           `db:"entity_name"`

	Fields []pgtype.Float8
}

// ParseFiling builds a table row from one report file record, as written by
// the quarter pull. qtr is the quarter key of the report file.
func ParseFiling(qtr string, record []string) (*Filing, error) {
	headerLen := len(filing.HeaderFields)
	if len(record) != headerLen+len(xbrl.FieldNames) {
		return nil, fmt.Errorf("report record has %v columns, want %v",
			len(record), headerLen+len(xbrl.FieldNames))
	}

	cik, err := strconv.ParseUint(record[2], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("parse CIK %q: %w", record[2], err)
	}

	filed, err := time.Parse(recordDateLayout, record[6])
	if err != nil {
		return nil, fmt.Errorf("parse filed date %q: %w", record[6], err)
	}

	f := &Filing{
		Accession:  record[8],
		Qtr:        qtr,
		Focus:      textValue(record[0]),
		Ticker:     textValue(record[1]),
		CIK:        uint32(cik),
		Zip:        textValue(record[3]),
		Form:       record[4],
		Filed:      filed,
		EntityName: record[9],
		Fields:     make([]pgtype.Float8, len(xbrl.FieldNames)),
	}

	if d, err := time.Parse(recordDateLayout, record[5]); err == nil {
		f.FormDate = pgtype.Date{Time: d, Valid: true}
	}
	if t, err := time.Parse(acceptedDateLayout, record[7]); err == nil {
		f.Accepted = pgtype.Timestamp{Time: t, Valid: true}
	}

	for i, s := range record[headerLen:] {
		if s == "" {
			continue
		}
		// filers report thousands separators, "1,234" is a number
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %v value %q: %w",
				xbrl.FieldNames[i], s, err)
		}
		f.Fields[i] = pgtype.Float8{Float64: v, Valid: true}
	}
	return f, nil
}

func textValue(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

// Values returns the row in filingCols order, for CopyFrom.
func (self *Filing) Values() []any {
	values := make([]any, 0, len(filingCols))
	values = append(values, self.Accession, self.Qtr, self.Focus, self.Ticker,
		self.CIK, self.Zip, self.Form, self.FormDate, self.Filed,
		self.Accepted, self.EntityName)
	for _, v := range self.Fields {
		values = append(values, v)
	}
	return values
}

var historyCols = [...]string{
	"qtr", "accession", "field", "element", "fact_date", "val",
}

// HistoryRow is one fact_history table row.
type HistoryRow struct {
	Qtr       string      `db:"qtr"`
	Accession string      `db:"accession"`
	Field     string      `db:"field"`
	Element   string      `db:"element"`
	FactDate  pgtype.Date `db:"fact_date"`
	Val       string      `db:"val"`
}

// ParseHistoryRow builds a table row from one history file record.
func ParseHistoryRow(qtr string, record []string) (*HistoryRow, error) {
	if len(record) != len(historyCols)-1 {
		return nil, fmt.Errorf("history record has %v columns, want %v",
			len(record), len(historyCols)-1)
	}

	d, err := time.Parse("20060102", record[3])
	if err != nil {
		return nil, fmt.Errorf("parse fact date %q: %w", record[3], err)
	}

	return &HistoryRow{
		Qtr:       qtr,
		Accession: record[0],
		Field:     record[1],
		Element:   record[2],
		FactDate:  pgtype.Date{Time: d, Valid: true},
		Val:       record[4],
	}, nil
}

func (self *HistoryRow) Values() []any {
	return []any{self.Qtr, self.Accession, self.Field, self.Element,
		self.FactDate, self.Val}
}
