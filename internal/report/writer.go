package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/marisj/financials/internal/filing"
	"github.com/marisj/financials/internal/xbrl"
)

const (
	// Sep delimits columns in report files. Company names contain commas,
	// so CSV it is not.
	Sep = "|"

	// HistoryDir holds superseded fact files, below the data dir.
	HistoryDir = "history"

	historyDateLayout = "20060102"
)

// Header returns the column names of a quarter file, in output order.
func Header() []string {
	return append(append([]string{}, filing.HeaderFields...),
		xbrl.FieldNames...)
}

// HistoryHeader returns the column names of a history file.
func HistoryHeader() []string {
	return []string{"accession", "field", "element", "date", "value"}
}

func NewWriter(dataDir string) *Writer {
	return &Writer{dataDir: dataDir}
}

// Writer produces one quarter of output: the report file with one row per
// filing and the history file with the fact occurrences those rows
// superseded.
type Writer struct {
	dataDir string

	report  *os.File
	history *os.File

	reportBuf  *bufio.Writer
	historyBuf *bufio.Writer

	seen map[uint64]struct{}
}

// Create truncates and reopens the quarter's report and history files,
// writing their header rows. key is a quarter key like "2009Q1".
func (self *Writer) Create(key string) error {
	historyDir := filepath.Join(self.dataDir, HistoryDir)
	if err := os.MkdirAll(historyDir, 0o755); err != nil {
		return fmt.Errorf("create %q: %w", historyDir, err)
	}

	var err error
	name := filepath.Join(self.dataDir, key)
	if self.report, err = os.Create(name); err != nil {
		return fmt.Errorf("create report %q: %w", name, err)
	}
	self.reportBuf = bufio.NewWriter(self.report)

	name = filepath.Join(historyDir, key)
	if self.history, err = os.Create(name); err != nil {
		self.report.Close()
		return fmt.Errorf("create history %q: %w", name, err)
	}
	self.historyBuf = bufio.NewWriter(self.history)

	self.seen = map[uint64]struct{}{}
	if err := self.writeRecord(self.reportBuf, Header()); err != nil {
		return err
	}
	return self.writeRecord(self.historyBuf, HistoryHeader())
}

// Append writes one filing row and its history.
func (self *Writer) Append(row *filing.Row) error {
	if err := self.writeRecord(self.reportBuf, row.Fields()); err != nil {
		return err
	}
	return self.AppendHistory(row.Accession, row.History())
}

// AppendHistory writes superseded fact occurrences, skipping exact
// duplicates already written this quarter.
func (self *Writer) AppendHistory(accession string, hh []xbrl.History) error {
	for i := range hh {
		h := &hh[i]
		record := []string{
			accession, h.Field, h.Element,
			h.Date.Format(historyDateLayout), h.Value,
		}

		sum := xxhash.Sum64String(strings.Join(record, Sep))
		if _, ok := self.seen[sum]; ok {
			continue
		}
		self.seen[sum] = struct{}{}

		if err := self.writeRecord(self.historyBuf, record); err != nil {
			return err
		}
	}
	return nil
}

func (self *Writer) writeRecord(w *bufio.Writer, record []string) error {
	if _, err := w.WriteString(strings.Join(record, Sep)); err != nil {
		return fmt.Errorf("write record: %w", err)
	} else if err := w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

func (self *Writer) Close() error {
	if self.report == nil {
		return nil
	}

	err := self.reportBuf.Flush()
	if err2 := self.historyBuf.Flush(); err == nil {
		err = err2
	}
	if err2 := self.report.Close(); err == nil {
		err = err2
	}
	if err2 := self.history.Close(); err == nil {
		err = err2
	}

	self.report, self.history = nil, nil
	if err != nil {
		return fmt.Errorf("close quarter files: %w", err)
	}
	return nil
}
