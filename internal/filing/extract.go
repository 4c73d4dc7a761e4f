package filing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/marisj/financials/client/index"
	"github.com/marisj/financials/internal/xbrl"
)

// ErrNoInstance marks filings without an XBRL instance document. They do
// exist in the XBRL index and are skippable, not fatal.
var ErrNoInstance = errors.New("no XBRL instance document")

const fileDateLayout = "2006-01-02"

// Getter fetches files below the EDGAR archives root.
//
// *client.Client implements this interface.
type Getter interface {
	GetArchiveFile(ctx context.Context, path string) (*http.Response, error)
}

func New(edgar Getter) *Extractor {
	return &Extractor{edgar: edgar}
}

// Extractor turns one index entry into one output row: it finds the
// filing's XBRL instance, parses it and resolves the canonical field set.
type Extractor struct {
	edgar   Getter
	tickers map[uint32]string

	qtrKey string
}

// WithTickers adds a CIK to ticker registry, used as last resort when the
// filing itself doesn't name a usable trading symbol.
func (self *Extractor) WithTickers(tickers map[uint32]string) *Extractor {
	self.tickers = tickers
	return self
}

// WithQuarter sets the quarter key ("2009Q1") used as focus fallback for
// filings without fiscal focus facts.
func (self *Extractor) WithQuarter(key string) *Extractor {
	self.qtrKey = key
	return self
}

// Filing extracts the output row for one 10-K/10-Q index entry.
func (self *Extractor) Filing(ctx context.Context, item *index.Item,
) (*Row, error) {
	accession := item.Accession()
	dir := fmt.Sprintf("data/%v/%v", item.CIK,
		strings.ReplaceAll(accession, "-", ""))

	instanceName, err := self.instanceName(ctx, dir+"/"+accession+"-index.htm")
	if err != nil {
		return nil, fmt.Errorf("filing %v: %w", accession, err)
	}

	header, err := self.sgmlHeader(ctx, dir+"/"+accession+".hdr.sgml")
	if err != nil {
		return nil, fmt.Errorf("filing %v: %w", accession, err)
	}

	doc, err := self.instance(ctx, dir+"/"+instanceName)
	if err != nil {
		return nil, fmt.Errorf("filing %v: %w", accession, err)
	}

	annual := item.Annual()
	row := &Row{
		Focus:      self.focus(doc, annual),
		Ticker:     self.ticker(doc, item.CIK, instanceName, annual),
		CIK:        item.CIK,
		Zip:        header.Zip,
		Form:       item.FormType,
		FormDate:   doc.Value("DocumentPeriodEndDate", annual),
		FileDate:   item.Filed.Format(fileDateLayout),
		Acceptance: header.Acceptance,
		Accession:  accession,
		Name:       item.CompanyName,
		Statement:  xbrl.Extract(doc, annual),
	}
	return row, nil
}

// instanceName scrapes the filing index page for the document listed with
// an .INS type (EX-101.INS), the XBRL instance.
func (self *Extractor) instanceName(ctx context.Context, path string,
) (string, error) {
	resp, err := self.edgar.GetArchiveFile(ctx, path)
	if err != nil {
		return "", fmt.Errorf("fetch filing index: %w", err)
	}
	defer resp.Body.Close()

	page, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse filing index %q: %w", path, err)
	}

	var name string
	page.Find("table.tableFile tr").EachWithBreak(
		func(i int, tr *goquery.Selection) bool {
			cells := tr.Find("td")
			if cells.Length() < 5 {
				return true
			}
			if strings.HasSuffix(strings.TrimSpace(cells.Eq(3).Text()), ".INS") {
				name = strings.TrimSpace(cells.Eq(2).Text())
				return false
			}
			return true
		})
	if name == "" {
		return "", ErrNoInstance
	}
	return name, nil
}

func (self *Extractor) sgmlHeader(ctx context.Context, path string,
) (SgmlHeader, error) {
	resp, err := self.edgar.GetArchiveFile(ctx, path)
	if err != nil {
		return SgmlHeader{}, fmt.Errorf("fetch filing header: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return SgmlHeader{}, fmt.Errorf("read filing header %q: %w", path, err)
	}
	return ParseSgmlHeader(string(b)), nil
}

func (self *Extractor) instance(ctx context.Context, path string,
) (*xbrl.Document, error) {
	resp, err := self.edgar.GetArchiveFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch instance: %w", err)
	}
	defer resp.Body.Close()

	doc, err := xbrl.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("instance %q: %w", path, err)
	}
	return doc, nil
}

// focus is the fiscal period the filing reports on, like "2009Q1" or
// "2008FY". Filings without fiscal focus facts get the calendar quarter of
// the index instead.
func (self *Extractor) focus(doc *xbrl.Document, annual bool) string {
	year := doc.Value("DocumentFiscalYearFocus", annual)
	period := doc.Value("DocumentFiscalPeriodFocus", annual)
	if year != "" && period != "" {
		return year + period
	}
	return self.qtrKey
}

// ticker resolves the trading symbol: the reported TradingSymbol first,
// then the instance filename prefix ("aapl-20090331.xml"), then the ticker
// registry.
func (self *Extractor) ticker(doc *xbrl.Document, cik uint32,
	instanceName string, annual bool,
) string {
	if t := CleanTicker(doc.Value("TradingSymbol", annual)); t != "" {
		return t
	}
	prefix, _, _ := strings.Cut(instanceName, "-")
	if t := CleanTicker(prefix); t != "" {
		return t
	}
	return CleanTicker(self.tickers[cik])
}

// Row is one output record: filing identity columns followed by the
// extracted statement values.
type Row struct {
	Focus      string
	Ticker     string
	CIK        uint32
	Zip        string
	Form       string
	FormDate   string
	FileDate   string
	Acceptance string
	Accession  string
	Name       string

	Statement *xbrl.Statement
}

// HeaderFields lists the identity columns, in output order.
var HeaderFields = []string{
	"focus", "ticker", "cik", "zip", "form", "formdate",
	"filedate", "acceptance", "accession", "name",
}

// Fields returns all column values of this row, identity columns first,
// statement values after, in the order of HeaderFields and xbrl.FieldNames.
func (self *Row) Fields() []string {
	fields := make([]string, 0, len(HeaderFields)+len(xbrl.FieldNames))
	fields = append(fields,
		self.Focus, self.Ticker, fmt.Sprintf("%d", self.CIK), self.Zip,
		self.Form, self.FormDate, self.FileDate, self.Acceptance,
		self.Accession, self.Name)
	return append(fields, self.Statement.Values()...)
}

// History returns the filing's non-selected fact occurrences.
func (self *Row) History() []xbrl.History { return self.Statement.History() }
