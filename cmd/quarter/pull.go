package quarter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/marisj/financials/client"
	"github.com/marisj/financials/client/index"
	"github.com/marisj/financials/internal/filing"
	"github.com/marisj/financials/internal/report"
)

func NewPull(edgar *client.Client, writer *report.Writer) *Pull {
	return &Pull{
		edgar:  edgar,
		writer: writer,
		log:    slog.Default(),
	}
}

// Pull extracts one quarter: it walks the quarter's xbrl.idx, extracts every
// 10-K and 10-Q filing and appends the rows to the quarter's report files.
// Filings are processed one by one, EDGAR frowns on hammering.
type Pull struct {
	edgar  *client.Client
	writer *report.Writer
	log    *slog.Logger

	processed int
	failed    int
}

func (self *Pull) WithLogger(l *slog.Logger) *Pull {
	self.log = l
	return self
}

// PullRange extracts every quarter from first through last inclusive. Quarter
// keys are fixed width, comparing them compares quarters chronologically.
func (self *Pull) PullRange(ctx context.Context, first, last client.Qtr,
) error {
	if last.Key() < first.Key() {
		return fmt.Errorf("quarter range %v after %v", first.Key(), last.Key())
	}
	for {
		if err := self.Pull(ctx, first); err != nil {
			return err
		}
		if first.Key() == last.Key() {
			return nil
		}
		first.Next()
	}
}

func (self *Pull) Pull(ctx context.Context, qtr client.Qtr) error {
	self.processed, self.failed = 0, 0
	key := qtr.Key()
	log := self.log.With("qtr", key)

	extractor := filing.New(self.edgar).
		WithQuarter(key).
		WithTickers(self.companyTickers(ctx, log))

	idx, err := self.indexFile(ctx, qtr)
	if err != nil {
		return err
	}
	defer idx.Close()
	log.Info("index file", "last filed", idx.LastFiled())

	if err := self.writer.Create(key); err != nil {
		return err
	}
	defer self.writer.Close()

	err = idx.Iterate(func(item *index.Item) error {
		if !item.StatementForm() {
			return nil
		} else if err := ctx.Err(); err != nil {
			return err //nolint:wrapcheck // canceled
		}
		return self.processFiling(ctx, log, extractor, item)
	})
	if err != nil {
		return fmt.Errorf("pull quarter %v: %w", key, err)
	}

	log.Info("quarter pulled", "filings", self.processed,
		"failed", self.failed, "malformed index records", idx.Skipped())
	return self.writer.Close()
}

// companyTickers loads the CIK to ticker registry. The registry only backs
// up tickers missing from filings, failing to load it degrades the output
// instead of aborting the pull.
func (self *Pull) companyTickers(ctx context.Context, log *slog.Logger,
) map[uint32]string {
	companies, err := self.edgar.CompanyTickers(ctx)
	if err != nil {
		log.Warn("failed fetch company tickers", "error", err)
		return nil
	}
	return client.TickersByCIK(companies)
}

type indexFile struct {
	index.File
	close func() error
}

func (self *indexFile) Close() error { return self.close() }

func (self *Pull) indexFile(ctx context.Context, qtr client.Qtr,
) (*indexFile, error) {
	path := "full-index/" + qtr.Path() + "/xbrl.idx"
	resp, err := self.edgar.GetArchiveFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", path, err)
	}

	f := indexFile{File: index.NewFile(resp.Body), close: resp.Body.Close}
	if err := f.ReadHeaders(); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("index %q: %w", path, err)
	}
	return &f, nil
}

// processFiling extracts one filing. A filing without an XBRL instance, or
// one EDGAR refuses to serve, is logged and skipped: a single broken filing
// must not lose the quarter.
func (self *Pull) processFiling(ctx context.Context, log *slog.Logger,
	extractor *filing.Extractor, item *index.Item,
) error {
	log = log.With("cik", item.CIK, "accession", item.Accession())

	row, err := extractor.Filing(ctx, item)
	switch {
	case errors.Is(err, filing.ErrNoInstance):
		log.Debug("skip filing without XBRL instance")
		return nil
	case err != nil:
		var status *client.UnexpectedStatusError
		if errors.As(err, &status) &&
			status.StatusCode() == http.StatusNotFound {
			log.Warn("skip missing filing", "error", err)
			return nil
		}
		self.failed++
		log.Error("failed extract filing", "error", err)
		return nil
	}

	self.processed++
	log.Info("extracted", "form", item.FormType, "ticker", row.Ticker,
		"company", item.CompanyName)
	return self.writer.Append(row)
}
