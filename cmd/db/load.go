package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/marisj/financials/internal/repo"
	"github.com/marisj/financials/internal/report"
)

func NewLoad(repo Repo, dataDir string) *Load {
	return &Load{
		repo:    repo,
		dataDir: dataDir,
		log:     slog.Default(),
		procs:   1,
	}
}

type Repo interface {
	ReplaceQuarter(ctx context.Context, qtr string, length int,
		next func(i int) (*repo.Filing, error)) error
	ReplaceHistory(ctx context.Context, qtr string, length int,
		next func(i int) (*repo.HistoryRow, error)) error
}

// Load replaces quarters in the database with the rows of their report
// files on disk.
type Load struct {
	repo    Repo
	dataDir string
	log     *slog.Logger

	procs int
}

func (self *Load) WithLogger(l *slog.Logger) *Load {
	self.log = l
	return self
}

func (self *Load) WithProcsLimit(n int) *Load {
	self.procs = n
	return self
}

func (self *Load) Load(ctx context.Context, keys []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(self.procs)

	for _, key := range keys {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error { return self.loadQuarter(ctx, key) })
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("load quarters: %w", err)
	}
	return nil
}

func (self *Load) loadQuarter(ctx context.Context, key string) error {
	log := self.log.With("qtr", key)

	filings, err := self.readFilings(key)
	if err != nil {
		return err
	}

	err = self.repo.ReplaceQuarter(ctx, key, len(filings),
		func(i int) (*repo.Filing, error) { return filings[i], nil })
	if err != nil {
		return fmt.Errorf("load quarter %v: %w", key, err)
	}
	log.Info("filings loaded", "rows", len(filings))

	history, err := self.readHistory(key)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn("no history file, skipping")
		return nil
	} else if err != nil {
		return err
	}

	err = self.repo.ReplaceHistory(ctx, key, len(history),
		func(i int) (*repo.HistoryRow, error) { return history[i], nil })
	if err != nil {
		return fmt.Errorf("load history %v: %w", key, err)
	}
	log.Info("history loaded", "rows", len(history))
	return nil
}

func (self *Load) readFilings(key string) ([]*repo.Filing, error) {
	var filings []*repo.Filing
	name := filepath.Join(self.dataDir, key)
	err := report.Iterate(name, func(record []string) error {
		f, err := repo.ParseFiling(key, record)
		if err != nil {
			return fmt.Errorf("%q: %w", name, err)
		}
		filings = append(filings, f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return filings, nil
}

func (self *Load) readHistory(key string) ([]*repo.HistoryRow, error) {
	var rows []*repo.HistoryRow
	name := filepath.Join(self.dataDir, report.HistoryDir, key)
	err := report.Iterate(name, func(record []string) error {
		h, err := repo.ParseHistoryRow(key, record)
		if err != nil {
			return fmt.Errorf("%q: %w", name, err)
		}
		rows = append(rows, h)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
