package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func New(db Postgreser) *Repo {
	return &Repo{db: db}
}

type Repo struct {
	db Postgreser
}

type Postgreser interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string,
		rowSrc pgx.CopyFromSource) (int64, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

func (self *Repo) copyFilings(ctx context.Context, conn Postgreser,
	length int, next func(i int) (*Filing, error),
) error {
	n, err := conn.CopyFrom(ctx, pgx.Identifier{"filings"}, filingCols,
		pgx.CopyFromSlice(length, func(i int) ([]any, error) {
			f, err := next(i)
			if err != nil {
				return nil, err
			}
			return f.Values(), nil
		}))
	if err != nil {
		return fmt.Errorf("failed copy %v filings: %w", length, err)
	} else if n != int64(length) {
		return fmt.Errorf("copied %v filings instead of %v", n, length)
	}
	return nil
}

func (self *Repo) copyHistory(ctx context.Context, conn Postgreser,
	length int, next func(i int) (*HistoryRow, error),
) error {
	n, err := conn.CopyFrom(ctx, pgx.Identifier{"fact_history"},
		historyCols[:],
		pgx.CopyFromSlice(length, func(i int) ([]any, error) {
			h, err := next(i)
			if err != nil {
				return nil, err
			}
			return h.Values(), nil
		}))
	if err != nil {
		return fmt.Errorf("failed copy %v history rows: %w", length, err)
	} else if n != int64(length) {
		return fmt.Errorf("copied %v history rows instead of %v", n, length)
	}
	return nil
}

// ReplaceQuarter reloads one quarter of filings: in a single transaction it
// deletes the quarter's rows and copies the new ones in.
func (self *Repo) ReplaceQuarter(ctx context.Context, qtr string, length int,
	next func(i int) (*Filing, error),
) error {
	err := pgx.BeginFunc(ctx, self.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM filings WHERE qtr = $1`, qtr)
		if err != nil {
			return err //nolint:wrapcheck // wrap it below
		}
		return self.copyFilings(ctx, tx, length, next)
	})
	if err != nil {
		return fmt.Errorf("repo.ReplaceQuarter %v: %w", qtr, err)
	}
	return nil
}

// ReplaceHistory reloads one quarter of superseded facts the same way.
func (self *Repo) ReplaceHistory(ctx context.Context, qtr string, length int,
	next func(i int) (*HistoryRow, error),
) error {
	err := pgx.BeginFunc(ctx, self.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM fact_history WHERE qtr = $1`, qtr)
		if err != nil {
			return err //nolint:wrapcheck // wrap it below
		}
		return self.copyHistory(ctx, tx, length, next)
	})
	if err != nil {
		return fmt.Errorf("repo.ReplaceHistory %v: %w", qtr, err)
	}
	return nil
}

func (self *Repo) FilingCounts(ctx context.Context) (map[string]uint32, error) {
	return self.qtrCounts(ctx, `
SELECT qtr, COUNT(*) AS cnt FROM filings GROUP BY qtr`)
}

func (self *Repo) HistoryCounts(ctx context.Context) (map[string]uint32, error) {
	return self.qtrCounts(ctx, `
SELECT qtr, COUNT(*) AS cnt FROM fact_history GROUP BY qtr`)
}

func (self *Repo) qtrCounts(ctx context.Context, sql string,
) (map[string]uint32, error) {
	rows, err := self.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repo.qtrCounts: %w", err)
	}

	type qtrCount struct {
		Qtr string `db:"qtr"`
		Cnt uint32 `db:"cnt"`
	}

	qtrCounts, err := pgx.CollectRows(rows, pgx.RowToStructByName[qtrCount])
	if err != nil {
		return nil, fmt.Errorf("repo.qtrCounts: %w", err)
	}

	counts := make(map[string]uint32, len(qtrCounts))
	for i := range qtrCounts {
		item := &qtrCounts[i]
		counts[item.Qtr] = item.Cnt
	}
	return counts, nil
}
