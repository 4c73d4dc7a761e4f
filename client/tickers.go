package client

import (
	"context"
	"slices"
	"strings"
)

// companyTickers is the shape of company_tickers.json: a map of meaningless
// positional keys to ticker records.
type companyTickers map[string]CompanyTicker

type CompanyTicker struct {
	CIK    uint32 `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// CompanyTickers fetches the registry of known tickers, ordered by CIK.
func (self *Client) CompanyTickers(ctx context.Context,
) ([]CompanyTicker, error) {
	var tickers companyTickers
	if err := self.GetJSON(ctx, self.CompanyTickersURL(), &tickers); err != nil {
		return nil, err
	}

	items := make([]CompanyTicker, 0, len(tickers))
	for _, t := range tickers {
		items = append(items, t)
	}
	slices.SortFunc(items, func(a, b CompanyTicker) int {
		if a.CIK != b.CIK {
			return int(a.CIK) - int(b.CIK)
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})
	return items, nil
}

// TickersByCIK returns one ticker per CIK. A company may list multiple
// classes of shares, the lexically first symbol wins (AAPL over AAPL-B).
func TickersByCIK(tickers []CompanyTicker) map[uint32]string {
	byCIK := make(map[uint32]string, len(tickers))
	for _, t := range tickers {
		if _, ok := byCIK[t.CIK]; !ok && t.Ticker != "" {
			byCIK[t.CIK] = t.Ticker
		}
	}
	return byCIK
}
