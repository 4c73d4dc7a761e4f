package db

import (
	"context"
	"fmt"
	"slices"
)

// status prints the loaded quarters with their filing and history row
// counts.
func status(ctx context.Context, r Counter) error {
	filings, err := r.FilingCounts(ctx)
	if err != nil {
		return fmt.Errorf("db status: %w", err)
	}
	history, err := r.HistoryCounts(ctx)
	if err != nil {
		return fmt.Errorf("db status: %w", err)
	}

	keys := make([]string, 0, len(filings))
	for key := range filings {
		keys = append(keys, key)
	}
	for key := range history {
		if _, ok := filings[key]; !ok {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	fmt.Printf("%-8v %10v %10v\n", "QTR", "FILINGS", "HISTORY")
	for _, key := range keys {
		fmt.Printf("%-8v %10v %10v\n", key, filings[key], history[key])
	}
	return nil
}

type Counter interface {
	FilingCounts(ctx context.Context) (map[string]uint32, error)
	HistoryCounts(ctx context.Context) (map[string]uint32, error)
}
