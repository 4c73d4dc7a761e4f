package report

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	formCol      = slices.Index(Header(), "form")
	accessionCol = slices.Index(Header(), "accession")
)

// Annual rolls the year's quarter files up into one file of annual reports:
// rows whose form is a 10-K variant, the first filing per accession winning.
// Missing quarters are logged and skipped; a year without any quarter file
// is an error.
func Annual(dataDir string, year int, log *slog.Logger) error {
	name := filepath.Join(dataDir, fmt.Sprint(year))
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create annual report %q: %w", name, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	if _, err := buf.WriteString(
		strings.Join(Header(), Sep) + "\n"); err != nil {
		return fmt.Errorf("write annual report %q: %w", name, err)
	}

	quarters := 0
	seen := map[string]struct{}{}
	for q := 1; q <= 4; q++ {
		qtrName := filepath.Join(dataDir, fmt.Sprintf("%dQ%d", year, q))
		err := Iterate(qtrName, func(record []string) error {
			if len(record) <= accessionCol {
				return nil
			} else if !strings.Contains(record[formCol], "10-K") {
				return nil
			}

			accession := record[accessionCol]
			if _, ok := seen[accession]; ok {
				return nil
			}
			seen[accession] = struct{}{}

			if _, err := buf.WriteString(
				strings.Join(record, Sep) + "\n"); err != nil {
				return fmt.Errorf("write annual report %q: %w", name, err)
			}
			return nil
		})

		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Warn("quarter file not found, skipping", "file", qtrName)
		case err != nil:
			return err
		default:
			quarters++
		}
	}

	if quarters == 0 {
		return fmt.Errorf("no quarter files for %d in %q", year, dataDir)
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("write annual report %q: %w", name, err)
	} else if err := f.Close(); err != nil {
		return fmt.Errorf("close annual report %q: %w", name, err)
	}

	log.Info("annual report written",
		"year", year, "quarters", quarters, "filings", len(seen))
	return nil
}
