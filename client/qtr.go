package client

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

func NewQtr(date time.Time) Qtr {
	y, m, _ := date.Date()
	return Qtr{year: y, qtr: monthQtr(int(m))}
}

// ParseQtr parses a quarter given as "YYYY/QTR#", the way EDGAR names its
// full-index directories.
func ParseQtr(s string) (Qtr, error) {
	year, qtr, found := strings.Cut(s, "/QTR")
	if !found {
		return Qtr{}, fmt.Errorf("quarter %q: expected format YYYY/QTR#", s)
	}

	y, err := strconv.Atoi(year)
	if err != nil {
		return Qtr{}, fmt.Errorf("quarter %q: parse year: %w", s, err)
	}
	q, err := strconv.Atoi(qtr)
	if err != nil {
		return Qtr{}, fmt.Errorf("quarter %q: parse quarter: %w", s, err)
	} else if q < 1 || q > 4 {
		return Qtr{}, fmt.Errorf("quarter %q: no such quarter %v", s, q)
	}

	return Qtr{year: y, qtr: q}, nil
}

type Qtr struct {
	year, qtr int
}

func monthQtr(month int) int {
	if month%3 > 0 {
		return month/3 + 1
	}
	return month / 3
}

func (self *Qtr) Year() int { return self.year }

func (self *Qtr) Path() string {
	return path.Join(strconv.Itoa(self.year), self.QTR())
}

func (self *Qtr) QTR() string {
	return "QTR" + strconv.Itoa(self.qtr)
}

// Key returns the quarter as "YYYYQ#", used to name per-quarter data files.
func (self *Qtr) Key() string {
	return strconv.Itoa(self.year) + "Q" + strconv.Itoa(self.qtr)
}

func (self *Qtr) Next() string {
	if self.qtr == 4 {
		self.year++
		self.qtr = 1
	} else {
		self.qtr++
	}
	return self.Path()
}
