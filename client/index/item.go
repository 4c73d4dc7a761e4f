package index

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateFiledLayout = "2006-01-02"

// Forms we extract financial statements from: annual and quarterly reports
// with their amended and transitional variants.
var statementForms = map[string]struct{}{
	"10-K": {}, "10-K/A": {}, "10-KT": {}, "10-KT/A": {},
	"10-Q": {}, "10-Q/A": {}, "10-QT": {}, "10-QT/A": {},
}

type Item struct {
	CIK         uint32
	Filed       time.Time
	CompanyName string
	FormType    string
	Filename    string
}

func (self *Item) parseCIK(s string) error {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fmt.Errorf("failed parse %q as CIK: %w", s, err)
	}
	self.CIK = uint32(v)
	return nil
}

func (self *Item) parseFiled(s string) error {
	filed, err := time.Parse(dateFiledLayout, s)
	if err != nil {
		return fmt.Errorf("failed parse %q as Date Filed: %w", s, err)
	}
	self.Filed = filed
	return nil
}

// StatementForm reports whether this filing is a 10-K or 10-Q variant.
func (self *Item) StatementForm() bool {
	_, ok := statementForms[self.FormType]
	return ok
}

// Annual reports whether this filing covers a full fiscal year.
func (self *Item) Annual() bool {
	return strings.Contains(self.FormType, "K")
}

// Accession returns the accession number encoded in the index Filename,
// like "0001193125-09-153165" from "edgar/data/320193/0001193125-09-153165.txt".
func (self *Item) Accession() string {
	name := self.Filename
	if n := strings.LastIndexByte(name, '/'); n >= 0 {
		name = name[n+1:]
	}
	return strings.TrimSuffix(name, ".txt")
}
