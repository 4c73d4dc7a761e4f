package xbrl

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Period is the reporting period of a context: either a single instant
// (balance sheet items) or a start/end duration (flow items).
type Period struct {
	Instant time.Time
	Start   time.Time
	End     time.Time
}

func (self *Period) IsInstant() bool { return !self.Instant.IsZero() }

// Days returns the length of a duration period.
func (self *Period) Days() int {
	return int(self.End.Sub(self.Start).Hours() / 24)
}

// Fact is a single reported value: an element name, its raw text and the
// period of the context it was reported in.
type Fact struct {
	Element    string
	Value      string
	ContextRef string
	Period     Period
}

// Document is a parsed XBRL instance: contexts by id and facts grouped by
// element local name. Namespace prefixes are dropped, the way filers pick
// prefixes is not reliable enough to match on.
type Document struct {
	contexts map[string]Period
	facts    map[string][]Fact
}

// Parse reads an XBRL instance document. Parsing is best effort: once some
// facts have been collected, a syntax error truncates the document instead
// of failing it, which mirrors how often EDGAR instances are slightly
// malformed.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{
		contexts: map[string]Period{},
		facts:    map[string][]Fact{},
	}

	d := xml.NewDecoder(r)
	d.Strict = false
	d.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	if err := doc.collect(d); err != nil {
		return nil, err
	} else if len(doc.facts) == 0 {
		return nil, errors.New("xbrl instance: no facts found")
	}
	doc.resolvePeriods()
	return doc, nil
}

func (self *Document) collect(d *xml.Decoder) error {
	for {
		token, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			if len(self.facts) > 0 || len(self.contexts) > 0 {
				return nil
			}
			return fmt.Errorf("parse xbrl instance: %w", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		if start.Name.Local == "context" {
			if err := self.parseContext(d, &start); err != nil {
				return err
			}
			continue
		}

		if ref := attrValue(&start, "contextRef"); ref != "" {
			self.parseFact(d, &start, ref)
		}
	}
}

func (self *Document) parseContext(d *xml.Decoder, start *xml.StartElement,
) error {
	id := attrValue(start, "id")

	var ctx struct {
		Instant   string `xml:"period>instant"`
		StartDate string `xml:"period>startDate"`
		EndDate   string `xml:"period>endDate"`
	}
	if err := d.DecodeElement(&ctx, start); err != nil {
		// a broken context only loses its own facts
		return nil //nolint:nilerr
	} else if id == "" {
		return nil
	}

	var p Period
	p.Instant = parseDate(ctx.Instant)
	p.Start = parseDate(ctx.StartDate)
	p.End = parseDate(ctx.EndDate)
	self.contexts[id] = p
	return nil
}

func (self *Document) parseFact(d *xml.Decoder, start *xml.StartElement,
	contextRef string,
) {
	var value string
	if err := d.DecodeElement(&value, start); err != nil {
		return
	}

	value = strings.TrimSpace(value)
	if value == "" || strings.HasPrefix(value, "<") {
		return
	}
	// values are sometimes qualified, like "us-gaap:pure"
	if n := strings.LastIndexByte(value, ':'); n >= 0 {
		value = strings.TrimSpace(value[n+1:])
	}

	name := start.Name.Local
	self.facts[name] = append(self.facts[name], Fact{
		Element:    name,
		Value:      value,
		ContextRef: contextRef,
	})
}

func (self *Document) resolvePeriods() {
	for name, facts := range self.facts {
		for i := range facts {
			facts[i].Period = self.contexts[facts[i].ContextRef]
		}
		self.facts[name] = facts
	}
}

func attrValue(start *xml.StartElement, name string) string {
	for _, attr := range start.Attr {
		if attr.Name.Local == name {
			return strings.TrimSpace(attr.Value)
		}
	}
	return ""
}

func parseDate(s string) time.Time {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Facts returns all occurrences of an element, in document order.
func (self *Document) Facts(element string) []Fact {
	return self.facts[element]
}

// Select picks the single most relevant occurrence of an element and returns
// it together with the occurrences it superseded:
//
//   - one occurrence wins outright;
//   - of many instant values the most recent wins;
//   - of many duration values, annual filings want periods over 300 days and
//     quarterly filings 60 to 100 days; the most recent end date wins, the
//     shortest period breaking ties. If the window filter drops everything,
//     all occurrences compete.
func (self *Document) Select(element string, annual bool) (Fact, []Fact, bool) {
	var facts []Fact
	for _, f := range self.facts[element] {
		if f.Value != "" {
			facts = append(facts, f)
		}
	}
	if len(facts) == 0 {
		return Fact{}, nil, false
	} else if len(facts) == 1 {
		return facts[0], nil, true
	}

	if facts[0].Period.IsInstant() {
		slices.SortStableFunc(facts, func(a, b Fact) int {
			return b.Period.Instant.Compare(a.Period.Instant)
		})
		return facts[0], facts[1:], true
	}

	matched := make([]Fact, 0, len(facts))
	for _, f := range facts {
		days := f.Period.Days()
		if annual {
			if days > 300 {
				matched = append(matched, f)
			}
		} else if days > 60 && days < 100 {
			matched = append(matched, f)
		}
	}
	// weird time periods
	if len(matched) == 0 {
		matched = facts
	}

	slices.SortStableFunc(matched, func(a, b Fact) int {
		if n := b.Period.End.Compare(a.Period.End); n != 0 {
			return n
		}
		return a.Period.Days() - b.Period.Days()
	})
	return matched[0], matched[1:], true
}

// Value returns the selected value of an element, or "" when the document
// doesn't report it.
func (self *Document) Value(element string, annual bool) string {
	fact, _, ok := self.Select(element, annual)
	if !ok {
		return ""
	}
	return fact.Value
}
