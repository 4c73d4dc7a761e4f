package filing

import (
	"strings"
	"unicode"
)

// exchange and venue noise that filers stuff into the ticker field
var tickerMess = map[string]struct{}{
	"OTCBB": {}, "NYSE": {}, "AMEX": {}, "OB": {}, "PK": {}, "OTCQB": {},
	"OTBB": {}, "OTC": {}, "TSX": {}, "US": {}, "NASDQ": {}, "NASDAQ": {},
	"NASD": {}, "NSYE": {}, "OTCQX": {},
}

// placeholder values that mean "no ticker"
var tickerMiss = map[string]struct{}{
	"NONE": {}, "N/A": {}, "NA": {}, "UNKNOWN": {}, "COME": {}, "SEE": {},
	"TRADED": {}, "TICKER": {}, "NO": {}, "FOR": {}, "FOOTNOTE": {},
	"REMARK": {}, "SYMBOL": {}, "NOT": {},
}

// CleanTicker standardizes a self-reported trading symbol. Filers report
// anything from "(AAPL)" to "NASDAQ: MSFT" to "see footnote 1", so this is
// heuristic all the way down. Returns "" when no usable symbol remains.
func CleanTicker(dirty string) string {
	if dirty == "" {
		return ""
	}

	s := strings.TrimSpace(strings.ReplaceAll(strings.ToUpper(dirty), `"`, ""))
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.NewReplacer("(", "", ")", "").Replace(s)
	} else if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = strings.NewReplacer("[", "", "]", "").Replace(s)
	}

	s = dropMess(s, ":", "")
	s = dropMess(s, "-", "-")
	s = dropMess(s, "/", "")
	s = strings.TrimSuffix(s, "-")

	for _, sep := range []string{".", "(", ")", ","} {
		s, _, _ = strings.Cut(s, sep)
	}

	if strings.ContainsAny(s, "$_") {
		return ""
	}
	if !containsAlpha(s) {
		return ""
	}
	if uniformChars(s) && strings.ContainsRune(s, 'X') {
		return ""
	}
	if _, ok := tickerMiss[alphaOnly(s)]; ok {
		return ""
	}

	if words := strings.Fields(s); len(words) > 1 {
		kept := words[:0]
		for _, w := range words {
			if _, ok := tickerMiss[w]; ok {
				return ""
			}
			if _, mess := tickerMess[w]; !mess {
				kept = append(kept, w)
			}
		}
		s = strings.Join(kept, "/")
	}

	first, _, _ := strings.Cut(s, "-")
	first, _, _ = strings.Cut(first, "/")
	if containsAlpha(first) {
		s = first
	}

	return alnumOnly(s)
}

// dropMess splits s on sep and, when any piece is exchange noise, rejoins
// the clean pieces with joiner.
func dropMess(s, sep, joiner string) string {
	parts := strings.Split(s, sep)
	dirty := false
	for _, p := range parts {
		if _, ok := tickerMess[strings.TrimSpace(p)]; ok {
			dirty = true
			break
		}
	}
	if !dirty {
		return s
	}

	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if _, ok := tickerMess[p]; !ok {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, joiner)
}

func containsAlpha(s string) bool {
	return strings.ContainsFunc(s, unicode.IsLetter)
}

// uniformChars reports whether s is a single repeated character, like "XXXX"
func uniformChars(s string) bool {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != rune(s[0]) {
			return false
		}
	}
	return true
}

func alphaOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
}

func alnumOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// FormatZip normalizes a reported mailing code to a 5 digit ZIP, or ""
// when it isn't one.
func FormatZip(field string) string {
	if field == "" {
		return ""
	}
	field, _, _ = strings.Cut(field, "-")
	field, _, _ = strings.Cut(field, " ")
	field, _, _ = strings.Cut(field, ".")

	digits := func(s string) bool {
		if s == "" {
			return false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}

	switch {
	case len(field) <= 5:
		if !digits(field) {
			return ""
		}
		return strings.Repeat("0", 5-len(field)) + field
	case len(field) <= 9:
		if zip := field[:5]; digits(zip) {
			return zip
		}
	}
	return ""
}
