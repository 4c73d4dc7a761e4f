package filing

import "strings"

// Header fields pulled from a filing's .hdr.sgml: the acceptance timestamp
// and the filer's mailing ZIP. The SGML is not well formed, tags open and
// never close, so this is plain text chopping.
type SgmlHeader struct {
	Acceptance string
	Zip        string
}

func ParseSgmlHeader(s string) SgmlHeader {
	return SgmlHeader{
		Acceptance: sgmlValue(s, "<ACCEPTANCE-DATETIME>"),
		Zip:        FormatZip(sgmlValue(s, "<ZIP>")),
	}
}

// sgmlValue returns the text after the last occurrence of tag, up to the
// end of its line or the next tag opening. The value never spans lines,
// untagged lines may follow it.
func sgmlValue(s, tag string) string {
	n := strings.LastIndex(s, tag)
	if n < 0 {
		return ""
	}
	v := s[n+len(tag):]
	if m := strings.IndexAny(v, "<\r\n"); m >= 0 {
		v = v[:m]
	}
	return strings.TrimSpace(v)
}
