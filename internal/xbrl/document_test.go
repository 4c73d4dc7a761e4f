package xbrl

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInstance = `<?xml version="1.0" encoding="utf-8"?>
<xbrl xmlns="http://www.xbrl.org/2003/instance"
      xmlns:us-gaap="http://fasb.org/us-gaap/2009-01-31"
      xmlns:dei="http://xbrl.sec.gov/dei/2009-01-31">
  <context id="I2009Q1">
    <entity><identifier scheme="http://www.sec.gov/CIK">0000320193</identifier></entity>
    <period><instant>2009-03-31</instant></period>
  </context>
  <context id="I2008Q4">
    <entity><identifier scheme="http://www.sec.gov/CIK">0000320193</identifier></entity>
    <period><instant>2008-12-31</instant></period>
  </context>
  <context id="D2009Q1">
    <entity><identifier scheme="http://www.sec.gov/CIK">0000320193</identifier></entity>
    <period><startDate>2009-01-01</startDate><endDate>2009-03-31</endDate></period>
  </context>
  <context id="D2009YTD">
    <entity><identifier scheme="http://www.sec.gov/CIK">0000320193</identifier></entity>
    <period><startDate>2008-04-01</startDate><endDate>2009-03-31</endDate></period>
  </context>
  <context id="D2008Q1">
    <entity><identifier scheme="http://www.sec.gov/CIK">0000320193</identifier></entity>
    <period><startDate>2008-01-01</startDate><endDate>2008-03-31</endDate></period>
  </context>
  <us-gaap:Assets contextRef="I2009Q1" unitRef="USD" decimals="-3">1000</us-gaap:Assets>
  <us-gaap:Assets contextRef="I2008Q4" unitRef="USD" decimals="-3">900</us-gaap:Assets>
  <us-gaap:Revenues contextRef="D2009Q1" unitRef="USD">500</us-gaap:Revenues>
  <us-gaap:Revenues contextRef="D2009YTD" unitRef="USD">1800</us-gaap:Revenues>
  <us-gaap:Revenues contextRef="D2008Q1" unitRef="USD">450</us-gaap:Revenues>
  <dei:TradingSymbol contextRef="D2009Q1">nasdaq:acme</dei:TradingSymbol>
  <dei:DocumentFiscalYearFocus contextRef="D2009Q1">2009</dei:DocumentFiscalYearFocus>
</xbrl>`

func parseTestInstance(t *testing.T) *Document {
	doc, err := Parse(strings.NewReader(testInstance))
	require.NoError(t, err)
	return doc
}

func TestParse_contexts(t *testing.T) {
	doc := parseTestInstance(t)

	facts := doc.Facts("Assets")
	require.Len(t, facts, 2)
	assert.Equal(t, "1000", facts[0].Value)
	assert.Equal(t, time.Date(2009, time.March, 31, 0, 0, 0, 0, time.UTC),
		facts[0].Period.Instant)
	assert.True(t, facts[0].Period.IsInstant())

	revenues := doc.Facts("Revenues")
	require.Len(t, revenues, 3)
	assert.False(t, revenues[0].Period.IsInstant())
	assert.Equal(t, 89, revenues[0].Period.Days())
	assert.Equal(t, 364, revenues[1].Period.Days())
}

func TestParse_qualifiedValue(t *testing.T) {
	doc := parseTestInstance(t)
	// namespace prefix in the value text is dropped
	assert.Equal(t, "acme", doc.Value("TradingSymbol", false))
}

func TestParse_truncated(t *testing.T) {
	// cut the document mid-element: everything before the cut survives
	cut := strings.Index(testInstance, "<dei:TradingSymbol")
	require.Positive(t, cut)
	doc, err := Parse(strings.NewReader(testInstance[:cut] + "<us-gaap:Broken"))
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Facts("Assets"))
}

func TestParse_empty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	require.Error(t, err)
}

func TestDocument_Select_single(t *testing.T) {
	doc := parseTestInstance(t)
	fact, rest, ok := doc.Select("DocumentFiscalYearFocus", false)
	require.True(t, ok)
	assert.Equal(t, "2009", fact.Value)
	assert.Empty(t, rest)

	_, _, ok = doc.Select("NoSuchElement", false)
	assert.False(t, ok)
}

func TestDocument_Select_instant(t *testing.T) {
	doc := parseTestInstance(t)
	fact, rest, ok := doc.Select("Assets", false)
	require.True(t, ok)
	assert.Equal(t, "1000", fact.Value)
	require.Len(t, rest, 1)
	assert.Equal(t, "900", rest[0].Value)
}

func TestDocument_Select_quarterly(t *testing.T) {
	doc := parseTestInstance(t)
	fact, rest, ok := doc.Select("Revenues", false)
	require.True(t, ok)
	// most recent quarter-length period wins, the year-to-date period and
	// the old quarter become history
	assert.Equal(t, "500", fact.Value)
	assert.Len(t, rest, 1)
}

func TestDocument_Select_annual(t *testing.T) {
	doc := parseTestInstance(t)
	fact, _, ok := doc.Select("Revenues", true)
	require.True(t, ok)
	assert.Equal(t, "1800", fact.Value)
}

func TestDocument_Select_fallbackWindow(t *testing.T) {
	const instance = `<?xml version="1.0"?>
<xbrl xmlns="http://www.xbrl.org/2003/instance"
      xmlns:us-gaap="http://fasb.org/us-gaap/2009-01-31">
  <context id="D1">
    <period><startDate>2009-01-01</startDate><endDate>2009-02-15</endDate></period>
  </context>
  <context id="D2">
    <period><startDate>2008-11-15</startDate><endDate>2009-01-01</endDate></period>
  </context>
  <us-gaap:Revenues contextRef="D1">100</us-gaap:Revenues>
  <us-gaap:Revenues contextRef="D2">90</us-gaap:Revenues>
</xbrl>`
	doc, err := Parse(strings.NewReader(instance))
	require.NoError(t, err)

	// neither period fits the quarterly window, most recent end date wins
	fact, rest, ok := doc.Select("Revenues", false)
	require.True(t, ok)
	assert.Equal(t, "100", fact.Value)
	assert.Len(t, rest, 1)
}
