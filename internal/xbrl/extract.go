package xbrl

import (
	"strconv"
	"strings"
	"time"
)

// FieldNames lists the canonical accounting fields in output column order.
var FieldNames = []string{
	"bs.assets", "bs.cash", "bs.currentassets", "bs.ppenet",
	"bs.ppegross", "bs.currentliabilities", "bs.longtermdebt",
	"bs.equity", "is.sales", "is.cogs", "is.grossprofit",
	"is.research", "is.sga", "is.opexpenses", "is.ebitda",
	"is.incometax", "is.netincome", "is.opincome",
	"cf.operating", "cf.depreciation", "cf.investing",
	"cf.ppe", "cf.financing", "cf.dividends", "cf.cashchange",
}

// fieldAliases maps canonical fields to the us-gaap elements that may carry
// them, in preference order. Filers and taxonomy years disagree on names,
// the first element with a usable value wins.
var fieldAliases = map[string][]string{
	"bs.assets":             {"Assets"},
	"bs.cash":               {"Cash", "CashAndCashEquivalentsAtCarryingValue"},
	"bs.currentassets":      {"AssetsCurrent"},
	"bs.ppenet":             {"PropertyPlantAndEquipmentNet"},
	"bs.ppegross":           {"PropertyPlantAndEquipmentGross"},
	"bs.currentliabilities": {"LiabilitiesCurrent"},
	"bs.longtermdebt":       {"LongTermDebt"},
	"bs.equity": {
		"CommonStockholdersEquity",
		"StockholdersEquity",
		"StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest",
		"PartnersCapitalIncludingPortionAttributableToNoncontrollingInterest",
		"PartnersCapital",
		"MemberEquity",
		"AssetsNet",
	},
	"is.sales":       {"SalesRevenueNet", "Revenues"},
	"is.cogs":        {"CostOfGoodsAndServicesSold", "CostOfGoodsSold"},
	"is.grossprofit": {"GrossProfit"},
	"is.research":    {"ResearchAndDevelopmentExpense"},
	"is.sga":         {"SellingGeneralAndAdministrativeExpense"},
	"is.opexpenses":  {"OperatingCostsAndExpenses", "OperatingExpenses"},
	"is.incometax":   {"IncomeTaxesPaid", "IncomeTaxesPaidNet"},
	"is.netincome": {
		"NetIncomeLoss",
		"ProfitLoss",
		"NetIncomeLossAvailableToCommonStockholdersBasic",
	},
	"is.opincome": {
		"IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest",
	},
	"cf.operating": {
		"NetCashProvidedByUsedInOperatingActivities",
		"NetCashProvidedByUsedInOperatingActivitiesContinuingOperations",
	},
	"cf.depreciation": {"Depreciation"},
	"cf.investing": {
		"NetCashProvidedByUsedInInvestingActivities",
		"NetCashProvidedByUsedInInvestingActivitiesContinuingOperations",
	},
	"cf.ppe":       {"PaymentsToAcquirePropertyPlantAndEquipment"},
	"cf.financing": {
		"NetCashProvidedByUsedInFinancingActivities",
		"NetCashProvidedByUsedInFinancingActivitiesContinuingOperations",
	},
	"cf.dividends": {"PaymentsOfDividends"},
}

// History is a non-selected occurrence of a field: an older balance or an
// out-of-window period that lost to the reported value.
type History struct {
	Field   string
	Element string
	Date    time.Time
	Value   string
}

// Statement holds the extracted values of one filing, keyed by canonical
// field name, plus the history rows collected while selecting them.
type Statement struct {
	values  map[string]string
	history []History
}

func (self *Statement) Value(field string) string { return self.values[field] }

// Values returns the field values in FieldNames order, empty string for
// fields the filing doesn't report.
func (self *Statement) Values() []string {
	values := make([]string, len(FieldNames))
	for i, name := range FieldNames {
		values[i] = self.values[name]
	}
	return values
}

func (self *Statement) History() []History { return self.history }

// Extract pulls the canonical field set out of a parsed instance document.
// The annual flag switches duration selection between fiscal year and
// quarter windows.
func Extract(doc *Document, annual bool) *Statement {
	e := extractor{
		doc:    doc,
		annual: annual,
		st:     &Statement{values: make(map[string]string, len(FieldNames))},
	}

	for _, field := range FieldNames {
		if aliases, ok := fieldAliases[field]; ok {
			e.st.values[field] = e.pull(field, aliases...)
		}
	}

	e.longTermDebt()
	e.ebitda()
	e.cashChange()
	return e.st
}

type extractor struct {
	doc    *Document
	annual bool
	st     *Statement
}

// pull tries elements in order and returns the first selected value,
// recording the occurrences it superseded as history.
func (self *extractor) pull(field string, elements ...string) string {
	for _, element := range elements {
		fact, rest, ok := self.doc.Select(element, self.annual)
		if !ok {
			continue
		}
		for _, f := range rest {
			date := f.Period.End
			if f.Period.IsInstant() {
				date = f.Period.Instant
			}
			self.st.history = append(self.st.history, History{
				Field:   field,
				Element: f.Element,
				Date:    date,
				Value:   f.Value,
			})
		}
		return fact.Value
	}
	return ""
}

// quiet selects a value without recording history, for elements that only
// feed derived fields.
func (self *extractor) quiet(element string) string {
	return self.doc.Value(element, self.annual)
}

// longTermDebt falls back to the sum of the current and noncurrent portions
// when LongTermDebt itself isn't reported.
func (self *extractor) longTermDebt() {
	if self.st.values["bs.longtermdebt"] != "" {
		return
	}
	current := self.quiet("LongTermDebtCurrent")
	noncurrent := self.quiet("LongTermDebtNoncurrent")

	switch {
	case current != "" && noncurrent != "":
		a, aok := parseValue(current)
		b, bok := parseValue(noncurrent)
		if aok && bok {
			self.st.values["bs.longtermdebt"] = formatValue(a + b)
		}
	case current != "":
		self.st.values["bs.longtermdebt"] = current
	case noncurrent != "":
		self.st.values["bs.longtermdebt"] = noncurrent
	}
}

// ebitda = gross profit - operating expenses + depreciation and amortization.
func (self *extractor) ebitda() {
	gross := self.st.values["is.grossprofit"]
	opex := self.st.values["is.opexpenses"]
	if gross == "" || opex == "" {
		return
	}
	dep := self.quiet("DepreciationAndAmortization")
	if dep == "" {
		return
	}

	g, gok := parseValue(gross)
	o, ook := parseValue(opex)
	d, dok := parseValue(dep)
	if gok && ook && dok {
		self.st.values["is.ebitda"] = formatValue(g - o + d)
	}
}

// cashChange = operating + investing + financing flows, net of the exchange
// rate effect on cash.
func (self *extractor) cashChange() {
	operating := self.st.values["cf.operating"]
	investing := self.st.values["cf.investing"]
	financing := self.st.values["cf.financing"]
	if operating == "" || investing == "" || financing == "" {
		return
	}

	op, opok := parseValue(operating)
	inv, invok := parseValue(investing)
	fin, finok := parseValue(financing)
	if !opok || !invok || !finok {
		return
	}
	sum := op + inv + fin

	exchange := self.quiet("EffectOfExchangeRateOnCashAndCashEquivalents")
	if exchange == "" {
		exchange = self.quiet(
			"EffectOfExchangeRateOnCashAndCashEquivalentsContinuingOperations")
	}
	if exchange != "" {
		ex, ok := parseValue(exchange)
		if !ok {
			return
		}
		sum -= ex
	}
	self.st.values["cf.cashchange"] = formatValue(sum)
}

// parseValue parses a reported value as a number. A value that doesn't
// parse poisons its derived field: better empty than wrong.
func parseValue(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return v, err == nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
