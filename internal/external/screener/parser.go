package screener

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/scorecard/internal/contracts"
)

// Interest coverage reported for companies without interest expense
const debtFreeCoverage = 10.0

// page wraps a parsed company page
type page struct {
	doc    *goquery.Document
	ratios map[string]string
}

// ParseFundamentals reads a company page into a fundamental record.
// Values the page does not carry stay absent.
func ParseFundamentals(r io.Reader) (*contracts.FundamentalRecord, []string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, err
	}

	p := &page{doc: doc, ratios: topRatios(doc)}
	rec, unknown := contracts.FundamentalsFromLabels(p.labels())
	return rec, unknown, nil
}

// topRatios collects the "name → value" list at the top of the page
func topRatios(doc *goquery.Document) map[string]string {
	ratios := make(map[string]string)
	doc.Find("li.flex.flex-space-between").Each(func(_ int, li *goquery.Selection) {
		name := strings.ToLower(strings.TrimSpace(li.Find("span.name").Text()))
		if name == "" {
			return
		}

		var parts []string
		li.Find("span.number").Each(func(_ int, n *goquery.Selection) {
			parts = append(parts, strings.TrimSpace(n.Text()))
		})
		if len(parts) == 0 {
			return
		}
		ratios[name] = strings.Join(parts, " / ")
	})
	return ratios
}

// ratio returns the first named ratio with a non-zero value
func (p *page) ratio(names ...string) (float64, bool) {
	for _, name := range names {
		if v, ok := number(p.ratios[name]); ok && v != 0 {
			return v, true
		}
	}
	return 0, false
}

// row reads a cell from the first row in a section whose text contains name.
// Negative indexes count from the last column.
func (p *page) row(section, name string, index int) (float64, bool) {
	var (
		value float64
		found bool
	)
	needle := strings.ToLower(name)

	p.doc.Find("section#" + section + " tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(tr.Text()), needle) {
			return true
		}
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return true
		}

		i := index
		if i < 0 {
			i = cells.Length() + index
		}
		if i < 0 || i >= cells.Length() {
			return false
		}
		value, found = number(cells.Eq(i).Text())
		return false
	})

	return value, found
}

// labels derives the provider label map from the page
func (p *page) labels() map[string]interface{} {
	values := make(map[string]interface{})
	set := func(label string) func(float64, bool) {
		return func(v float64, ok bool) {
			if ok {
				values[label] = v
			}
		}
	}

	cmp, cmpOK := p.ratio("current price")
	set("Current Price")(cmp, cmpOK)
	set("Market Cap")(p.ratio("market cap"))

	if hl := strings.Split(p.ratios["high / low"], "/"); len(hl) == 2 {
		set("High_52")(number(hl[0]))
		set("Low_52")(number(hl[1]))
	}

	pe, peOK := p.ratio("stock p/e")
	set("Stock P/E")(pe, peOK)
	set("Industry PE")(p.ratio("industry pe"))
	set("ROE")(p.ratio("return on equity", "roe"))
	set("ROCE")(p.ratio("roce"))
	set("Dividend Yield")(number(p.ratios["dividend yield"]))
	set("Current Ratio")(p.ratio("current ratio"))
	set("Piotroski Score")(p.ratio("piotroski score"))
	set("Industry PB")(p.ratio("industry pb"))
	set("Price to Book")(p.ratio("price to book value"))

	bv, bvOK := p.ratio("book value")
	set("Book Value")(bv, bvOK)

	// 부채비율: ratio first, balance sheet fallback
	shareCap, capOK := p.row("balance-sheet", "Share Capital", -1)
	reserves, resOK := p.row("balance-sheet", "Reserves", -1)
	netWorth := shareCap + reserves
	set("Net Worth")(netWorth, capOK || resOK)

	if de, ok := p.ratio("debt to equity", "debt / eq"); ok {
		set("Debt / Equity")(de, true)
	} else if borrowings, ok := p.row("balance-sheet", "Borrowings", -1); ok && netWorth != 0 {
		set("Debt / Equity")(borrowings/netWorth, true)
	}

	epsLast, epsOK := p.row("quarters", "EPS", -1)
	epsPrev, prevOK := p.row("quarters", "EPS", -2)
	if epsOK && prevOK && epsPrev != 0 {
		set("EPS Trend")((epsLast-epsPrev)/epsPrev*100, true)
	}
	set("EBITDA Trend")(p.row("quarters", "Operating Profit", -1))

	set("Promoter Holding")(p.row("shareholding", "Promoters", -1))
	fiiLast, fiiOK := p.row("shareholding", "FIIs", -1)
	fiiPrev, fiiPrevOK := p.row("shareholding", "FIIs", -2)
	set("FII/DII Change")(fiiLast-fiiPrev, fiiOK && fiiPrevOK)

	if pledged, ok := p.row("shareholding", "Pledged", -1); ok {
		set("Pledged Shares")(pledged, true)
	} else {
		set("Pledged Shares")(number(p.ratios["pledged percentage"]))
	}

	ocf, ocfOK := p.row("cash-flow", "Cash from Operating Activity", -1)
	set("Operating Cash Flow")(ocf, ocfOK)
	if ocfOK {
		// capex is reported negative
		capex, _ := p.row("cash-flow", "Fixed Assets", -1)
		set("Free Cash Flow")(ocf+capex, true)
	}

	sales, salesOK := p.row("profit-loss", "Sales", -1)
	set("Sales")(sales, salesOK)
	if sales3y, ok := p.row("profit-loss", "Sales", -4); ok && salesOK {
		set("Revenue CAGR")(cagr(sales, sales3y, 3))
	}

	profit, profitOK := p.row("profit-loss", "Net Profit", -1)
	set("Net Profit")(profit, profitOK)
	profitCAGR, profitCAGROK := 0.0, false
	if profit3y, ok := p.row("profit-loss", "Net Profit", -4); ok && profitOK {
		profitCAGR, profitCAGROK = cagr(profit, profit3y, 3)
		set("Profit CAGR")(profitCAGR, profitCAGROK)
	}

	if ocfOK && profitOK && profit != 0 {
		set("CFO to PAT")(ocf/profit, true)
	}

	if ic, ok := p.ratio("interest coverage", "int coverage"); ok {
		set("Interest Coverage")(ic, true)
	} else if opProfit, ok := p.row("profit-loss", "Operating Profit", -1); ok {
		interest, _ := p.row("profit-loss", "Interest", -1)
		if interest != 0 {
			set("Interest Coverage")(opProfit/interest, true)
		} else {
			set("Interest Coverage")(debtFreeCoverage, true)
		}
	}

	set("Contingent Liabilities")(p.row("balance-sheet", "Other Liabilities", -1))

	if peOK && profitCAGROK && profitCAGR > 0 {
		set("PEG Ratio")(pe/profitCAGR, true)
	}

	// EPS (TTM) from price and P/E, else the latest quarter
	eps, epsKnown := epsLast, epsOK
	if cmpOK && peOK && pe > 0 {
		eps, epsKnown = cmp/pe, true
	}
	if epsKnown {
		growth := 0.0
		if profitCAGROK {
			growth = profitCAGR
		}
		set("Intrinsic Value")(IntrinsicValue(eps, growth, bv), true)
	}

	return values
}

// IntrinsicValue applies the revised Graham formula EPS×(8.5+2g)×4.4/Y with
// growth clamped to [0, 20] and a 7.5% AAA yield. A non-positive result falls
// back to the Graham number, then to 15×EPS.
func IntrinsicValue(eps, growthPct, bookValue float64) float64 {
	const aaaYield = 7.5

	g := math.Max(0, math.Min(growthPct, 20))
	if v := eps * (8.5 + 2*g) * 4.4 / aaaYield; v > 0 {
		return v
	}
	if eps > 0 && bookValue > 0 {
		return math.Sqrt(22.5 * eps * bookValue)
	}
	return eps * 15
}

// cagr returns the compound annual growth in percent.
// Both ends must be positive.
func cagr(now, then float64, years int) (float64, bool) {
	if now <= 0 || then <= 0 {
		return 0, false
	}
	return (math.Pow(now/then, 1/float64(years)) - 1) * 100, true
}

// number keeps digits, '.' and '-' and parses the rest
func number(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimRight(b.String(), ".")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
