package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Strategy records which heuristic produced an amount.
type Strategy string

const (
	StrategyKeyword  Strategy = "keyword"
	StrategyFallback Strategy = "fallback"
)

// AmountMatch is the outcome of a successful amount search.
type AmountMatch struct {
	Value    decimal.Decimal
	Strategy Strategy
	// KeywordHits counts keyword lines whose window yielded a value.
	KeywordHits int
}

var (
	currencyAmountRe  = regexp.MustCompile(`(?i)(?:\b(?:rs\.?|lkr)|₹)\s*(\d{1,3}(?:[, ]\d{3})+(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?)`)
	thousandsAmountRe = regexp.MustCompile(`\b\d{1,3}(?:,\d{3})+(?:\.\d{2})?\b`)
	simpleAmountRe    = regexp.MustCompile(`\b\d+[.,]\d{2}\b`)
)

// windowPatterns are applied near keyword lines, in priority order.
var windowPatterns = []*regexp.Regexp{currencyAmountRe, thousandsAmountRe, simpleAmountRe}

// fallbackPatterns are applied to the whole text when no keyword line helps.
var fallbackPatterns = []*regexp.Regexp{currencyAmountRe, thousandsAmountRe}

// Amount finds the most plausible monetary amount in text. Lines containing
// one of hints are searched together with the following Options.WindowLines
// lines; failing that, the whole text is scanned for currency-prefixed and
// thousands-formatted figures below Options.MaxPlausibleAmount.
// It returns false when nothing usable is found.
func (e *Extractor) Amount(text string, hints []string) (AmountMatch, bool) {
	if m, ok := e.keywordAmount(text, hints); ok {
		return m, true
	}
	return e.fallbackAmount(text)
}

func (e *Extractor) keywordAmount(text string, hints []string) (AmountMatch, bool) {
	lines := strings.Split(text, "\n")
	var best decimal.Decimal
	hits := 0
	for i, line := range lines {
		if !containsAny(strings.ToLower(line), hints) {
			continue
		}
		end := i + 1 + e.opts.WindowLines
		if end > len(lines) {
			end = len(lines)
		}
		window := strings.Join(lines[i:end], "\n")

		var local decimal.Decimal
		for _, re := range windowPatterns {
			for _, v := range findAmounts(re, window) {
				if v.GreaterThan(local) {
					local = v
				}
			}
		}
		if local.IsPositive() {
			hits++
			if local.GreaterThan(best) {
				best = local
			}
		}
	}
	if hits == 0 {
		return AmountMatch{}, false
	}
	return AmountMatch{Value: best, Strategy: StrategyKeyword, KeywordHits: hits}, true
}

func (e *Extractor) fallbackAmount(text string) (AmountMatch, bool) {
	var best decimal.Decimal
	for _, re := range fallbackPatterns {
		for _, v := range findAmounts(re, text) {
			if v.GreaterThanOrEqual(e.opts.MaxPlausibleAmount) {
				continue
			}
			if v.GreaterThan(best) {
				best = v
			}
		}
	}
	if !best.IsPositive() {
		return AmountMatch{}, false
	}
	return AmountMatch{Value: best, Strategy: StrategyFallback}, true
}

// findAmounts returns every positive value re matches in s. When re has a
// capture group the group is parsed, otherwise the whole match.
func findAmounts(re *regexp.Regexp, s string) []decimal.Decimal {
	var out []decimal.Decimal
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		raw := m[0]
		if len(m) > 1 && m[1] != "" {
			raw = m[1]
		}
		v, ok := ParseAmount(raw)
		if !ok || !v.IsPositive() {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ParseAmount parses a currency figure such as "Rs. 1,250.00", "2 450,50"
// or "LKR 85000". Thousands separators are dropped; a final '.' or ','
// followed by one or two digits is the decimal point.
func ParseAmount(s string) (decimal.Decimal, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == ',' {
			return r
		}
		return -1
	}, s)
	cleaned = strings.Trim(cleaned, ".,")
	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	num := stripSeparators(cleaned)
	if last := strings.LastIndexAny(cleaned, ".,"); last >= 0 {
		frac := cleaned[last+1:]
		if len(frac) == 1 || len(frac) == 2 {
			num = stripSeparators(cleaned[:last]) + "." + frac
		}
	}

	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func stripSeparators(s string) string {
	return strings.NewReplacer(",", "", ".", "").Replace(s)
}

func containsAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
