package bankrules

import (
	"regexp"
	"strings"

	"github.com/tallyup-dev/tallyup/internal/model"
)

// GenericRuleKey identifies the catch-all rule for unlisted banks.
const GenericRuleKey = "generic"

const (
	reasonAccountDebit  = "Account Debit"
	reasonAccountCredit = "Account Credit"
)

var (
	rsAmount      = regexp.MustCompile(`(?i)\b(?P<currency>Rs\.?|LKR|USD)\s*(?P<amount>\d[\d,]*(?:\.\d{1,2})?)`)
	labeledAmount = regexp.MustCompile(`(?i)\bamount\s*:?\s*(?P<amount>\d[\d,]*\.\d{2})`)

	reasonAt   = reasonAfter("at")
	reasonTo   = reasonAfter("to")
	reasonFor  = reasonAfter("for")
	reasonFrom = reasonAfter("from")
)

// reasonAfter captures the phrase following word up to the next clause break.
func reasonAfter(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + word + `\s+([A-Za-z][A-Za-z0-9&'/\-\. ]*?)(?:\s+(?:on|from|for|via|ref)\b|\.\s|\.$|,|;|\n|$)`)
}

func contains(subs ...string) func(string) bool {
	return func(body string) bool {
		for _, s := range subs {
			if strings.Contains(body, s) {
				return true
			}
		}
		return false
	}
}

func matchesRe(re *regexp.Regexp) func(string) bool {
	return re.MatchString
}

func debit(pattern string, def string, reasons ...*regexp.Regexp) DirectionRule {
	return DirectionRule{Pattern: regexp.MustCompile(pattern), Polarity: model.PolarityDebit, Reasons: reasons, DefaultReason: def}
}

func credit(pattern string, def string, reasons ...*regexp.Regexp) DirectionRule {
	return DirectionRule{Pattern: regexp.MustCompile(pattern), Polarity: model.PolarityCredit, Reasons: reasons, DefaultReason: def}
}

// DefaultRules lists the built-in senders in priority order. A body is
// handled by the first rule whose matcher accepts it and by no other.
// Adding an institution means appending a record before the generic rule.
var DefaultRules = []Rule{
	{
		Key:     "boc",
		Bank:    "Bank of Ceylon",
		Matches: func(b string) bool { return bocRe.MatchString(b) || strings.Contains(strings.ToLower(b), "bank of ceylon") },
		Amounts: []*regexp.Regexp{rsAmount, labeledAmount},
		Directions: []DirectionRule{
			debit(`(?i)POS/ATM\s+Transaction`, "POS/ATM Transaction", reasonAt),
			debit(`(?i)\bbill\s?pay(?:ment)?\b`, "Bill Payment", reasonTo, reasonFor),
			credit(`(?i)\bcredited\b|\bCEFT\b.*\breceived\b|\bdeposit`, reasonAccountCredit, reasonFrom),
			debit(`(?i)\bdebited\b|\bwithdrawal\b`, reasonAccountDebit, reasonAt, reasonTo),
		},
		DefaultCurrency: "LKR",
	},
	{
		Key:     "peoples",
		Bank:    "People's Bank",
		Matches: contains("People's Bank", "Peoples Bank", "PEOPLES BANK", "PEOPLE'S BANK"),
		Amounts: []*regexp.Regexp{rsAmount, labeledAmount},
		Directions: []DirectionRule{
			debit(`(?i)\bdebited\b|\bwithdrawn\b|\bwithdrawal\b`, reasonAccountDebit, reasonAt, reasonTo),
			credit(`(?i)\bcredited\b|\bdeposited\b`, reasonAccountCredit, reasonFrom),
		},
		DefaultCurrency: "LKR",
	},
	{
		Key:     "hnb",
		Bank:    "HNB",
		Matches: func(b string) bool { return hnbRe.MatchString(b) || strings.Contains(b, "Hatton National") },
		Amounts: []*regexp.Regexp{rsAmount, labeledAmount},
		Directions: []DirectionRule{
			debit(`(?i)\b(?:POS|purchase)\b`, "Card Purchase", reasonAt),
			debit(`(?i)\bdebit(?:ed)?\b|\bwithdrawal\b`, reasonAccountDebit, reasonAt, reasonTo),
			credit(`(?i)\bcredit(?:ed)?\b`, reasonAccountCredit, reasonFrom),
		},
		DefaultCurrency: "LKR",
	},
	{
		Key:     "combank",
		Bank:    "Commercial Bank",
		Matches: contains("ComBank", "COMBANK", "Commercial Bank"),
		Amounts: []*regexp.Regexp{rsAmount, labeledAmount},
		Directions: []DirectionRule{
			debit(`(?i)\bpurchase\b`, "Card Purchase", reasonAt),
			debit(`(?i)\bwithdrawal\b|\bdebited\b`, reasonAccountDebit, reasonAt, reasonTo),
			credit(`(?i)\bcredited\b|\bdeposit\b|\btransfer\s+received\b`, reasonAccountCredit, reasonFrom),
		},
		DefaultCurrency: "LKR",
	},
	{
		Key:     "sampath",
		Bank:    "Sampath Bank",
		Matches: contains("Sampath", "SAMPATH"),
		Amounts: []*regexp.Regexp{rsAmount, labeledAmount},
		Directions: []DirectionRule{
			debit(`(?i)\bdebited\b|\bspent\b|\bwithdrawal\b`, reasonAccountDebit, reasonAt, reasonFor, reasonTo),
			credit(`(?i)\bcredited\b|\breceived\b`, reasonAccountCredit, reasonFrom),
		},
		DefaultCurrency: "LKR",
	},
	{
		Key:     "ceb",
		Bank:    "CEB",
		Matches: func(b string) bool { return cebRe.MatchString(b) || strings.Contains(strings.ToLower(b), "ceylon electricity") },
		Amounts: []*regexp.Regexp{rsAmount, labeledAmount},
		Directions: []DirectionRule{
			debit(`(?i)\bpayment\b.*\breceived\b|\bthank\s+you\s+for\s+(?:your\s+)?payment\b`, "Electricity Bill Payment"),
			debit(`(?i)\bbill\b|\bpayable\b|\bdue\b|\boutstanding\b`, "Electricity Bill"),
		},
		Category:        model.CategoryUtilities,
		DefaultCurrency: "LKR",
	},
	{
		Key:     "water",
		Bank:    "Water Board",
		Matches: contains("NWSDB", "Water Board", "WATER BOARD"),
		Amounts: []*regexp.Regexp{rsAmount, labeledAmount},
		Directions: []DirectionRule{
			debit(`(?i)\bpayment\b.*\breceived\b|\bthank\s+you\s+for\s+(?:your\s+)?payment\b`, "Water Bill Payment"),
			debit(`(?i)\bbill\b|\bpayable\b|\bdue\b|\boutstanding\b`, "Water Bill"),
		},
		Category:        model.CategoryUtilities,
		DefaultCurrency: "LKR",
	},
	{
		Key:     GenericRuleKey,
		Bank:    "Bank",
		Matches: matchesRe(genericRe),
		Amounts: []*regexp.Regexp{rsAmount, labeledAmount},
		Directions: []DirectionRule{
			debit(`(?i)\bdebited\b|\bwithdrawn\b|\bspent\b|\bpurchase\b`, reasonAccountDebit, reasonAt, reasonTo),
			credit(`(?i)\bcredited\b|\bdeposited\b|\breceived\b`, reasonAccountCredit, reasonFrom),
		},
		DefaultCurrency: "LKR",
	},
}

var (
	bocRe     = regexp.MustCompile(`\bBOC\b`)
	hnbRe     = regexp.MustCompile(`\bHNB\b`)
	cebRe     = regexp.MustCompile(`\bCEB\b`)
	genericRe = regexp.MustCompile(`(?i)\b(?:a/c|acct|account|card)\b.*\b(?:debited|credited|withdrawn|deposited)\b|\b(?:debited|credited)\b.*\b(?:a/c|acct|account|card)\b`)
)
