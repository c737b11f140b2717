// Package bankrules recognizes bank and utility SMS alerts and pulls out the
// amount, polarity, reason and date using per-institution regex rules.
package bankrules

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/tallyup-dev/tallyup/internal/extract"
	"github.com/tallyup-dev/tallyup/internal/model"
)

// Rule is the static pattern set for one sender. Rules are never mutated
// after package initialization.
type Rule struct {
	Key  string // stable identifier, e.g. "boc"
	Bank string // display name, e.g. "Bank of Ceylon"

	// Matches decides whether the body came from this sender.
	Matches func(body string) bool

	// Amounts are tried in order. Each must capture the number in a group
	// named "amount" and may capture a "currency" group.
	Amounts []*regexp.Regexp

	// Directions are tried in order; the first whose Pattern matches
	// decides polarity and reason. No match means the alert is discarded.
	Directions []DirectionRule

	// Category, when set, is used instead of keyword classification.
	Category model.Category

	// DefaultCurrency applies when the amount pattern captured none.
	DefaultCurrency string
}

// DirectionRule is a polarity sub-pattern with its reason extractor.
type DirectionRule struct {
	Pattern  *regexp.Regexp
	Polarity model.Polarity
	// Reasons are tried in order; group 1 is the reason text.
	Reasons []*regexp.Regexp
	// DefaultReason is used when no reason pattern yields text.
	DefaultReason string
}

// Match is the structured result of a successful rule application.
type Match struct {
	RuleKey      string
	Bank         string
	Amount       decimal.Decimal
	Currency     string
	Polarity     model.Polarity
	Reason       string
	Date         time.Time
	DateFromBody bool
	Category     model.Category // empty when the rule does not fix one
}

// Title is the display label for the match, e.g. "Bank of Ceylon - SUPER MART".
func (m Match) Title() string {
	if m.Reason == "" {
		return m.Bank
	}
	return m.Bank + " - " + m.Reason
}

// Apply runs the rule's extractors over body. It returns false when the
// amount is missing or not positive, or no direction sub-pattern matches.
func (r Rule) Apply(body string, receivedAt time.Time) (Match, bool) {
	amount, currency, ok := r.amount(body)
	if !ok {
		return Match{}, false
	}

	dir, ok := r.direction(body)
	if !ok {
		return Match{}, false
	}

	m := Match{
		RuleKey:  r.Key,
		Bank:     r.Bank,
		Amount:   amount,
		Currency: currency,
		Polarity: dir.Polarity,
		Reason:   dir.reason(body),
		Date:     receivedAt,
		Category: r.Category,
	}
	if d, ok := extract.ParseDate(body, receivedAt.Location()); ok {
		m.Date = d
		m.DateFromBody = true
	}
	return m, true
}

func (r Rule) amount(body string) (decimal.Decimal, string, bool) {
	for _, re := range r.Amounts {
		sub := re.FindStringSubmatch(body)
		if sub == nil {
			continue
		}
		raw := sub[re.SubexpIndex("amount")]
		v, ok := extract.ParseAmount(raw)
		if !ok || !v.IsPositive() {
			continue
		}
		currency := r.DefaultCurrency
		if i := re.SubexpIndex("currency"); i > 0 && sub[i] != "" {
			currency = normalizeCurrency(sub[i])
		}
		return v.Round(2), currency, true
	}
	return decimal.Decimal{}, "", false
}

func (r Rule) direction(body string) (DirectionRule, bool) {
	for _, d := range r.Directions {
		if d.Pattern.MatchString(body) {
			return d, true
		}
	}
	return DirectionRule{}, false
}

func (d DirectionRule) reason(body string) string {
	for _, re := range d.Reasons {
		sub := re.FindStringSubmatch(body)
		if len(sub) < 2 {
			continue
		}
		reason := cleanReason(sub[1])
		if strings.ContainsFunc(reason, unicode.IsLetter) {
			return reason
		}
	}
	return d.DefaultReason
}

func cleanReason(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, " .,-")
}

func normalizeCurrency(s string) string {
	s = strings.ToUpper(strings.TrimRight(s, ". "))
	if s == "RS" {
		return "LKR"
	}
	return s
}
