package bankrules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyup-dev/tallyup/internal/model"
)

var received = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestMatch_BOCPosTransaction(t *testing.T) {
	body := "Bank of Ceylon ... POS/ATM Transaction ... Rs. 1,250.00 at SUPER MART. Thank you."
	m, ok := DefaultMatcher().Match(body, received)
	require.True(t, ok)
	assert.Equal(t, "Bank of Ceylon", m.Bank)
	assert.Equal(t, "boc", m.RuleKey)
	assert.Equal(t, "1250.00", m.Amount.StringFixed(2))
	assert.Equal(t, "LKR", m.Currency)
	assert.Equal(t, model.PolarityDebit, m.Polarity)
	assert.Contains(t, m.Reason, "SUPER MART")
	assert.Equal(t, "Bank of Ceylon - SUPER MART", m.Title())
	assert.Equal(t, received, m.Date)
	assert.False(t, m.DateFromBody)
}

func TestMatch_Table(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		rule     string
		amount   string
		polarity model.Polarity
		reason   string
		category model.Category
	}{
		{
			name:     "boc credit",
			body:     "BOC: Your A/C 0012345 credited with Rs 45,000.00 from ACME PVT LTD on 12/03/2025",
			rule:     "boc",
			amount:   "45000.00",
			polarity: model.PolarityCredit,
			reason:   "ACME PVT LTD",
		},
		{
			name:     "boc billpay",
			body:     "BOC Billpay of LKR 2,300.00 to Dialog Axiata successful.",
			rule:     "boc",
			amount:   "2300.00",
			polarity: model.PolarityDebit,
			reason:   "Dialog Axiata successful",
		},
		{
			name:     "boc debit default reason",
			body:     "BOC A/C 0012345 debited Rs. 5,000.00 12:45",
			rule:     "boc",
			amount:   "5000.00",
			polarity: model.PolarityDebit,
			reason:   "Account Debit",
		},
		{
			name:     "peoples withdrawal",
			body:     "People's Bank: Rs 10,000.00 withdrawn at ATM KANDY CITY, Bal Rs 52,100.00",
			rule:     "peoples",
			amount:   "10000.00",
			polarity: model.PolarityDebit,
			reason:   "ATM KANDY CITY",
		},
		{
			name:     "hnb pos",
			body:     "HNB A/C ***4455 POS txn LKR 3,480.50 at KEELLS SUPER NUGEGODA on 02-Mar-2025",
			rule:     "hnb",
			amount:   "3480.50",
			polarity: model.PolarityDebit,
			reason:   "KEELLS SUPER NUGEGODA",
		},
		{
			name:     "hnb credit",
			body:     "HNB Credit of Rs. 1,500.00 to A/C ***4455",
			rule:     "hnb",
			amount:   "1500.00",
			polarity: model.PolarityCredit,
			reason:   "Account Credit",
		},
		{
			name:     "combank purchase",
			body:     "ComBank: Purchase at PIZZA HUT COLOMBO for LKR 4,200.00 on card ending 9911",
			rule:     "combank",
			amount:   "4200.00",
			polarity: model.PolarityDebit,
			reason:   "PIZZA HUT COLOMBO",
		},
		{
			name:     "sampath received",
			body:     "Sampath Bank: LKR 20,000.00 received from JOHN PERERA",
			rule:     "sampath",
			amount:   "20000.00",
			polarity: model.PolarityCredit,
			reason:   "JOHN PERERA",
		},
		{
			name:     "ceb bill",
			body:     "CEB: Your electricity bill for Acc 4102233 is Rs. 3,450.00. Due date 25/03/2025",
			rule:     "ceb",
			amount:   "3450.00",
			polarity: model.PolarityDebit,
			reason:   "Electricity Bill",
			category: model.CategoryUtilities,
		},
		{
			name:     "water payment",
			body:     "NWSDB: Payment of Rs. 1,120.00 for A/C 55/12/003 received. Thank you.",
			rule:     "water",
			amount:   "1120.00",
			polarity: model.PolarityDebit,
			reason:   "Water Bill Payment",
			category: model.CategoryUtilities,
		},
		{
			name:     "generic fallback",
			body:     "Your account 88812 has been debited with Rs. 750.00 at UBER TRIP",
			rule:     "generic",
			amount:   "750.00",
			polarity: model.PolarityDebit,
			reason:   "UBER TRIP",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := DefaultMatcher().Match(tt.body, received)
			require.True(t, ok)
			assert.Equal(t, tt.rule, m.RuleKey)
			assert.Equal(t, tt.amount, m.Amount.StringFixed(2))
			assert.Equal(t, tt.polarity, m.Polarity)
			assert.Equal(t, tt.reason, m.Reason)
			assert.Equal(t, tt.category, m.Category)
		})
	}
}

func TestMatch_DateFromBody(t *testing.T) {
	body := "BOC: Your A/C 0012345 credited with Rs 45,000.00 from ACME on 12/03/2025"
	m, ok := DefaultMatcher().Match(body, received)
	require.True(t, ok)
	assert.True(t, m.DateFromBody)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), m.Date)
}

func TestMatch_Rejections(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown sender", "Your parcel has been dispatched"},
		{"no amount", "BOC POS/ATM Transaction at SUPER MART"},
		{"zero amount", "BOC POS/ATM Transaction Rs. 0.00 at SUPER MART"},
		{"unclassifiable", "BOC: Rs. 500.00 balance reminder"},
		{"ceb notice", "CEB: Power interruption tomorrow, Rs. 0 charge"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := DefaultMatcher().Match(tt.body, received)
			assert.False(t, ok)
		})
	}
}

func TestMatch_FirstRuleWins(t *testing.T) {
	// Matches both BOC and HNB; BOC comes first.
	body := "BOC transfer to HNB account: A/C debited Rs. 2,000.00"
	for i := 0; i < 20; i++ {
		m, ok := DefaultMatcher().Match(body, received)
		require.True(t, ok)
		assert.Equal(t, "boc", m.RuleKey)
	}

	// An earlier rule that cannot classify the body does not fall through.
	body = "BOC notice: HNB Credit Rs. 100.00"
	r, ok := DefaultMatcher().RuleFor(body)
	require.True(t, ok)
	assert.Equal(t, "boc", r.Key)
	_, ok = DefaultMatcher().Match(body, received)
	assert.False(t, ok)

	_, ok = NewMatcher([]Rule{DefaultRules[2]}).Match(body, received)
	assert.True(t, ok, "HNB alone would accept it")
}

func TestMatch_CustomOrder(t *testing.T) {
	body := "BOC transfer to HNB account: A/C debited Rs. 2,000.00"
	reordered := []Rule{DefaultRules[2], DefaultRules[0]}
	m, ok := NewMatcher(reordered).Match(body, received)
	require.True(t, ok)
	assert.Equal(t, "hnb", m.RuleKey)
}

func TestDefaultRules_Shape(t *testing.T) {
	keys := DefaultMatcher().Rules()
	assert.Equal(t, []string{"boc", "peoples", "hnb", "combank", "sampath", "ceb", "water", "generic"}, keys)

	for _, r := range DefaultRules {
		require.NotNil(t, r.Matches, r.Key)
		require.NotEmpty(t, r.Directions, r.Key)
		for _, re := range r.Amounts {
			assert.Positive(t, re.SubexpIndex("amount"), "%s: %s", r.Key, re)
		}
	}
}
