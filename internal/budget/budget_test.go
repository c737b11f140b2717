package budget

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyup-dev/tallyup/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tx(day int, typ model.Direction, cat model.Category, amount string) model.Transaction {
	return model.Transaction{
		Amount:     dec(amount),
		Type:       typ,
		Category:   cat,
		Title:      "t",
		OccurredAt: time.Date(2025, 3, day, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuild(t *testing.T) {
	txs := []model.Transaction{
		tx(1, model.DirectionExpense, model.CategoryFood, "1200.00"),
		tx(5, model.DirectionExpense, model.CategoryFood, "900.50"),
		tx(9, model.DirectionExpense, model.CategoryTransport, "3000"),
		tx(25, model.DirectionIncome, model.CategorySalary, "85000"),
		{Amount: dec("999"), Type: model.DirectionExpense, Category: model.CategoryFood,
			OccurredAt: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
	}
	budgets := map[model.Category]decimal.Decimal{
		model.CategoryFood:      dec("2000"),
		model.CategoryTransport: dec("5000"),
		model.CategoryHealth:    dec("1000"),
	}

	r := Build(txs, budgets, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), r.Month)
	assert.Equal(t, "85000.00", r.Income.StringFixed(2))
	assert.Equal(t, "5100.50", r.Expenses.StringFixed(2))
	assert.Equal(t, "79899.50", r.Net.StringFixed(2))

	require.Len(t, r.Lines, 3)
	assert.Equal(t, model.CategoryFood, r.Lines[0].Category)
	assert.Equal(t, "2100.50", r.Lines[0].Spent.StringFixed(2))
	assert.Equal(t, "-100.50", r.Lines[0].Remaining.StringFixed(2))
	assert.True(t, r.Lines[0].Over)

	assert.Equal(t, model.CategoryTransport, r.Lines[1].Category)
	assert.False(t, r.Lines[1].Over)
	assert.Equal(t, "2000.00", r.Lines[1].Remaining.StringFixed(2))

	assert.Equal(t, model.CategoryHealth, r.Lines[2].Category)
	assert.True(t, r.Lines[2].Spent.IsZero())

	over := r.OverBudget()
	require.Len(t, over, 1)
	assert.Equal(t, model.CategoryFood, over[0].Category)
}

func TestBuild_SpendWithoutLimit(t *testing.T) {
	r := Build([]model.Transaction{tx(2, model.DirectionExpense, model.CategoryGift, "500")}, nil,
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, r.Lines, 1)
	assert.False(t, r.Lines[0].HasLimit)
	assert.False(t, r.Lines[0].Over)
}

func TestBuild_Empty(t *testing.T) {
	r := Build(nil, nil, time.Now())
	assert.Empty(t, r.Lines)
	assert.True(t, r.Net.IsZero())
}

func TestLimitsCSV(t *testing.T) {
	limits := []Limit{
		{Category: model.CategoryFood, Amount: dec("15000")},
		{Category: model.CategoryUtilities, Amount: dec("8000.5")},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteLimits(&buf, limits))
	assert.Equal(t, "category,amount\nfood,15000.00\nutilities,8000.50\n", buf.String())

	got, err := ReadLimits(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.CategoryUtilities, got[1].Category)
	assert.Equal(t, "8000.50", got[1].Amount.StringFixed(2))
}

func TestReadLimits_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"unknown category", "category,amount\ngroceries,100\n", "unknown category"},
		{"bad amount", "category,amount\nfood,lots\n", "parsing amount"},
		{"non-positive", "category,amount\nfood,0\n", "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLimits(strings.NewReader(tt.data))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestSortedLimits(t *testing.T) {
	got := SortedLimits(map[model.Category]decimal.Decimal{
		model.CategoryGift: dec("1"),
		model.CategoryFood: dec("2"),
	})
	require.Len(t, got, 2)
	assert.Equal(t, model.CategoryFood, got[0].Category)
	assert.Equal(t, model.CategoryGift, got[1].Category)
}
