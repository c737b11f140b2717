// Package budget compares monthly spending against per-category limits.
package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyup-dev/tallyup/internal/model"
)

// Line is one category's position for the month.
type Line struct {
	Category  model.Category
	Spent     decimal.Decimal
	Limit     decimal.Decimal // zero when no budget is set
	Remaining decimal.Decimal
	HasLimit  bool
	Over      bool
}

// Report is a month's spending summary.
type Report struct {
	Month    time.Time // first day of the month
	Lines    []Line    // vocabulary order; categories with neither spend nor limit are omitted
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// MonthStart returns midnight on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Build summarizes txs that fall in month against budgets. Transactions
// outside the month are ignored.
func Build(txs []model.Transaction, budgets map[model.Category]decimal.Decimal, month time.Time) Report {
	start := MonthStart(month)
	end := start.AddDate(0, 1, 0)

	spent := make(map[model.Category]decimal.Decimal)
	r := Report{Month: start}
	for _, tx := range txs {
		if tx.OccurredAt.Before(start) || !tx.OccurredAt.Before(end) {
			continue
		}
		if tx.Type == model.DirectionIncome {
			r.Income = r.Income.Add(tx.Amount)
			continue
		}
		r.Expenses = r.Expenses.Add(tx.Amount)
		spent[tx.Category] = spent[tx.Category].Add(tx.Amount)
	}
	r.Net = r.Income.Sub(r.Expenses)

	for _, c := range model.Categories {
		s, hasSpend := spent[c]
		limit, hasLimit := budgets[c]
		if !hasSpend && !hasLimit {
			continue
		}
		line := Line{Category: c, Spent: s, HasLimit: hasLimit}
		if hasLimit {
			line.Limit = limit
			line.Remaining = limit.Sub(s)
			line.Over = s.GreaterThan(limit)
		}
		r.Lines = append(r.Lines, line)
	}
	return r
}

// OverBudget returns the lines whose spend exceeds their limit.
func (r Report) OverBudget() []Line {
	var out []Line
	for _, l := range r.Lines {
		if l.Over {
			out = append(out, l)
		}
	}
	return out
}
