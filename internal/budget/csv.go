package budget

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/tallyup-dev/tallyup/internal/model"
)

const (
	numFields   = 2
	colCategory = 0
	colAmount   = 1
)

// Limit is a monthly spending cap for one category.
type Limit struct {
	Category model.Category
	Amount   decimal.Decimal
}

// ReadLimits reads a category,amount CSV with a header row.
func ReadLimits(r io.Reader) ([]Limit, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading budgets CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var limits []Limit
	for i, rec := range records[1:] {
		l, err := UnmarshalLimit(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		limits = append(limits, l)
	}
	return limits, nil
}

// WriteLimits writes limits with a header row.
func WriteLimits(w io.Writer, limits []Limit) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"category", "amount"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, l := range limits {
		if err := cw.Write(MarshalLimit(l)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalLimit converts a Limit to a CSV row.
func MarshalLimit(l Limit) []string {
	row := make([]string, numFields)
	row[colCategory] = string(l.Category)
	row[colAmount] = l.Amount.StringFixed(2)
	return row
}

// UnmarshalLimit converts a CSV row to a Limit.
func UnmarshalLimit(record []string) (Limit, error) {
	if len(record) != numFields {
		return Limit{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	cat, ok := model.ParseCategory(record[colCategory])
	if !ok {
		return Limit{}, fmt.Errorf("unknown category %q", record[colCategory])
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Limit{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	if !amount.IsPositive() {
		return Limit{}, fmt.Errorf("amount %s for %s must be positive", amount, cat)
	}
	return Limit{Category: cat, Amount: amount}, nil
}

// SortedLimits returns budgets as Limits in vocabulary order.
func SortedLimits(budgets map[model.Category]decimal.Decimal) []Limit {
	var out []Limit
	for _, c := range model.Categories {
		if v, ok := budgets[c]; ok {
			out = append(out, Limit{Category: c, Amount: v})
		}
	}
	return out
}
