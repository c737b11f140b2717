// Package storetest is a conformance suite run against every store.Store.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyup-dev/tallyup/internal/model"
	"github.com/tallyup-dev/tallyup/internal/store"
)

// Run exercises s. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"AddAndGet", testAddAndGet},
		{"AmountRoundTrip", testAmountRoundTrip},
		{"UserScoping", testUserScoping},
		{"SourceRefIdempotent", testSourceRefIdempotent},
		{"UpdateAndDelete", testUpdateAndDelete},
		{"ListFilterAndOrder", testListFilterAndOrder},
		{"Budgets", testBudgets},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

var ctx = context.Background()

func day(d int) time.Time {
	return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC)
}

func sample() model.Transaction {
	return model.Transaction{
		Amount:     decimal.RequireFromString("2450.50"),
		Type:       model.DirectionExpense,
		Category:   model.CategoryShopping,
		Title:      "SUPER MART",
		Note:       "Scanned receipt: SUPER MART",
		OccurredAt: day(14),
	}
}

func testAddAndGet(t *testing.T, s store.Store) {
	txID, err := s.AddTransaction(ctx, "u1", sample())
	require.NoError(t, err)
	require.NotEmpty(t, txID)

	got, err := s.GetTransaction(ctx, "u1", txID)
	require.NoError(t, err)
	assert.Equal(t, txID, got.ID)
	assert.Equal(t, "2450.50", got.Amount.StringFixed(2))
	assert.Equal(t, model.DirectionExpense, got.Type)
	assert.Equal(t, model.CategoryShopping, got.Category)
	assert.Equal(t, "SUPER MART", got.Title)
	assert.True(t, got.OccurredAt.Equal(day(14)))
	assert.False(t, got.CreatedAt.IsZero())

	_, err = s.GetTransaction(ctx, "u1", "tx_missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testAmountRoundTrip(t *testing.T, s store.Store) {
	for _, amount := range []string{"0.10", "1", "999999.99", "12.345"} {
		tx := sample()
		tx.Amount = decimal.RequireFromString(amount)
		txID, err := s.AddTransaction(ctx, "u1", tx)
		require.NoError(t, err)

		got, err := s.GetTransaction(ctx, "u1", txID)
		require.NoError(t, err)
		assert.Equal(t, tx.Amount.StringFixed(2), got.Amount.StringFixed(2), amount)
	}
}

func testUserScoping(t *testing.T, s store.Store) {
	txID, err := s.AddTransaction(ctx, "u1", sample())
	require.NoError(t, err)

	_, err = s.GetTransaction(ctx, "u2", txID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteTransaction(ctx, "u2", txID), store.ErrNotFound)

	list, err := s.ListTransactions(ctx, "u2", store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testSourceRefIdempotent(t *testing.T, s store.Store) {
	tx := sample()
	tx.SourceRef = "sms-42"
	_, err := s.AddTransaction(ctx, "u1", tx)
	require.NoError(t, err)

	has, err := s.HasSourceRef(ctx, "u1", "sms-42")
	require.NoError(t, err)
	assert.True(t, has)

	_, err = s.AddTransaction(ctx, "u1", tx)
	assert.ErrorIs(t, err, store.ErrDuplicateSourceRef)

	// Another user may import the same message.
	_, err = s.AddTransaction(ctx, "u2", tx)
	assert.NoError(t, err)

	// Receipts carry no source ref and never collide.
	_, err = s.AddTransaction(ctx, "u1", sample())
	require.NoError(t, err)
	_, err = s.AddTransaction(ctx, "u1", sample())
	require.NoError(t, err)
}

func testUpdateAndDelete(t *testing.T, s store.Store) {
	txID, err := s.AddTransaction(ctx, "u1", sample())
	require.NoError(t, err)

	tx, err := s.GetTransaction(ctx, "u1", txID)
	require.NoError(t, err)
	tx.Category = model.CategoryFood
	tx.Amount = decimal.RequireFromString("99.90")
	require.NoError(t, s.UpdateTransaction(ctx, "u1", tx))

	got, err := s.GetTransaction(ctx, "u1", txID)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryFood, got.Category)
	assert.Equal(t, "99.90", got.Amount.StringFixed(2))

	require.NoError(t, s.DeleteTransaction(ctx, "u1", txID))
	_, err = s.GetTransaction(ctx, "u1", txID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	missing := sample()
	missing.ID = "tx_missing"
	assert.ErrorIs(t, s.UpdateTransaction(ctx, "u1", missing), store.ErrNotFound)
}

func testListFilterAndOrder(t *testing.T, s store.Store) {
	add := func(d int, typ model.Direction, cat model.Category) {
		tx := sample()
		tx.OccurredAt = day(d)
		tx.Type = typ
		tx.Category = cat
		_, err := s.AddTransaction(ctx, "u1", tx)
		require.NoError(t, err)
	}
	add(3, model.DirectionExpense, model.CategoryFood)
	add(20, model.DirectionIncome, model.CategorySalary)
	add(10, model.DirectionExpense, model.CategoryShopping)

	april := sample()
	april.OccurredAt = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.AddTransaction(ctx, "u1", april)
	require.NoError(t, err)

	all, err := s.ListTransactions(ctx, "u1", store.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.True(t, all[0].OccurredAt.Equal(april.OccurredAt), "newest first")

	march, err := s.ListTransactions(ctx, "u1", store.MonthFilter(day(1)))
	require.NoError(t, err)
	require.Len(t, march, 3)
	assert.Equal(t, 20, march[0].OccurredAt.Day())
	assert.Equal(t, 10, march[1].OccurredAt.Day())
	assert.Equal(t, 3, march[2].OccurredAt.Day())

	expenses, err := s.ListTransactions(ctx, "u1", store.Filter{Type: model.DirectionExpense, Category: model.CategoryFood})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, 3, expenses[0].OccurredAt.Day())
}

func testBudgets(t *testing.T, s store.Store) {
	require.NoError(t, s.SetBudget(ctx, "u1", model.CategoryFood, decimal.RequireFromString("15000")))
	require.NoError(t, s.SetBudget(ctx, "u1", model.CategoryTransport, decimal.RequireFromString("5000")))
	require.NoError(t, s.SetBudget(ctx, "u1", model.CategoryFood, decimal.RequireFromString("20000.5")))

	b, err := s.Budgets(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, b, 2)
	assert.Equal(t, "20000.50", b[model.CategoryFood].StringFixed(2))

	other, err := s.Budgets(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, s.DeleteBudget(ctx, "u1", model.CategoryTransport))
	assert.ErrorIs(t, s.DeleteBudget(ctx, "u1", model.CategoryTransport), store.ErrNotFound)
}
