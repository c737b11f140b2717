// Package store defines the persistence boundary for committed transactions
// and budgets. Every call is scoped to one user.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyup-dev/tallyup/internal/model"
)

var (
	// ErrNotFound is returned when a transaction or budget does not exist
	// for the user.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateSourceRef is returned when a user already has a transaction
	// imported from the same SMS.
	ErrDuplicateSourceRef = errors.New("duplicate source ref")
)

// Filter narrows ListTransactions. Zero fields match everything.
type Filter struct {
	From     time.Time // inclusive
	To       time.Time // exclusive
	Type     model.Direction
	Category model.Category
}

// MonthFilter returns a Filter covering the calendar month containing t.
func MonthFilter(t time.Time) Filter {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Filter{From: from, To: from.AddDate(0, 1, 0)}
}

// Match reports whether tx passes the filter.
func (f Filter) Match(tx model.Transaction) bool {
	if !f.From.IsZero() && tx.OccurredAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !tx.OccurredAt.Before(f.To) {
		return false
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.Category != "" && tx.Category != f.Category {
		return false
	}
	return true
}

// Store persists transactions and budgets.
type Store interface {
	// AddTransaction stores tx and returns its ID, generating one when
	// tx.ID is empty.
	AddTransaction(ctx context.Context, userID string, tx model.Transaction) (string, error)
	GetTransaction(ctx context.Context, userID, id string) (model.Transaction, error)
	UpdateTransaction(ctx context.Context, userID string, tx model.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
	// ListTransactions returns matching transactions, newest first.
	ListTransactions(ctx context.Context, userID string, f Filter) ([]model.Transaction, error)
	HasSourceRef(ctx context.Context, userID, ref string) (bool, error)

	SetBudget(ctx context.Context, userID string, category model.Category, limit decimal.Decimal) error
	Budgets(ctx context.Context, userID string) (map[model.Category]decimal.Decimal, error)
	DeleteBudget(ctx context.Context, userID string, category model.Category) error

	Close() error
}
