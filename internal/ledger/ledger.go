// Package ledger turns user-confirmed drafts into committed transactions.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyup-dev/tallyup/internal/model"
	"github.com/tallyup-dev/tallyup/internal/store"
)

// ErrAmountRequired is returned when a draft has no amount and the user
// supplied none.
var ErrAmountRequired = errors.New("amount required")

// Edits are user corrections applied to a draft before commit. Zero fields
// keep the draft's value.
type Edits struct {
	Amount     decimal.NullDecimal
	Direction  model.Direction
	Category   model.Category
	Title      string
	Note       string
	OccurredAt time.Time
}

// Apply returns the transaction d becomes after e. It does not validate.
func (e Edits) Apply(d model.Draft) (model.Transaction, error) {
	amount := d.Amount
	if e.Amount.Valid {
		amount = e.Amount
	}
	if !amount.Valid {
		return model.Transaction{}, ErrAmountRequired
	}

	tx := model.Transaction{
		Amount:     amount.Decimal,
		Type:       d.Direction,
		Category:   d.Category,
		Title:      d.Title,
		Note:       d.Note,
		OccurredAt: d.OccurredAt,
		SourceRef:  d.SourceRef,
	}
	if e.Direction != "" {
		tx.Type = e.Direction
	}
	if e.Category != "" {
		tx.Category = e.Category
	} else if e.Direction == model.DirectionIncome && !tx.Category.AllowedForIncome() {
		tx.Category = model.CategorySalary
	}
	if e.Title != "" {
		tx.Title = e.Title
	}
	if e.Note != "" {
		tx.Note = e.Note
	}
	if !e.OccurredAt.IsZero() {
		tx.OccurredAt = e.OccurredAt
	}
	return tx, nil
}

// Commit validates the edited draft and stores it for userID.
func Commit(ctx context.Context, s store.Store, userID string, d model.Draft, e Edits) (model.Transaction, error) {
	tx, err := e.Apply(d)
	if err != nil {
		return model.Transaction{}, err
	}
	if verrs := ValidateTransaction(tx); len(verrs) > 0 {
		return model.Transaction{}, verrs
	}

	tx.ID, err = s.AddTransaction(ctx, userID, tx)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("committing transaction: %w", err)
	}
	return tx, nil
}

// BatchResult summarizes CommitAll.
type BatchResult struct {
	Committed []model.Transaction
	// Duplicates counts drafts whose SMS was already imported.
	Duplicates int
}

// CommitAll commits drafts as-is, skipping those already imported. It stops
// at the first other failure.
func CommitAll(ctx context.Context, s store.Store, userID string, drafts []model.Draft) (BatchResult, error) {
	var res BatchResult
	for _, d := range drafts {
		if d.SourceRef != "" {
			seen, err := s.HasSourceRef(ctx, userID, d.SourceRef)
			if err != nil {
				return res, err
			}
			if seen {
				res.Duplicates++
				continue
			}
		}
		tx, err := Commit(ctx, s, userID, d, Edits{})
		if errors.Is(err, store.ErrDuplicateSourceRef) {
			res.Duplicates++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("draft %s: %w", d.SourceRef, err)
		}
		res.Committed = append(res.Committed, tx)
	}
	return res, nil
}
