package server

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyup-dev/tallyup/internal/budget"
	"github.com/tallyup-dev/tallyup/internal/model"
	"github.com/tallyup-dev/tallyup/internal/pipeline"
)

type draftJSON struct {
	Amount     *string `json:"amount"` // null when unresolved
	Type       string  `json:"type"`
	Category   string  `json:"category"`
	Title      string  `json:"title"`
	Note       string  `json:"note"`
	Date       string  `json:"date"`
	Confidence string  `json:"confidence"`
	SourceRef  string  `json:"source_ref,omitempty"`
	Bank       string  `json:"bank,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

func toDraftJSON(d model.Draft) draftJSON {
	out := draftJSON{
		Type:       string(d.Direction),
		Category:   string(d.Category),
		Title:      d.Title,
		Note:       d.Note,
		Date:       d.OccurredAt.Format(time.RFC3339),
		Confidence: string(d.Confidence),
		SourceRef:  d.SourceRef,
		Bank:       d.Bank,
		Reason:     d.Reason,
	}
	if d.Amount.Valid {
		s := d.Amount.Decimal.StringFixed(2)
		out.Amount = &s
	}
	return out
}

func toDraftsJSON(ds []model.Draft) []draftJSON {
	out := make([]draftJSON, 0, len(ds))
	for _, d := range ds {
		out = append(out, toDraftJSON(d))
	}
	return out
}

type transactionJSON struct {
	ID        string `json:"id"`
	Amount    string `json:"amount"`
	Type      string `json:"type"`
	Category  string `json:"category"`
	Title     string `json:"title"`
	Note      string `json:"note"`
	Date      string `json:"date"`
	SourceRef string `json:"source_ref,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

func toTransactionJSON(tx model.Transaction) transactionJSON {
	out := transactionJSON{
		ID:        tx.ID,
		Amount:    tx.Amount.StringFixed(2),
		Type:      string(tx.Type),
		Category:  string(tx.Category),
		Title:     tx.Title,
		Note:      tx.Note,
		Date:      tx.OccurredAt.Format(time.RFC3339),
		SourceRef: tx.SourceRef,
	}
	if !tx.CreatedAt.IsZero() {
		out.CreatedAt = tx.CreatedAt.Format(time.RFC3339)
	}
	return out
}

// transactionRequest is the body of POST and PUT on transactions. On PUT,
// empty fields keep their stored values.
type transactionRequest struct {
	Amount    string `json:"amount"`
	Type      string `json:"type"`
	Category  string `json:"category"`
	Title     string `json:"title"`
	Note      string `json:"note"`
	Date      string `json:"date"`
	SourceRef string `json:"source_ref"`
}

// draft converts the request into the draft a user confirmed.
func (r transactionRequest) draft(now time.Time) (model.Draft, error) {
	d := model.Draft{
		Direction:  model.Direction(r.Type),
		Category:   model.Category(r.Category),
		Title:      r.Title,
		Note:       r.Note,
		OccurredAt: now,
		SourceRef:  r.SourceRef,
	}
	if r.Amount != "" {
		amount, err := decimal.NewFromString(r.Amount)
		if err != nil {
			return d, fmt.Errorf("invalid amount %q", r.Amount)
		}
		d.Amount = decimal.NewNullDecimal(amount)
	}
	if r.Date != "" {
		t, err := time.Parse(time.RFC3339, r.Date)
		if err != nil {
			return d, fmt.Errorf("invalid date %q", r.Date)
		}
		d.OccurredAt = t
	}
	return d, nil
}

// apply overlays the non-empty request fields on tx.
func (r transactionRequest) apply(tx model.Transaction) (model.Transaction, error) {
	if r.Amount != "" {
		amount, err := decimal.NewFromString(r.Amount)
		if err != nil {
			return tx, fmt.Errorf("invalid amount %q", r.Amount)
		}
		tx.Amount = amount
	}
	if r.Date != "" {
		t, err := time.Parse(time.RFC3339, r.Date)
		if err != nil {
			return tx, fmt.Errorf("invalid date %q", r.Date)
		}
		tx.OccurredAt = t
	}
	if r.Type != "" {
		tx.Type = model.Direction(r.Type)
	}
	if r.Category != "" {
		tx.Category = model.Category(r.Category)
	}
	if r.Title != "" {
		tx.Title = r.Title
	}
	if r.Note != "" {
		tx.Note = r.Note
	}
	return tx, nil
}

type smsMessageJSON struct {
	ID   string `json:"id"`
	Body string `json:"body"`
	Date string `json:"date"` // RFC 3339; empty means now
}

type smsImportRequest struct {
	Messages []smsMessageJSON `json:"messages"`
	Save     bool             `json:"save"`
}

type smsImportResponse struct {
	Drafts     []draftJSON       `json:"drafts"`
	Stats      pipeline.SMSStats `json:"stats"`
	Committed  []transactionJSON `json:"committed,omitempty"`
	Duplicates int               `json:"duplicates,omitempty"`
}

type budgetJSON struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type reportLineJSON struct {
	Category  string  `json:"category"`
	Spent     string  `json:"spent"`
	Limit     *string `json:"limit"`
	Remaining *string `json:"remaining"`
	Over      bool    `json:"over"`
}

type reportJSON struct {
	Month    string           `json:"month"`
	Lines    []reportLineJSON `json:"lines"`
	Income   string           `json:"income"`
	Expenses string           `json:"expenses"`
	Net      string           `json:"net"`
}

func toReportJSON(r budget.Report) reportJSON {
	out := reportJSON{
		Month:    r.Month.Format(monthLayout),
		Lines:    []reportLineJSON{},
		Income:   r.Income.StringFixed(2),
		Expenses: r.Expenses.StringFixed(2),
		Net:      r.Net.StringFixed(2),
	}
	for _, l := range r.Lines {
		line := reportLineJSON{
			Category: string(l.Category),
			Spent:    l.Spent.StringFixed(2),
			Over:     l.Over,
		}
		if l.HasLimit {
			limit, rem := l.Limit.StringFixed(2), l.Remaining.StringFixed(2)
			line.Limit, line.Remaining = &limit, &rem
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}
