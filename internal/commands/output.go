package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/tallyup-dev/tallyup/internal/model"
)

type draftView struct {
	Amount     *string `json:"amount"`
	Type       string  `json:"type"`
	Category   string  `json:"category"`
	Title      string  `json:"title"`
	Date       string  `json:"date"`
	Confidence string  `json:"confidence"`
	SourceRef  string  `json:"source_ref,omitempty"`
	Note       string  `json:"note"`
}

func newDraftView(d model.Draft) draftView {
	v := draftView{
		Type:       string(d.Direction),
		Category:   string(d.Category),
		Title:      d.Title,
		Date:       d.OccurredAt.Format(time.RFC3339),
		Confidence: string(d.Confidence),
		SourceRef:  d.SourceRef,
		Note:       d.Note,
	}
	if d.Amount.Valid {
		s := d.Amount.Decimal.StringFixed(2)
		v.Amount = &s
	}
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func amountText(d model.Draft) string {
	if !d.Amount.Valid {
		return "?"
	}
	return d.Amount.Decimal.StringFixed(2)
}

func printDraft(w io.Writer, d model.Draft) {
	fmt.Fprintf(w, "Amount:     %s\n", amountText(d))
	fmt.Fprintf(w, "Type:       %s\n", d.Direction)
	fmt.Fprintf(w, "Category:   %s\n", d.Category)
	fmt.Fprintf(w, "Title:      %s\n", d.Title)
	fmt.Fprintf(w, "Date:       %s\n", d.OccurredAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Confidence: %s\n", d.Confidence)
}

func printDraftRow(w io.Writer, d model.Draft) {
	fmt.Fprintf(w, "%-10s %-7s %12s  %-13s %-6s %s\n",
		d.SourceRef, d.Direction, amountText(d), d.Category, d.Confidence, d.Title)
}

func printTransactionRow(w io.Writer, tx model.Transaction) {
	fmt.Fprintf(w, "%s  %s  %-7s %12s  %-13s %s\n",
		tx.ID, tx.OccurredAt.Format("2006-01-02"), tx.Type, tx.Amount.StringFixed(2), tx.Category, tx.Title)
}
