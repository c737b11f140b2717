// Package pipeline orchestrates the extraction steps for scanned receipts
// and batches of SMS alerts.
package pipeline

import (
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tallyup-dev/tallyup/internal/extract"
	"github.com/tallyup-dev/tallyup/internal/model"
)

const (
	receiptNotePrefix = "Scanned receipt: "
	smsNotePrefix     = "Imported from SMS: "

	defaultNoteMaxLen = 200
)

// ReceiptPipeline turns OCR text into a single draft for user review.
type ReceiptPipeline struct {
	extractor  *extract.Extractor
	noteMaxLen int
	now        func() time.Time
	log        zerolog.Logger
}

// ReceiptOption configures a ReceiptPipeline.
type ReceiptOption func(*ReceiptPipeline)

// WithReceiptLogger sets the logger.
func WithReceiptLogger(l zerolog.Logger) ReceiptOption {
	return func(p *ReceiptPipeline) { p.log = l }
}

// WithClock overrides the capture clock.
func WithClock(now func() time.Time) ReceiptOption {
	return func(p *ReceiptPipeline) { p.now = now }
}

// WithNoteMaxLen caps how much OCR text is embedded in the note.
func WithNoteMaxLen(n int) ReceiptOption {
	return func(p *ReceiptPipeline) {
		if n > 0 {
			p.noteMaxLen = n
		}
	}
}

// NewReceiptPipeline creates a ReceiptPipeline.
func NewReceiptPipeline(ex *extract.Extractor, opts ...ReceiptOption) *ReceiptPipeline {
	p := &ReceiptPipeline{
		extractor:  ex,
		noteMaxLen: defaultNoteMaxLen,
		now:        time.Now,
		log:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run analyzes ocrText. It always returns a draft; fields that could not be
// extracted are left unresolved (Amount.Valid false, fallback title, low
// confidence) for the user to correct.
func (p *ReceiptPipeline) Run(ocrText string) model.Draft {
	captured := p.now()

	typ := extract.ClassifyType(ocrText)
	amount, amountFound := p.extractor.Amount(ocrText, extract.HintsFor(typ.Direction))
	cat := extract.ClassifyCategory(ocrText, typ.Direction)
	title, titleFound := p.extractor.Title(ocrText)

	signals := extract.Signals{
		TypeDecisive: typ.Decisive(),
		TitleFound:   titleFound,
	}
	if !cat.Overridden {
		signals.CategoryScore = cat.Score
	}

	draft := model.Draft{
		Direction:  typ.Direction,
		Category:   cat.Category,
		Title:      title,
		Note:       receiptNotePrefix + truncate(ocrText, p.noteMaxLen),
		OccurredAt: captured,
	}
	if amountFound {
		draft.Amount = decimal.NewNullDecimal(amount.Value.Round(2))
		signals.AmountKeywordHits = amount.KeywordHits
		signals.AmountFallback = amount.Strategy == extract.StrategyFallback
	}
	if d, ok := extract.ParseDate(ocrText, captured.Location()); ok && !d.After(captured) {
		draft.OccurredAt = d
	}
	draft.Confidence = extract.ReceiptConfidence(signals.Count())

	p.log.Debug().
		Str("direction", string(draft.Direction)).
		Str("category", string(draft.Category)).
		Bool("amount_found", amountFound).
		Int("signals", signals.Count()).
		Msg("receipt analyzed")

	return draft
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "…"
}
