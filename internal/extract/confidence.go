package extract

import "github.com/tallyup-dev/tallyup/internal/model"

// Thresholds mapping raw evidence onto confidence levels. All level policy
// lives here.
const (
	categoryHighScore = 2 // score above this is high

	receiptMediumSignals = 3
	receiptHighSignals   = 5

	alertMediumSignals = 2
	alertHighSignals   = 3
)

// CategoryConfidence maps a category score: 0 is low, (0,2] medium, above 2 high.
func CategoryConfidence(score int) model.Confidence {
	switch {
	case score > categoryHighScore:
		return model.ConfidenceHigh
	case score > 0:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// Signals counts independent pieces of evidence behind a receipt draft.
type Signals struct {
	AmountKeywordHits int  // keyword lines that yielded an amount
	AmountFallback    bool // amount only found by the global scan
	CategoryScore     int
	TypeDecisive      bool
	TitleFound        bool
}

// Count returns the number of corroborating signals. Adding evidence never
// lowers it.
func (s Signals) Count() int {
	n := 0
	switch {
	case s.AmountKeywordHits > 1:
		n += 2
	case s.AmountKeywordHits == 1 || s.AmountFallback:
		n++
	}
	if s.CategoryScore > 0 {
		n++
	}
	if s.CategoryScore > categoryHighScore {
		n++
	}
	if s.TypeDecisive {
		n++
	}
	if s.TitleFound {
		n++
	}
	return n
}

// ReceiptConfidence maps a signal count onto a confidence level.
func ReceiptConfidence(signals int) model.Confidence {
	switch {
	case signals >= receiptHighSignals:
		return model.ConfidenceHigh
	case signals >= receiptMediumSignals:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// AlertConfidence maps the signal count of a bank alert match.
func AlertConfidence(signals int) model.Confidence {
	switch {
	case signals >= alertHighSignals:
		return model.ConfidenceHigh
	case signals >= alertMediumSignals:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}
