package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tallyup-dev/tallyup/internal/model"
)

// ValidationError describes a single rule violation.
type ValidationError struct {
	Rule        string
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Rule, e.Field, e.Description)
}

// ValidationErrors is every violation found on one transaction.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

var hundred = decimal.NewFromInt(100)

// ValidateTransaction checks tx before it is committed.
func ValidateTransaction(tx model.Transaction) ValidationErrors {
	var errs ValidationErrors

	if !tx.Amount.IsPositive() {
		errs = append(errs, ValidationError{
			Rule:        "positive_amount",
			Field:       "amount",
			Description: fmt.Sprintf("amount %s must be greater than zero", tx.Amount),
		})
	}
	if scaled := tx.Amount.Mul(hundred); !scaled.Equal(scaled.Floor()) {
		errs = append(errs, ValidationError{
			Rule:        "two_decimals",
			Field:       "amount",
			Description: fmt.Sprintf("amount %s has more than 2 decimal places", tx.Amount),
		})
	}
	if !tx.Type.Valid() {
		errs = append(errs, ValidationError{
			Rule:        "known_type",
			Field:       "type",
			Description: fmt.Sprintf("unknown type %q", tx.Type),
		})
	}
	if !tx.Category.Valid() {
		errs = append(errs, ValidationError{
			Rule:        "known_category",
			Field:       "category",
			Description: fmt.Sprintf("unknown category %q", tx.Category),
		})
	} else if tx.Type == model.DirectionIncome && !tx.Category.AllowedForIncome() {
		errs = append(errs, ValidationError{
			Rule:        "income_category",
			Field:       "category",
			Description: fmt.Sprintf("category %q cannot label income", tx.Category),
		})
	}
	if strings.TrimSpace(tx.Title) == "" {
		errs = append(errs, ValidationError{
			Rule:        "title_required",
			Field:       "title",
			Description: "title must not be empty",
		})
	}
	if tx.OccurredAt.IsZero() {
		errs = append(errs, ValidationError{
			Rule:        "date_required",
			Field:       "date",
			Description: "date must be set",
		})
	}
	return errs
}
