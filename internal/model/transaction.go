package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the polarity of a transaction.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionIncome || d == DirectionExpense
}

// Polarity is the debit/credit reading of a bank alert.
type Polarity string

const (
	PolarityCredit Polarity = "credit"
	PolarityDebit  Polarity = "debit"
)

// Direction maps a bank polarity onto the ledger direction.
func (p Polarity) Direction() Direction {
	if p == PolarityCredit {
		return DirectionIncome
	}
	return DirectionExpense
}

// Draft is an unconfirmed transaction proposed by a pipeline run.
// Amount is invalid when the receipt pipeline could not find one.
type Draft struct {
	Amount     decimal.NullDecimal
	Direction  Direction
	Category   Category
	Title      string
	Note       string
	OccurredAt time.Time
	Confidence Confidence
	SourceRef  string // SMS message ID; empty for receipts

	// Bank and Reason are only set on SMS drafts.
	Bank   string
	Reason string
}

// HasAmount reports whether the draft carries a positive amount.
func (d Draft) HasAmount() bool {
	return d.Amount.Valid && d.Amount.Decimal.IsPositive()
}

// Transaction is a committed, user-confirmed record.
type Transaction struct {
	ID         string
	Amount     decimal.Decimal // always positive; Type carries the sign
	Type       Direction
	Category   Category
	Title      string
	Note       string
	OccurredAt time.Time
	SourceRef  string
	CreatedAt  time.Time
}

// Signed returns the amount with expenses negated.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == DirectionExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// RawMessage is one SMS as read from the device inbox.
type RawMessage struct {
	ID   string
	Body string
	Date time.Time
}
