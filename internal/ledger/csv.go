package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyup-dev/tallyup/internal/model"
)

// Header is the CSV header for exported transactions.
const Header = "id,date,type,category,amount,title,note,source_ref"

const (
	numFields   = 8
	dateFormat  = time.RFC3339
	colID       = 0
	colDate     = 1
	colType     = 2
	colCategory = 3
	colAmount   = 4
	colTitle    = 5
	colNote     = 6
	colSource   = 7
)

// ReadTransactions reads all transactions from a ledger CSV reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var txs []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// WriteTransactions writes txs to w, including the header.
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = tx.ID
	row[colDate] = tx.OccurredAt.Format(dateFormat)
	row[colType] = string(tx.Type)
	row[colCategory] = string(tx.Category)
	row[colAmount] = tx.Amount.StringFixed(2)
	row[colTitle] = tx.Title
	row[colNote] = tx.Note
	row[colSource] = tx.SourceRef
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return model.Transaction{
		ID:         record[colID],
		Amount:     amount,
		Type:       model.Direction(record[colType]),
		Category:   model.Category(record[colCategory]),
		Title:      record[colTitle],
		Note:       record[colNote],
		OccurredAt: date,
		SourceRef:  record[colSource],
	}, nil
}
