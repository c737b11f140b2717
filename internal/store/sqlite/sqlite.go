// Package sqlite implements store.Store on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/tallyup-dev/tallyup/internal/id"
	"github.com/tallyup-dev/tallyup/internal/model"
	"github.com/tallyup-dev/tallyup/internal/store"
)

//go:embed schema.sql
var schema string

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// DB is a SQLite-backed store.Store.
type DB struct {
	*sql.DB
	now func() time.Time
}

var _ store.Store = (*DB)(nil)

// Open opens or creates the database at dbPath and applies the schema.
func Open(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	d := &DB{DB: db, now: time.Now}
	if err := d.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Init creates tables if they don't exist.
func (db *DB) Init() error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

func (db *DB) AddTransaction(ctx context.Context, userID string, tx model.Transaction) (string, error) {
	if tx.ID == "" {
		tx.ID = id.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = db.now()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, amount, type, category, title, note, occurred_at, source_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, tx.ID, userID, tx.Amount.StringFixed(2), string(tx.Type), string(tx.Category), tx.Title, tx.Note,
		formatTime(tx.OccurredAt), nullable(tx.SourceRef), formatTime(tx.CreatedAt))
	if isUniqueViolation(err) && tx.SourceRef != "" {
		return "", fmt.Errorf("insert transaction %s: %w", tx.SourceRef, store.ErrDuplicateSourceRef)
	}
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	return tx.ID, nil
}

const selectTransaction = `
	SELECT id, amount, type, category, title, note, occurred_at, COALESCE(source_ref, ''), created_at
	FROM transactions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var tx model.Transaction
	var amount, typ, cat, occurred, created string
	if err := row.Scan(&tx.ID, &amount, &typ, &cat, &tx.Title, &tx.Note, &occurred, &tx.SourceRef, &created); err != nil {
		return tx, err
	}

	var err error
	if tx.Amount, err = decimal.NewFromString(amount); err != nil {
		return tx, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	if tx.OccurredAt, err = parseTime(occurred); err != nil {
		return tx, fmt.Errorf("parsing occurred_at %q: %w", occurred, err)
	}
	if tx.CreatedAt, err = parseTime(created); err != nil {
		return tx, fmt.Errorf("parsing created_at %q: %w", created, err)
	}
	tx.Type = model.Direction(typ)
	tx.Category = model.Category(cat)
	return tx, nil
}

func (db *DB) GetTransaction(ctx context.Context, userID, txID string) (model.Transaction, error) {
	row := db.QueryRowContext(ctx, selectTransaction+` WHERE user_id = ? AND id = ?`, userID, txID)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return tx, fmt.Errorf("transaction %s: %w", txID, store.ErrNotFound)
	}
	if err != nil {
		return tx, fmt.Errorf("query transaction: %w", err)
	}
	return tx, nil
}

func (db *DB) UpdateTransaction(ctx context.Context, userID string, tx model.Transaction) error {
	res, err := db.ExecContext(ctx, `
		UPDATE transactions
		SET amount = ?, type = ?, category = ?, title = ?, note = ?, occurred_at = ?
		WHERE user_id = ? AND id = ?
	`, tx.Amount.StringFixed(2), string(tx.Type), string(tx.Category), tx.Title, tx.Note,
		formatTime(tx.OccurredAt), userID, tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireAffected(res, "transaction "+tx.ID)
}

func (db *DB) DeleteTransaction(ctx context.Context, userID, txID string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ? AND id = ?`, userID, txID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res, "transaction "+txID)
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	return nil
}

func (db *DB) ListTransactions(ctx context.Context, userID string, f store.Filter) ([]model.Transaction, error) {
	query := selectTransaction + ` WHERE user_id = ?`
	args := []any{userID}

	if !f.From.IsZero() {
		query += " AND occurred_at >= ?"
		args = append(args, formatTime(f.From))
	}
	if !f.To.IsZero() {
		query += " AND occurred_at < ?"
		args = append(args, formatTime(f.To))
	}
	if f.Type != "" {
		query += " AND type = ?"
		args = append(args, string(f.Type))
	}
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, string(f.Category))
	}
	query += " ORDER BY occurred_at DESC, created_at DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (db *DB) HasSourceRef(ctx context.Context, userID, ref string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE user_id = ? AND source_ref = ?`, userID, ref).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query source ref: %w", err)
	}
	return n > 0, nil
}

func (db *DB) SetBudget(ctx context.Context, userID string, category model.Category, limit decimal.Decimal) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, category, amount, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, category) DO UPDATE SET amount = excluded.amount, updated_at = excluded.updated_at
	`, userID, string(category), limit.StringFixed(2), formatTime(db.now()))
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

func (db *DB) Budgets(ctx context.Context, userID string) (map[model.Category]decimal.Decimal, error) {
	rows, err := db.QueryContext(ctx, `SELECT category, amount FROM budgets WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	budgets := make(map[model.Category]decimal.Decimal)
	for rows.Next() {
		var cat, amount string
		if err := rows.Scan(&cat, &amount); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing budget %s amount %q: %w", cat, amount, err)
		}
		budgets[model.Category(cat)] = d
	}
	return budgets, rows.Err()
}

func (db *DB) DeleteBudget(ctx context.Context, userID string, category model.Category) error {
	res, err := db.ExecContext(ctx, `DELETE FROM budgets WHERE user_id = ? AND category = ?`, userID, string(category))
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireAffected(res, "budget "+string(category))
}
