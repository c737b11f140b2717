// Package memory is an in-process store.Store for tests and dry runs.
// Data is lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyup-dev/tallyup/internal/id"
	"github.com/tallyup-dev/tallyup/internal/model"
	"github.com/tallyup-dev/tallyup/internal/store"
)

type userData struct {
	txs     map[string]model.Transaction
	refs    map[string]string // source ref -> transaction ID
	budgets map[model.Category]decimal.Decimal
}

// Store is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	users map[string]*userData
	now   func() time.Time
}

var _ store.Store = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{users: make(map[string]*userData), now: time.Now}
}

// user returns the user's data, creating it. Callers hold the write lock.
func (s *Store) user(userID string) *userData {
	u, ok := s.users[userID]
	if !ok {
		u = &userData{
			txs:     make(map[string]model.Transaction),
			refs:    make(map[string]string),
			budgets: make(map[model.Category]decimal.Decimal),
		}
		s.users[userID] = u
	}
	return u
}

func (s *Store) AddTransaction(_ context.Context, userID string, tx model.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	if tx.SourceRef != "" {
		if _, dup := u.refs[tx.SourceRef]; dup {
			return "", fmt.Errorf("insert transaction %s: %w", tx.SourceRef, store.ErrDuplicateSourceRef)
		}
	}
	if tx.ID == "" {
		tx.ID = id.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.now()
	}
	tx.Amount = tx.Amount.Round(2)

	u.txs[tx.ID] = tx
	if tx.SourceRef != "" {
		u.refs[tx.SourceRef] = tx.ID
	}
	return tx.ID, nil
}

func (s *Store) GetTransaction(_ context.Context, userID, txID string) (model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.users[userID]; ok {
		if tx, ok := u.txs[txID]; ok {
			return tx, nil
		}
	}
	return model.Transaction{}, fmt.Errorf("transaction %s: %w", txID, store.ErrNotFound)
}

func (s *Store) UpdateTransaction(_ context.Context, userID string, tx model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("transaction %s: %w", tx.ID, store.ErrNotFound)
	}
	old, ok := u.txs[tx.ID]
	if !ok {
		return fmt.Errorf("transaction %s: %w", tx.ID, store.ErrNotFound)
	}

	old.Amount = tx.Amount.Round(2)
	old.Type = tx.Type
	old.Category = tx.Category
	old.Title = tx.Title
	old.Note = tx.Note
	old.OccurredAt = tx.OccurredAt
	u.txs[tx.ID] = old
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, txID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("transaction %s: %w", txID, store.ErrNotFound)
	}
	tx, ok := u.txs[txID]
	if !ok {
		return fmt.Errorf("transaction %s: %w", txID, store.ErrNotFound)
	}
	delete(u.txs, txID)
	if tx.SourceRef != "" {
		delete(u.refs, tx.SourceRef)
	}
	return nil
}

func (s *Store) ListTransactions(_ context.Context, userID string, f store.Filter) ([]model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	var out []model.Transaction
	for _, tx := range u.txs {
		if f.Match(tx) {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.After(out[j].OccurredAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) HasSourceRef(_ context.Context, userID, ref string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return false, nil
	}
	_, found := u.refs[ref]
	return found, nil
}

func (s *Store) SetBudget(_ context.Context, userID string, category model.Category, limit decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user(userID).budgets[category] = limit.Round(2)
	return nil
}

func (s *Store) Budgets(_ context.Context, userID string) (map[model.Category]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[model.Category]decimal.Decimal)
	if u, ok := s.users[userID]; ok {
		for c, v := range u.budgets {
			out[c] = v
		}
	}
	return out, nil
}

func (s *Store) DeleteBudget(_ context.Context, userID string, category model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("budget %s: %w", category, store.ErrNotFound)
	}
	if _, ok := u.budgets[category]; !ok {
		return fmt.Errorf("budget %s: %w", category, store.ErrNotFound)
	}
	delete(u.budgets, category)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
