package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type inMemoryStore struct {
	mu       sync.Mutex
	balances map[string]int64
	entries  []Transaction
	codeSeq  int64
}

// NewInMemory creates a concurrency-safe in-memory ledger store that mirrors
// the Postgres semantics. Useful for unit tests and for running without a
// database in development.
func NewInMemory() Store {
	return &inMemoryStore{balances: make(map[string]int64)}
}

func (s *inMemoryStore) Record(_ context.Context, userID string, action ActionType, delta int64, note string) (Transaction, error) {
	if !action.Valid() {
		return Transaction{}, fmt.Errorf("invalid action type %q", action)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.balances[userID]
	if !ok {
		return Transaction{}, ErrUserNotFound
	}

	balanceAfter := current + delta
	if balanceAfter < 0 {
		return Transaction{}, ErrInsufficientBalance
	}

	s.codeSeq++
	entry := Transaction{
		ID:           uuid.NewString(),
		Code:         fmt.Sprintf("PIN-%08d", s.codeSeq),
		UserID:       userID,
		Action:       action,
		Delta:        delta,
		BalanceAfter: balanceAfter,
		Note:         note,
		CreatedAt:    time.Now().UTC(),
	}

	s.balances[userID] = balanceAfter
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *inMemoryStore) Balance(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.balances[userID]
	if !ok {
		return 0, ErrUserNotFound
	}
	return balance, nil
}

func (s *inMemoryStore) List(_ context.Context, f Filter) ([]Transaction, error) {
	limit := clampLimit(f.Limit)

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []Transaction
	for _, entry := range s.entries {
		if f.UserID != "" && entry.UserID != f.UserID {
			continue
		}
		matched = append(matched, entry)
	}

	// Newest first; the code sequence breaks ties for entries created in
	// the same instant.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].Code > matched[j].Code
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if f.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[f.Offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}
