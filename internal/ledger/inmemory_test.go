package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestRecordChainsBalanceAfter(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	EnsureUser(s, "p1")

	if _, err := s.Record(ctx, "p1", ActionAdminAllocation, 10, "initial allocation"); err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if _, err := s.Record(ctx, "p1", ActionCustomerCreation, -1, "customer onboarded"); err != nil {
		t.Fatalf("spend: %v", err)
	}
	entry, err := s.Record(ctx, "p1", ActionAdminAllocation, 5, "approved request")
	if err != nil {
		t.Fatalf("second allocation: %v", err)
	}
	if entry.BalanceAfter != 14 {
		t.Fatalf("expected balance_after 14, got %d", entry.BalanceAfter)
	}

	balance, err := s.Balance(ctx, "p1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 14 {
		t.Fatalf("expected balance 14, got %d", balance)
	}

	// Replaying the history must land on the authoritative balance.
	history, err := s.List(ctx, Filter{UserID: "p1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var replayed int64
	for i := len(history) - 1; i >= 0; i-- {
		replayed += history[i].Delta
		if history[i].BalanceAfter != replayed {
			t.Fatalf("entry %s: balance_after %d, replay %d", history[i].Code, history[i].BalanceAfter, replayed)
		}
	}
	if replayed != balance {
		t.Fatalf("replay %d != balance %d", replayed, balance)
	}
}

func TestRecordRejectsOverdraw(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	EnsureUser(s, "p1")
	SeedBalance(s, "p1", 3)

	if _, err := s.Record(ctx, "p1", ActionAdminDeduction, -5, "too much"); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// Balance and log must be untouched.
	balance, err := s.Balance(ctx, "p1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 3 {
		t.Fatalf("expected balance 3, got %d", balance)
	}
	history, err := s.List(ctx, Filter{UserID: "p1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(history))
	}
}

func TestRecordUnknownUser(t *testing.T) {
	s := NewInMemory()
	if _, err := s.Record(context.Background(), "ghost", ActionAdminAllocation, 1, ""); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRecordRejectsUnknownAction(t *testing.T) {
	s := NewInMemory()
	EnsureUser(s, "p1")
	if _, err := s.Record(context.Background(), "p1", ActionType("gift"), 1, ""); err == nil {
		t.Fatal("expected error for unknown action type")
	}
}

func TestConcurrentRecordsLoseNoUpdate(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	EnsureUser(s, "p1")
	SeedBalance(s, "p1", 100)

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.Record(ctx, "p1", ActionAdminAllocation, 2, "")
			} else {
				s.Record(ctx, "p1", ActionCustomerCreation, -1, "")
			}
		}(i)
	}
	wg.Wait()

	// 25 credits of +2 and 25 debits of -1 against a seed of 100.
	balance, err := s.Balance(ctx, "p1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 100+25*2-25 {
		t.Fatalf("lost update: balance %d", balance)
	}

	// Codes must be unique under concurrency.
	history, err := s.List(ctx, Filter{UserID: "p1", Limit: 200})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	seen := make(map[string]bool, len(history))
	for _, entry := range history {
		if seen[entry.Code] {
			t.Fatalf("duplicate transaction code %s", entry.Code)
		}
		seen[entry.Code] = true
	}
}

func TestListPaging(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	EnsureUser(s, "p1")

	for i := 0; i < 5; i++ {
		if _, err := s.Record(ctx, "p1", ActionAdminAllocation, 1, ""); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	page, err := s.List(ctx, Filter{UserID: "p1", Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(page))
	}
	if page[0].BalanceAfter != 5 {
		t.Fatalf("expected newest first, got balance_after %d", page[0].BalanceAfter)
	}

	rest, err := s.List(ctx, Filter{UserID: "p1", Limit: 10, Offset: 2})
	if err != nil {
		t.Fatalf("list offset: %v", err)
	}
	if len(rest) != 3 {
		t.Fatalf("expected 3 remaining entries, got %d", len(rest))
	}
}
