package pinrequest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/promohub/promohub/internal/ledger"
)

func newTestService(t *testing.T) (*Service, ledger.Store) {
	t.Helper()
	led := ledger.NewInMemory()
	ledger.EnsureUser(led, "promoter-1")
	return NewService(NewInMemory(led), nil), led
}

func TestSubmitValidatesQuantity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, pins := range []int64{0, -5, 1001} {
		if _, err := svc.Submit(ctx, "promoter-1", pins, ""); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("pins=%d: expected ErrInvalidQuantity, got %v", pins, err)
		}
	}

	for _, pins := range []int64{1, 500, 1000} {
		req, err := svc.Submit(ctx, "promoter-1", pins, "restock")
		if err != nil {
			t.Fatalf("pins=%d: %v", pins, err)
		}
		if req.Status != StatusPending {
			t.Fatalf("expected pending, got %s", req.Status)
		}
		// Clear the pending slot for the next round.
		if _, err := svc.Reject(ctx, req.ID, "admin-1", "cleanup"); err != nil {
			t.Fatalf("reject: %v", err)
		}
	}
}

func TestSubmitRejectsSecondPending(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "promoter-1", 5, ""); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := svc.Submit(ctx, "promoter-1", 3, ""); !errors.Is(err, ErrDuplicatePending) {
		t.Fatalf("expected ErrDuplicatePending, got %v", err)
	}
}

func TestConcurrentSubmitsOneWins(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const attempts = 20
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Submit(ctx, "promoter-1", 10, "race")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrDuplicatePending):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly 1 success, got %d", successes)
	}
	if duplicates != attempts-1 {
		t.Fatalf("expected %d duplicates, got %d", attempts-1, duplicates)
	}
}

func TestApproveCreditsOnce(t *testing.T) {
	svc, led := newTestService(t)
	ctx := context.Background()

	req, err := svc.Submit(ctx, "promoter-1", 5, "restock")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	approved, entry, err := svc.Approve(ctx, req.ID, "admin-1", "ok")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	if approved.ApproverID != "admin-1" || approved.DecidedAt == nil {
		t.Fatalf("decision metadata missing: %+v", approved)
	}
	if entry.Action != ledger.ActionAdminAllocation || entry.Delta != 5 {
		t.Fatalf("unexpected ledger entry: %+v", entry)
	}

	// Second approval must fail and must not credit again.
	if _, _, err := svc.Approve(ctx, req.ID, "admin-1", "again"); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
	balance, err := led.Balance(ctx, "promoter-1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 5 {
		t.Fatalf("expected balance 5 after single credit, got %d", balance)
	}
}

func TestRejectHasNoLedgerEffect(t *testing.T) {
	svc, led := newTestService(t)
	ctx := context.Background()

	req, err := svc.Submit(ctx, "promoter-1", 8, "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	rejected, err := svc.Reject(ctx, req.ID, "admin-1", "not now")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}

	balance, err := led.Balance(ctx, "promoter-1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected untouched balance, got %d", balance)
	}

	// Terminal: no further transitions.
	if _, _, err := svc.Approve(ctx, req.ID, "admin-1", ""); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
}

func TestDecisionUnknownRequest(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Approve(ctx, "missing", "admin-1", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Reject(ctx, "missing", "admin-1", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScenarioAllocationSpendRequestApprove(t *testing.T) {
	led := ledger.NewInMemory()
	ledger.EnsureUser(led, "promoter-1")
	svc := NewService(NewInMemory(led), nil)
	ctx := context.Background()

	// Admin allocates 10.
	first, err := led.Record(ctx, "promoter-1", ledger.ActionAdminAllocation, 10, "starter pack")
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if first.BalanceAfter != 10 {
		t.Fatalf("expected balance_after 10, got %d", first.BalanceAfter)
	}

	// One PIN spent onboarding a customer.
	if _, err := led.Record(ctx, "promoter-1", ledger.ActionCustomerCreation, -1, "customer onboarded"); err != nil {
		t.Fatalf("spend: %v", err)
	}

	// Promoter asks for 5 more and the admin approves.
	req, err := svc.Submit(ctx, "promoter-1", 5, "restock")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	_, entry, err := svc.Approve(ctx, req.ID, "admin-1", "ok")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if entry.BalanceAfter != 14 {
		t.Fatalf("expected balance_after 14, got %d", entry.BalanceAfter)
	}

	balance, err := led.Balance(ctx, "promoter-1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 14 {
		t.Fatalf("expected final balance 14, got %d", balance)
	}
}
