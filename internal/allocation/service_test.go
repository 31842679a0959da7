package allocation

import (
	"context"
	"errors"
	"testing"

	"github.com/promohub/promohub/internal/ledger"
)

func newService(t *testing.T) (*Service, ledger.Store) {
	t.Helper()
	led := ledger.NewInMemory()
	ledger.EnsureUser(led, "promoter-1")
	return NewService(led), led
}

func TestAllocate(t *testing.T) {
	svc, led := newService(t)
	ctx := context.Background()

	entry, err := svc.Allocate(ctx, "promoter-1", 10, "admin-1")
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if entry.Action != ledger.ActionAdminAllocation || entry.Delta != 10 || entry.BalanceAfter != 10 {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	balance, _ := led.Balance(ctx, "promoter-1")
	if balance != 10 {
		t.Fatalf("expected balance 10, got %d", balance)
	}
}

func TestAllocateRejectsNonPositive(t *testing.T) {
	svc, _ := newService(t)
	for _, amount := range []int64{0, -3} {
		if _, err := svc.Allocate(context.Background(), "promoter-1", amount, "admin-1"); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount=%d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestDeductSurfacesInsufficientBalance(t *testing.T) {
	svc, led := newService(t)
	ctx := context.Background()
	ledger.SeedBalance(led, "promoter-1", 4)

	if _, err := svc.Deduct(ctx, "promoter-1", 5, "admin-1"); !errors.Is(err, ledger.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	balance, _ := led.Balance(ctx, "promoter-1")
	if balance != 4 {
		t.Fatalf("failed deduction must leave balance untouched, got %d", balance)
	}
	history, _ := led.List(ctx, ledger.Filter{UserID: "promoter-1"})
	if len(history) != 0 {
		t.Fatalf("failed deduction must not log a transaction, got %d", len(history))
	}
}

func TestDeduct(t *testing.T) {
	svc, led := newService(t)
	ctx := context.Background()
	ledger.SeedBalance(led, "promoter-1", 10)

	entry, err := svc.Deduct(ctx, "promoter-1", 3, "admin-1")
	if err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if entry.Action != ledger.ActionAdminDeduction || entry.Delta != -3 || entry.BalanceAfter != 7 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestOnboardCustomerSpendsOnePin(t *testing.T) {
	svc, led := newService(t)
	ctx := context.Background()
	ledger.SeedBalance(led, "promoter-1", 2)

	entry, err := svc.OnboardCustomer(ctx, "promoter-1", "Marie")
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if entry.Action != ledger.ActionCustomerCreation || entry.Delta != -1 || entry.BalanceAfter != 1 {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	// Without balance the onboarding must fail.
	ledger.SeedBalance(led, "promoter-1", 0)
	if _, err := svc.OnboardCustomer(ctx, "promoter-1", "Paul"); !errors.Is(err, ledger.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}
