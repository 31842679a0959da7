package allocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/promohub/promohub/internal/ledger"
)

// ErrInvalidAmount indicates a non-positive allocation or deduction amount.
var ErrInvalidAmount = errors.New("amount must be positive")

// Service issues admin-initiated balance mutations. It holds no state of its
// own; every effect is a ledger posting.
type Service struct {
	ledger ledger.Store
}

// NewService builds the allocation service.
func NewService(led ledger.Store) *Service {
	return &Service{ledger: led}
}

// Allocate credits the promoter with amount PINs.
func (s *Service) Allocate(ctx context.Context, promoterID string, amount int64, adminID string) (ledger.Transaction, error) {
	if amount <= 0 {
		return ledger.Transaction{}, ErrInvalidAmount
	}
	note := fmt.Sprintf("allocated by admin %s", adminID)
	return s.ledger.Record(ctx, promoterID, ledger.ActionAdminAllocation, amount, note)
}

// Deduct debits the promoter. ErrInsufficientBalance from the ledger passes
// through unchanged.
func (s *Service) Deduct(ctx context.Context, promoterID string, amount int64, adminID string) (ledger.Transaction, error) {
	if amount <= 0 {
		return ledger.Transaction{}, ErrInvalidAmount
	}
	note := fmt.Sprintf("deducted by admin %s", adminID)
	return s.ledger.Record(ctx, promoterID, ledger.ActionAdminDeduction, -amount, note)
}

// OnboardCustomer spends one PIN to register a customer under the promoter.
func (s *Service) OnboardCustomer(ctx context.Context, promoterID, customerName string) (ledger.Transaction, error) {
	note := "customer onboarded"
	if customerName != "" {
		note = fmt.Sprintf("customer %s onboarded", customerName)
	}
	return s.ledger.Record(ctx, promoterID, ledger.ActionCustomerCreation, -1, note)
}
