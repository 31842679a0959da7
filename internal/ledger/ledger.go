package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInsufficientBalance occurs when a deduction would drive the
	// promoter's PIN balance below zero.
	ErrInsufficientBalance = errors.New("insufficient pin balance")

	// ErrUserNotFound indicates the promoter row backing the balance does
	// not exist.
	ErrUserNotFound = errors.New("promoter not found")
)

// ActionType classifies a balance mutation.
type ActionType string

const (
	// ActionCustomerCreation is the PIN spent when a promoter onboards a
	// customer.
	ActionCustomerCreation ActionType = "customer_creation"
	// ActionAdminAllocation is an admin-granted credit, issued directly or
	// through an approved PIN request.
	ActionAdminAllocation ActionType = "admin_allocation"
	// ActionAdminDeduction is an admin-initiated debit.
	ActionAdminDeduction ActionType = "admin_deduction"
)

// Valid reports whether the action type is one of the known variants.
func (a ActionType) Valid() bool {
	switch a {
	case ActionCustomerCreation, ActionAdminAllocation, ActionAdminDeduction:
		return true
	default:
		return false
	}
}

// Transaction is one immutable entry in a promoter's PIN ledger.
// BalanceAfter snapshots the balance once the entry is applied, so replaying
// a promoter's history always yields the current balance.
type Transaction struct {
	ID           string     `json:"id"`
	Code         string     `json:"code"`
	UserID       string     `json:"user_id"`
	Action       ActionType `json:"action_type"`
	Delta        int64      `json:"delta"`
	BalanceAfter int64      `json:"balance_after"`
	Note         string     `json:"note"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Filter narrows and pages a transaction listing. An empty UserID selects
// entries across all promoters (admin view).
type Filter struct {
	UserID string
	Limit  int
	Offset int
}

// Store is the single owner of PIN balance writes. Every balance mutation in
// the system goes through Record; nothing else touches the denormalized
// balance field or the transaction log.
type Store interface {
	// Record applies delta to the promoter's balance and appends the
	// matching transaction as one atomic unit. Fails with
	// ErrInsufficientBalance when a negative delta would overdraw.
	Record(ctx context.Context, userID string, action ActionType, delta int64, note string) (Transaction, error)

	// Balance returns the authoritative current balance.
	Balance(ctx context.Context, userID string) (int64, error)

	// List returns transactions matching the filter, newest first.
	List(ctx context.Context, f Filter) ([]Transaction, error)
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
