package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates a non-positive withdrawal amount.
	ErrInvalidAmount = errors.New("withdrawal amount must be positive")

	// ErrInsufficientFunds indicates the amount exceeds the promoter's
	// available balance.
	ErrInsufficientFunds = errors.New("withdrawal amount exceeds available balance")

	// ErrNotFound indicates the withdrawal request does not exist.
	ErrNotFound = errors.New("withdrawal request not found")

	// ErrAlreadyProcessed indicates the request has left the pending state.
	ErrAlreadyProcessed = errors.New("withdrawal request already processed")
)

// WithdrawalStatus tracks the withdrawal lifecycle: pending is initial,
// approved and rejected are terminal.
type WithdrawalStatus string

const (
	StatusPending  WithdrawalStatus = "pending"
	StatusApproved WithdrawalStatus = "approved"
	StatusRejected WithdrawalStatus = "rejected"
)

// Withdrawal is a promoter's request to pay out earned commissions. Only the
// approval decision lives here; funds movement is a downstream concern.
type Withdrawal struct {
	ID         string           `json:"id"`
	PromoterID string           `json:"promoter_id"`
	Amount     decimal.Decimal  `json:"amount"`
	Status     WithdrawalStatus `json:"status"`
	AdminID    string           `json:"admin_id,omitempty"`
	DecidedAt  *time.Time       `json:"decided_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// Summary is the computed wallet view for one promoter. Available balance is
// earned (credited/completed commissions) minus approved withdrawals;
// pending withdrawals are reported separately.
type Summary struct {
	TotalEarned        decimal.Decimal `json:"total_earned"`
	AffiliateEarned    decimal.Decimal `json:"affiliate_earned"`
	RepaymentEarned    decimal.Decimal `json:"repayment_earned"`
	TotalWithdrawn     decimal.Decimal `json:"total_withdrawn"`
	AvailableBalance   decimal.Decimal `json:"available_balance"`
	PendingWithdrawals decimal.Decimal `json:"pending_withdrawals"`
}

// Repository persists withdrawal requests. Approve owns the full guarded
// transition: the pending check and the re-verification of the amount
// against the promoter's available balance happen inside one atomic unit.
type Repository interface {
	Create(ctx context.Context, w Withdrawal) (Withdrawal, error)
	Get(ctx context.Context, id string) (Withdrawal, error)
	ListByPromoter(ctx context.Context, promoterID string) ([]Withdrawal, error)
	SumByStatus(ctx context.Context, promoterID string, status WithdrawalStatus) (decimal.Decimal, error)
	Approve(ctx context.Context, id, adminID string) (Withdrawal, error)
	Reject(ctx context.Context, id, adminID string) (Withdrawal, error)
}
