package commission

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeAmount indicates a commission with a negative amount.
	ErrNegativeAmount = errors.New("commission amount must not be negative")

	// ErrNotFound indicates the commission record does not exist.
	ErrNotFound = errors.New("commission not found")
)

// Kind is the derived category of a commission, fixed by the recording path.
type Kind string

const (
	// KindAffiliate is a commission from a multi-level referral event.
	KindAffiliate Kind = "affiliate"
	// KindRepayment is a commission from a customer repayment event.
	KindRepayment Kind = "repayment"
)

// Valid reports whether the kind is one of the known variants.
func (k Kind) Valid() bool {
	return k == KindAffiliate || k == KindRepayment
}

// Status tracks commission settlement. Only credited and completed records
// count toward earnings; status progression is driven by the settlement
// collaborator.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCredited  Status = "credited"
	StatusCompleted Status = "completed"
)

// Earns reports whether a record in this status counts toward totals.
func (s Status) Earns() bool {
	return s == StatusCredited || s == StatusCompleted
}

// Commission is one earned-credit event. Append-only; only the status may
// progress after recording.
type Commission struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	InitiatorID string          `json:"initiator_id"`
	RecipientID string          `json:"recipient_id"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        Kind            `json:"kind"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Repository persists commission records.
type Repository interface {
	Create(ctx context.Context, c Commission) (Commission, error)
	// ListByRecipient returns records newest first; an empty recipient
	// lists across all promoters (admin view).
	ListByRecipient(ctx context.Context, recipientID string) ([]Commission, error)
	// UpdateStatus progresses settlement state.
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// Totals is the earnings aggregate over a set of commissions.
type Totals struct {
	TotalEarned     decimal.Decimal `json:"total_earned"`
	TotalCount      int             `json:"total_count"`
	AffiliateEarned decimal.Decimal `json:"affiliate_earned"`
	AffiliateCount  int             `json:"affiliate_count"`
	RepaymentEarned decimal.Decimal `json:"repayment_earned"`
	RepaymentCount  int             `json:"repayment_count"`
}

// ComputeTotals folds commissions into earnings totals in one pass. Records
// whose status is not credited or completed are excluded entirely. Addition
// is commutative, so the result does not depend on input order.
func ComputeTotals(records []Commission) Totals {
	totals := Totals{
		TotalEarned:     decimal.Zero,
		AffiliateEarned: decimal.Zero,
		RepaymentEarned: decimal.Zero,
	}
	for _, c := range records {
		if !c.Status.Earns() {
			continue
		}
		totals.TotalEarned = totals.TotalEarned.Add(c.Amount)
		totals.TotalCount++
		switch c.Kind {
		case KindAffiliate:
			totals.AffiliateEarned = totals.AffiliateEarned.Add(c.Amount)
			totals.AffiliateCount++
		case KindRepayment:
			totals.RepaymentEarned = totals.RepaymentEarned.Add(c.Amount)
			totals.RepaymentCount++
		}
	}
	return totals
}
