package wallet

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/promohub/promohub/internal/commission"
	"github.com/promohub/promohub/internal/notification"
)

// Service derives wallet balances from commission earnings and gates the
// withdrawal workflow. It never touches the PIN ledger.
type Service struct {
	repo        Repository
	commissions *commission.Service
	notifier    notification.Notifier
}

// NewService builds a wallet service.
func NewService(repo Repository, commissions *commission.Service, notifier notification.Notifier) *Service {
	return &Service{repo: repo, commissions: commissions, notifier: notifier}
}

// Summary computes the promoter's wallet view.
func (s *Service) Summary(ctx context.Context, promoterID string) (Summary, error) {
	history, err := s.commissions.History(ctx, promoterID)
	if err != nil {
		return Summary{}, err
	}
	totals := commission.ComputeTotals(history)

	withdrawn, err := s.repo.SumByStatus(ctx, promoterID, StatusApproved)
	if err != nil {
		return Summary{}, err
	}
	pending, err := s.repo.SumByStatus(ctx, promoterID, StatusPending)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		TotalEarned:        totals.TotalEarned,
		AffiliateEarned:    totals.AffiliateEarned,
		RepaymentEarned:    totals.RepaymentEarned,
		TotalWithdrawn:     withdrawn,
		AvailableBalance:   totals.TotalEarned.Sub(withdrawn),
		PendingWithdrawals: pending,
	}, nil
}

// SubmitWithdrawal creates a pending request. The amount is checked against
// the available balance at submission; approval re-verifies under its own
// transaction, so a stale read here cannot over-withdraw.
func (s *Service) SubmitWithdrawal(ctx context.Context, promoterID string, amount decimal.Decimal) (Withdrawal, error) {
	if !amount.IsPositive() {
		return Withdrawal{}, ErrInvalidAmount
	}

	summary, err := s.Summary(ctx, promoterID)
	if err != nil {
		return Withdrawal{}, err
	}
	if amount.GreaterThan(summary.AvailableBalance) {
		return Withdrawal{}, ErrInsufficientFunds
	}

	return s.repo.Create(ctx, Withdrawal{PromoterID: promoterID, Amount: amount})
}

// ApproveWithdrawal closes a pending request as approved. The repository
// re-verifies the amount against the available balance atomically.
func (s *Service) ApproveWithdrawal(ctx context.Context, requestID, adminID string) (Withdrawal, error) {
	w, err := s.repo.Approve(ctx, requestID, adminID)
	if err != nil {
		return Withdrawal{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindWithdrawalApproved,
			Destination: w.PromoterID,
			Body:        fmt.Sprintf("Your withdrawal of %s was approved.", w.Amount.StringFixed(2)),
		})
	}
	return w, nil
}

// RejectWithdrawal closes a pending request as rejected.
func (s *Service) RejectWithdrawal(ctx context.Context, requestID, adminID string) (Withdrawal, error) {
	w, err := s.repo.Reject(ctx, requestID, adminID)
	if err != nil {
		return Withdrawal{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindWithdrawalRejected,
			Destination: w.PromoterID,
			Body:        fmt.Sprintf("Your withdrawal of %s was rejected.", w.Amount.StringFixed(2)),
		})
	}
	return w, nil
}

// ListWithdrawals returns the promoter's requests newest first.
func (s *Service) ListWithdrawals(ctx context.Context, promoterID string) ([]Withdrawal, error) {
	return s.repo.ListByPromoter(ctx, promoterID)
}
