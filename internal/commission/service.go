package commission

import (
	"context"
	"fmt"
)

// Service records commission events and serves earnings history.
type Service struct {
	repo Repository
}

// NewService builds a commission service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends a commission event. The Kind is fixed by the recording
// path (referral vs repayment), not chosen by the caller's role.
func (s *Service) Record(ctx context.Context, c Commission) (Commission, error) {
	if c.Amount.IsNegative() {
		return Commission{}, ErrNegativeAmount
	}
	if !c.Kind.Valid() {
		return Commission{}, fmt.Errorf("invalid commission kind %q", c.Kind)
	}
	switch c.Status {
	case StatusPending, StatusCredited, StatusCompleted:
	case "":
		c.Status = StatusPending
	default:
		return Commission{}, fmt.Errorf("invalid commission status %q", c.Status)
	}
	return s.repo.Create(ctx, c)
}

// History returns the recipient's commissions newest first; an empty
// recipient id returns the admin view across all promoters.
func (s *Service) History(ctx context.Context, recipientID string) ([]Commission, error) {
	return s.repo.ListByRecipient(ctx, recipientID)
}

// MarkStatus progresses a commission's settlement state. Driven by the
// settlement collaborator at the service boundary.
func (s *Service) MarkStatus(ctx context.Context, id string, status Status) error {
	switch status {
	case StatusCredited, StatusCompleted:
	default:
		return fmt.Errorf("invalid settlement transition to %q", status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
