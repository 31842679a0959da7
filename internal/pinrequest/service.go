package pinrequest

import (
	"context"
	"fmt"

	"github.com/promohub/promohub/internal/ledger"
	"github.com/promohub/promohub/internal/notification"
)

// Service exposes the request workflow: promoters submit, admins decide.
type Service struct {
	store    Store
	notifier notification.Notifier
}

// NewService builds the workflow service.
func NewService(store Store, notifier notification.Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// Submit creates a pending request for the promoter.
func (s *Service) Submit(ctx context.Context, promoterID string, requestedPins int64, reason string) (Request, error) {
	if requestedPins < MinRequestPins || requestedPins > MaxRequestPins {
		return Request{}, ErrInvalidQuantity
	}
	return s.store.Create(ctx, Request{
		PromoterID:    promoterID,
		RequestedPins: requestedPins,
		Reason:        reason,
	})
}

// Approve credits the promoter and closes the request. The store commits
// both effects together or neither.
func (s *Service) Approve(ctx context.Context, requestID, adminID, notes string) (Request, ledger.Transaction, error) {
	req, entry, err := s.store.Approve(ctx, requestID, adminID, notes)
	if err != nil {
		return Request{}, ledger.Transaction{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindPinRequestApproved,
			Destination: req.PromoterID,
			Body:        fmt.Sprintf("Your request for %d PINs was approved. New balance: %d", req.RequestedPins, entry.BalanceAfter),
		})
	}
	return req, entry, nil
}

// Reject closes the request without touching the ledger.
func (s *Service) Reject(ctx context.Context, requestID, adminID, notes string) (Request, error) {
	req, err := s.store.Reject(ctx, requestID, adminID, notes)
	if err != nil {
		return Request{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindPinRequestRejected,
			Destination: req.PromoterID,
			Body:        fmt.Sprintf("Your request for %d PINs was rejected.", req.RequestedPins),
		})
	}
	return req, nil
}

// Get fetches one request.
func (s *Service) Get(ctx context.Context, requestID string) (Request, error) {
	return s.store.Get(ctx, requestID)
}

// List returns requests newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]Request, error) {
	return s.store.List(ctx, f)
}
