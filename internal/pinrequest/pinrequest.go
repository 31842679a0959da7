package pinrequest

import (
	"context"
	"errors"
	"time"

	"github.com/promohub/promohub/internal/ledger"
)

var (
	// ErrDuplicatePending indicates the promoter already has a request in
	// the pending state. Enforced by the store, not by a read-then-write
	// check.
	ErrDuplicatePending = errors.New("promoter already has a pending pin request")

	// ErrNotFound indicates the request does not exist.
	ErrNotFound = errors.New("pin request not found")

	// ErrAlreadyProcessed indicates the request has left the pending state
	// and is terminal.
	ErrAlreadyProcessed = errors.New("pin request already processed")

	// ErrInvalidQuantity indicates the requested PIN count is outside the
	// allowed range.
	ErrInvalidQuantity = errors.New("requested pins must be between 1 and 1000")
)

// Requested PIN bounds per submission.
const (
	MinRequestPins = 1
	MaxRequestPins = 1000
)

// Status tracks the request lifecycle: pending is the initial state,
// approved and rejected are terminal and mutually exclusive.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is a promoter-initiated ask for PINs, gated by admin decision.
type Request struct {
	ID            string     `json:"id"`
	Number        int64      `json:"number"`
	PromoterID    string     `json:"promoter_id"`
	RequestedPins int64      `json:"requested_pins"`
	Reason        string     `json:"reason"`
	Status        Status     `json:"status"`
	ApproverID    string     `json:"approver_id,omitempty"`
	AdminNotes    string     `json:"admin_notes,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Filter selects requests for listing. An empty PromoterID lists across all
// promoters; PendingOnly narrows to the admin work queue.
type Filter struct {
	PromoterID  string
	PendingOnly bool
	Limit       int
	Offset      int
}

// Store persists requests and owns the transition guarantees: at most one
// pending request per promoter, and a decision commits exactly once.
type Store interface {
	// Create inserts a pending request, failing with ErrDuplicatePending
	// when the promoter already has one.
	Create(ctx context.Context, req Request) (Request, error)

	// Approve flips pending to approved and credits the promoter through
	// the ledger in the same atomic unit, returning both effects.
	Approve(ctx context.Context, requestID, adminID, notes string) (Request, ledger.Transaction, error)

	// Reject flips pending to rejected. No ledger effect.
	Reject(ctx context.Context, requestID, adminID, notes string) (Request, error)

	// Get fetches one request.
	Get(ctx context.Context, requestID string) (Request, error)

	// List returns requests newest first.
	List(ctx context.Context, f Filter) ([]Request, error)
}
