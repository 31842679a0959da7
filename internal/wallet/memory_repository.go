package wallet

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/promohub/promohub/internal/commission"
)

type memoryRepository struct {
	mu          sync.Mutex
	withdrawals map[string]Withdrawal
	commissions commission.Repository
}

// NewMemoryRepository constructs an in-memory withdrawal repository for
// tests and database-less development. It reads the commission repository
// to re-verify available balance on approval, mirroring the SQL aggregation
// the Postgres repository runs inside its transaction.
func NewMemoryRepository(commissions commission.Repository) Repository {
	return &memoryRepository{
		withdrawals: make(map[string]Withdrawal),
		commissions: commissions,
	}
}

func (r *memoryRepository) Create(_ context.Context, w Withdrawal) (Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.ID = uuid.NewString()
	w.Status = StatusPending
	w.CreatedAt = time.Now().UTC()
	r.withdrawals[w.ID] = w
	return w, nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.withdrawals[id]
	if !ok {
		return Withdrawal{}, ErrNotFound
	}
	return w, nil
}

func (r *memoryRepository) ListByPromoter(_ context.Context, promoterID string) ([]Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Withdrawal
	for _, w := range r.withdrawals {
		if w.PromoterID != promoterID {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryRepository) SumByStatus(_ context.Context, promoterID string, status WithdrawalStatus) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sumLocked(promoterID, status), nil
}

func (r *memoryRepository) Approve(ctx context.Context, id, adminID string) (Withdrawal, error) {
	// Earned total read outside the lock; commission records are append-only
	// and settled amounts only grow.
	earned, err := r.earned(ctx)
	if err != nil {
		return Withdrawal{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.withdrawals[id]
	if !ok {
		return Withdrawal{}, ErrNotFound
	}
	if w.Status != StatusPending {
		return Withdrawal{}, ErrAlreadyProcessed
	}

	available := earned(w.PromoterID).Sub(r.sumLocked(w.PromoterID, StatusApproved))
	if w.Amount.GreaterThan(available) {
		return Withdrawal{}, ErrInsufficientFunds
	}

	decidedAt := time.Now().UTC()
	w.Status = StatusApproved
	w.AdminID = adminID
	w.DecidedAt = &decidedAt
	r.withdrawals[id] = w
	return w, nil
}

func (r *memoryRepository) Reject(_ context.Context, id, adminID string) (Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.withdrawals[id]
	if !ok {
		return Withdrawal{}, ErrNotFound
	}
	if w.Status != StatusPending {
		return Withdrawal{}, ErrAlreadyProcessed
	}

	decidedAt := time.Now().UTC()
	w.Status = StatusRejected
	w.AdminID = adminID
	w.DecidedAt = &decidedAt
	r.withdrawals[id] = w
	return w, nil
}

func (r *memoryRepository) sumLocked(promoterID string, status WithdrawalStatus) decimal.Decimal {
	sum := decimal.Zero
	for _, w := range r.withdrawals {
		if w.PromoterID == promoterID && w.Status == status {
			sum = sum.Add(w.Amount)
		}
	}
	return sum
}

func (r *memoryRepository) earned(ctx context.Context) (func(string) decimal.Decimal, error) {
	records, err := r.commissions.ListByRecipient(ctx, "")
	if err != nil {
		return nil, err
	}
	byRecipient := make(map[string]decimal.Decimal)
	for _, c := range records {
		if !c.Status.Earns() {
			continue
		}
		current, ok := byRecipient[c.RecipientID]
		if !ok {
			current = decimal.Zero
		}
		byRecipient[c.RecipientID] = current.Add(c.Amount)
	}
	return func(promoterID string) decimal.Decimal {
		if total, ok := byRecipient[promoterID]; ok {
			return total
		}
		return decimal.Zero
	}, nil
}
