package pinrequest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/promohub/promohub/internal/ledger"
)

type inMemoryStore struct {
	mu        sync.Mutex
	requests  map[string]Request
	numberSeq int64
	ledger    ledger.Store
}

// NewInMemory builds an in-memory request store for tests and database-less
// development. The pending-uniqueness check and the insert happen under one
// lock, mirroring the partial unique index the Postgres store relies on.
func NewInMemory(led ledger.Store) Store {
	return &inMemoryStore{requests: make(map[string]Request), ledger: led}
}

func (s *inMemoryStore) Create(_ context.Context, req Request) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.requests {
		if existing.PromoterID == req.PromoterID && existing.Status == StatusPending {
			return Request{}, ErrDuplicatePending
		}
	}

	s.numberSeq++
	req.ID = uuid.NewString()
	req.Number = s.numberSeq
	req.Status = StatusPending
	req.CreatedAt = time.Now().UTC()
	s.requests[req.ID] = req
	return req, nil
}

func (s *inMemoryStore) Approve(ctx context.Context, requestID, adminID, notes string) (Request, ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[requestID]
	if !ok {
		return Request{}, ledger.Transaction{}, ErrNotFound
	}
	if req.Status != StatusPending {
		return Request{}, ledger.Transaction{}, ErrAlreadyProcessed
	}

	note := fmt.Sprintf("pin request #%d approved", req.Number)
	entry, err := s.ledger.Record(ctx, req.PromoterID, ledger.ActionAdminAllocation, req.RequestedPins, note)
	if err != nil {
		return Request{}, ledger.Transaction{}, err
	}

	decidedAt := time.Now().UTC()
	req.Status = StatusApproved
	req.ApproverID = adminID
	req.AdminNotes = notes
	req.DecidedAt = &decidedAt
	s.requests[requestID] = req
	return req, entry, nil
}

func (s *inMemoryStore) Reject(_ context.Context, requestID, adminID, notes string) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[requestID]
	if !ok {
		return Request{}, ErrNotFound
	}
	if req.Status != StatusPending {
		return Request{}, ErrAlreadyProcessed
	}

	decidedAt := time.Now().UTC()
	req.Status = StatusRejected
	req.ApproverID = adminID
	req.AdminNotes = notes
	req.DecidedAt = &decidedAt
	s.requests[requestID] = req
	return req, nil
}

func (s *inMemoryStore) Get(_ context.Context, requestID string) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return Request{}, ErrNotFound
	}
	return req, nil
}

func (s *inMemoryStore) List(_ context.Context, f Filter) ([]Request, error) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []Request
	for _, req := range s.requests {
		if f.PromoterID != "" && req.PromoterID != f.PromoterID {
			continue
		}
		if f.PendingOnly && req.Status != StatusPending {
			continue
		}
		matched = append(matched, req)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Number > matched[j].Number
	})

	if f.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[f.Offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}
