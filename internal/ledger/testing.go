package ledger

// EnsureUser is a test helper that registers a promoter with a zero balance
// when using the in-memory store.
func EnsureUser(s Store, userID string) {
	if mem, ok := s.(*inMemoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		if _, exists := mem.balances[userID]; !exists {
			mem.balances[userID] = 0
		}
	}
}

// SeedBalance is a test helper that sets a promoter's balance directly when
// using the in-memory store. It bypasses the transaction log, so replay
// assertions should only cover entries recorded afterwards.
func SeedBalance(s Store, userID string, amount int64) {
	if mem, ok := s.(*inMemoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.balances[userID] = amount
	}
}
