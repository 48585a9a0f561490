package preference

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process and ranks them by brute-force cosine.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Add(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *MemoryStore) Nearest(_ context.Context, userID string, vec []float32, k int) ([]Record, error) {
	s.mu.RLock()
	var own []Record
	for _, r := range s.records {
		if r.UserID == userID {
			own = append(own, r)
		}
	}
	s.mu.RUnlock()
	return rankNearest(own, vec, k), nil
}
