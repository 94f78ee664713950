package seen

import (
	"context"
	"sync"
)

type keywordRecord struct {
	order   []string
	members map[string]struct{}
}

// MemoryStore is the in-process Store for single-instance deployments.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	keywords map[string]*keywordRecord
}

// NewMemoryStore creates a store keeping at most capacity ids per keyword.
func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{
		capacity: capacity,
		keywords: make(map[string]*keywordRecord),
	}
}

func (s *MemoryStore) CheckAndMark(_ context.Context, keyword, videoID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.keywords[keyword]
	if !ok {
		rec = &keywordRecord{members: make(map[string]struct{}, s.capacity)}
		s.keywords[keyword] = rec
	}

	if _, exists := rec.members[videoID]; exists {
		return true, nil
	}

	rec.members[videoID] = struct{}{}
	rec.order = append(rec.order, videoID)

	if len(rec.order) > s.capacity {
		oldest := rec.order[0]
		rec.order = rec.order[1:]
		delete(rec.members, oldest)
	}

	return false, nil
}

func (s *MemoryStore) Clear(_ context.Context, keyword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keywords, keyword)
	return nil
}

// Len reports how many ids are held for a keyword. Test hook.
func (s *MemoryStore) Len(keyword string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.keywords[keyword]; ok {
		return len(rec.order)
	}
	return 0
}
