package editor

import (
	"errors"
	"sort"
	"sync"

	"blockpad/internal/domain"
)

// memStore is an in-memory domain.BlockStore for engine tests. failPuts
// makes every Put reject, exercising the write-failure path.
type memStore struct {
	mu       sync.Mutex
	blocks   map[string]domain.Block
	failPuts bool
}

func newMemStore() *memStore {
	return &memStore{blocks: map[string]domain.Block{}}
}

func (s *memStore) Get(id string) (*domain.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blocks[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &b, nil
}

func (s *memStore) GetAllByPageID(pageID string) ([]domain.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Block
	for _, b := range s.blocks {
		if b.PageID == pageID {
			out = append(out, b)
		}
	}
	sortBlocks(out)
	return out, nil
}

func (s *memStore) GetAllByParentID(parentID string) ([]domain.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Block
	for _, b := range s.blocks {
		if b.ParentID == parentID {
			out = append(out, b)
		}
	}
	sortBlocks(out)
	return out, nil
}

func (s *memStore) Put(b *domain.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPuts {
		return errors.New("disk full")
	}
	s.blocks[b.ID] = *b
	return nil
}

func (s *memStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blocks, id)
	return nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blocks)
}

func (s *memStore) setFailPuts(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPuts = v
}

func sortBlocks(blocks []domain.Block) {
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].ParentID != blocks[j].ParentID {
			return blocks[i].ParentID < blocks[j].ParentID
		}
		return blocks[i].Order < blocks[j].Order
	})
}
