package book

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is a Repository held in process memory.
type MemoryRepo struct {
	mu    sync.RWMutex
	books map[string]Book
}

func NewMemoryRepo(seed ...Book) *MemoryRepo {
	r := &MemoryRepo{books: make(map[string]Book, len(seed))}
	for _, b := range seed {
		r.books[b.ID] = b
	}
	return r
}

func (r *MemoryRepo) ReadByID(_ context.Context, id string) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (r *MemoryRepo) ReadManyByID(_ context.Context, ids []string) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := r.books[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *MemoryRepo) Search(_ context.Context, query string, limit int) ([]Book, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(query)

	r.mu.RLock()
	out := make([]Book, 0)
	for _, b := range r.books {
		if strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Author), q) {
			out = append(out, b)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) Insert(_ context.Context, books []Book) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inserted := 0
	for _, b := range books {
		if _, exists := r.books[b.ID]; exists {
			continue
		}
		r.books[b.ID] = b
		inserted++
	}
	return inserted, nil
}
