package listitem

import (
	"context"
	"errors"
	"sync"

	"bookshelf/internal/book"
	"bookshelf/internal/platform/id"
)

// MemoryRepo is a Repository held in process memory. When books is set,
// Create rejects items for books it does not know.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]ListItem
	order []string
	books BookReader
}

func NewMemoryRepo(books BookReader) *MemoryRepo {
	return &MemoryRepo{items: make(map[string]ListItem), books: books}
}

func (r *MemoryRepo) Query(_ context.Context, f Filter) ([]ListItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []ListItem{}
	for _, itemID := range r.order {
		if item := r.items[itemID]; f.Match(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *MemoryRepo) ReadByID(_ context.Context, itemID string) (ListItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[itemID]
	if !ok {
		return ListItem{}, ErrNotFound
	}
	return item, nil
}

func (r *MemoryRepo) Create(ctx context.Context, item ListItem) (ListItem, error) {
	if r.books != nil {
		if _, err := r.books.ReadByID(ctx, item.BookID); err != nil {
			if errors.Is(err, book.ErrNotFound) {
				return ListItem{}, ErrBookNotFound
			}
			return ListItem{}, err
		}
	}

	newID, err := id.Generate("li")
	if err != nil {
		return ListItem{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.OwnerID == item.OwnerID && existing.BookID == item.BookID {
			return ListItem{}, ErrDuplicate
		}
	}
	item.ID = newID
	r.items[item.ID] = item
	r.order = append(r.order, item.ID)
	return item, nil
}

func (r *MemoryRepo) Update(_ context.Context, itemID string, u Updates) (ListItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return ListItem{}, ErrNotFound
	}
	item = u.Apply(item)
	r.items[itemID] = item
	return item, nil
}

func (r *MemoryRepo) Remove(_ context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[itemID]; !ok {
		return ErrNotFound
	}
	delete(r.items, itemID)
	for i, v := range r.order {
		if v == itemID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
