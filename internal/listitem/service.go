package listitem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookshelf/internal/apperr"
	"bookshelf/internal/book"
)

type Service struct {
	items Repository
	books BookReader
	now   func() time.Time
}

func NewService(items Repository, books BookReader) *Service {
	return &Service{items: items, books: books, now: time.Now}
}

func notFound(id string) *apperr.Error {
	return apperr.NotFound(fmt.Sprintf("No list item was found with the id of %s", id))
}

func duplicate(ownerID, bookID string) *apperr.Error {
	return apperr.AlreadyExists(fmt.Sprintf("User %s already has a list item for the book with the ID %s", ownerID, bookID))
}

// Load fetches the item and checks that userID owns it.
func (s *Service) Load(ctx context.Context, userID, itemID string) (ListItem, error) {
	item, err := s.items.ReadByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ListItem{}, notFound(itemID).WithCause(err)
		}
		return ListItem{}, fmt.Errorf("read list item %s: %w", itemID, err)
	}
	if item.OwnerID != userID {
		return ListItem{}, apperr.Forbidden(fmt.Sprintf("User with id %s is not authorized to access the list item %s", userID, item.ID))
	}
	return item, nil
}

// ListForOwner returns the owner's items with their books, fetching all
// books in one call.
func (s *Service) ListForOwner(ctx context.Context, ownerID string) ([]Expanded, error) {
	items, err := s.items.Query(ctx, Filter{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("query list items: %w", err)
	}
	out := make([]Expanded, 0, len(items))
	if len(items) == 0 {
		return out, nil
	}

	seen := make(map[string]struct{}, len(items))
	bookIDs := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.BookID]; ok {
			continue
		}
		seen[item.BookID] = struct{}{}
		bookIDs = append(bookIDs, item.BookID)
	}

	books, err := s.books.ReadManyByID(ctx, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("read books: %w", err)
	}
	byID := make(map[string]book.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	for _, item := range items {
		e := Expanded{ListItem: item}
		if b, ok := byID[item.BookID]; ok {
			e.Book = &b
		}
		out = append(out, e)
	}
	return out, nil
}

// Expand attaches the item's book. A missing book is not an error.
func (s *Service) Expand(ctx context.Context, item ListItem) (Expanded, error) {
	b, err := s.books.ReadByID(ctx, item.BookID)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			return Expanded{ListItem: item}, nil
		}
		return Expanded{}, fmt.Errorf("read book %s: %w", item.BookID, err)
	}
	return Expanded{ListItem: item, Book: &b}, nil
}

// Create adds an unrated item for (ownerID, bookID) starting now.
func (s *Service) Create(ctx context.Context, ownerID, bookID string) (Expanded, error) {
	if bookID == "" {
		return Expanded{}, apperr.Validation("No bookId provided")
	}

	existing, err := s.items.Query(ctx, Filter{OwnerID: ownerID, BookID: bookID})
	if err != nil {
		return Expanded{}, fmt.Errorf("query list items: %w", err)
	}
	if len(existing) > 0 {
		return Expanded{}, duplicate(ownerID, bookID)
	}

	created, err := s.items.Create(ctx, ListItem{
		OwnerID:   ownerID,
		BookID:    bookID,
		Rating:    Unrated,
		StartDate: s.now().UnixMilli(),
	})
	switch {
	case errors.Is(err, ErrDuplicate):
		return Expanded{}, duplicate(ownerID, bookID).WithCause(err)
	case errors.Is(err, ErrBookNotFound):
		return Expanded{}, apperr.Validation(fmt.Sprintf("No book was found with the id of %s", bookID)).WithCause(err)
	case err != nil:
		return Expanded{}, fmt.Errorf("create list item: %w", err)
	}
	return s.Expand(ctx, created)
}

// Update merges u into item and returns the stored result.
func (s *Service) Update(ctx context.Context, item ListItem, u Updates) (Expanded, error) {
	updated, err := s.items.Update(ctx, item.ID, u)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Expanded{}, notFound(item.ID).WithCause(err)
		}
		return Expanded{}, fmt.Errorf("update list item %s: %w", item.ID, err)
	}
	return s.Expand(ctx, updated)
}

func (s *Service) Delete(ctx context.Context, item ListItem) error {
	if err := s.items.Remove(ctx, item.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(item.ID).WithCause(err)
		}
		return fmt.Errorf("remove list item %s: %w", item.ID, err)
	}
	return nil
}
